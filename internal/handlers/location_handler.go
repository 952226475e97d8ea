package handlers

import (
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/services"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/session"
	"github.com/gofiber/fiber/v2"
)

type LocationHandler struct {
	locations *services.LocationService
}

func NewLocationHandler(locations *services.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

func (h *LocationHandler) List(c *fiber.Ctx) error {
	email, err := session.GetEmail(c)
	if err != nil {
		return respondError(c, err, "")
	}

	resp, err := h.locations.List(c.UserContext(), email)
	if err != nil {
		return respondError(c, err, "Failed to fetch locations")
	}
	return c.JSON(resp)
}

func (h *LocationHandler) Create(c *fiber.Ctx) error {
	email, err := session.GetEmail(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req dto.CreateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.locations.Create(c.UserContext(), email, &req)
	if err != nil {
		return respondError(c, err, "Failed to create location")
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Update sets the default flag and/or renames a location. The id travels in
// the body.
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	email, err := session.GetEmail(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req dto.UpdateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	c.Locals(locationIDKey, req.ID)

	resp, err := h.locations.Update(c.UserContext(), email, &req)
	if err != nil {
		return respondError(c, err, "Failed to update location")
	}
	return c.JSON(resp)
}

func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	email, err := session.GetEmail(c)
	if err != nil {
		return respondError(c, err, "")
	}

	id := c.Query("id")
	c.Locals(locationIDKey, id)

	if err := h.locations.Delete(c.UserContext(), email, id); err != nil {
		return respondError(c, err, "Failed to delete location")
	}
	return c.JSON(dto.MessageResponse{Message: "Location deleted"})
}
