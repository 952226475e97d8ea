package handlers

import (
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/services"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/session"
	"github.com/gofiber/fiber/v2"
)

type PreferenceHandler struct {
	preferences *services.PreferenceService
}

func NewPreferenceHandler(preferences *services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferences: preferences}
}

func (h *PreferenceHandler) Get(c *fiber.Ctx) error {
	email, err := session.GetEmail(c)
	if err != nil {
		return respondError(c, err, "")
	}

	resp, err := h.preferences.Get(c.UserContext(), email)
	if err != nil {
		return respondError(c, err, "Failed to fetch preferences")
	}
	return c.JSON(resp)
}

func (h *PreferenceHandler) Update(c *fiber.Ctx) error {
	email, err := session.GetEmail(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req dto.UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.preferences.Update(c.UserContext(), email, &req)
	if err != nil {
		return respondError(c, err, "Failed to update preferences")
	}
	return c.JSON(resp)
}
