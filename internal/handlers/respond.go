package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/services"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/session"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/weather"
	"github.com/gofiber/fiber/v2"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
)

// locationIDKey holds the location a request targets, for error logs.
const locationIDKey = "location_id"

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badBody(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
}

// respondError maps service errors onto status codes. Unknown errors are
// wrapped and left to ErrorHandler, which answers 500.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: verr.Message, Fields: verr.Fields,
		})
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, weather.ErrEmptyQuery):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, session.ErrNoSession):
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return errorJSON(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrLocationNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Location not found")
	case errors.Is(err, services.ErrEmailTaken):
		return errorJSON(c, fiber.StatusConflict, "User already exists")
	case errors.Is(err, weather.ErrUpstream):
		slog.Warn("weather upstream failed", "path", c.Path(), "error", err.Error())
		return errorJSON(c, fiber.StatusBadGateway, "Weather service unavailable")
	}

	return fmt.Errorf("%s: %w", fallback, err)
}

// ErrorHandler is the fiber error handler. Details are exposed only for 4xx
// responses; 5xx errors are logged and captured by the request's Sentry hub.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= 500 {
		attrs := []any{"method", c.Method(), "path", c.Path(), "error", err.Error()}
		if rid, ok := c.Locals("requestid").(string); ok {
			attrs = append(attrs, "request_id", rid)
		}
		if uid, uerr := session.GetUserID(c); uerr == nil {
			attrs = append(attrs, "user_id", uid.String())
		}
		if lid, ok := c.Locals(locationIDKey).(string); ok && lid != "" {
			attrs = append(attrs, "location_id", lid)
		}
		slog.Error("unhandled server error", attrs...)

		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
