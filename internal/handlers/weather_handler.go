package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/services"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/session"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/weather"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// WeatherSource is the outbound weather aggregator.
type WeatherSource interface {
	Dashboard(ctx context.Context, q weather.DashboardQuery) (*weather.Dashboard, error)
	Geocode(ctx context.Context, name string) ([]weather.GeocodeResult, error)
	Radar(ctx context.Context) (*weather.Radar, error)
}

type WeatherHandler struct {
	source      WeatherSource
	preferences *services.PreferenceService
}

func NewWeatherHandler(source WeatherSource, preferences *services.PreferenceService) *WeatherHandler {
	return &WeatherHandler{source: source, preferences: preferences}
}

type dashboardQuery struct {
	Latitude   *float64 `validate:"required,min=-90,max=90"`
	Longitude  *float64 `validate:"required,min=-180,max=180"`
	Unit       string   `validate:"omitempty,oneof=FAHRENHEIT CELSIUS"`
	AirQuality *bool
}

func (q *dashboardQuery) bind(c *fiber.Ctx) error {
	for _, p := range []struct {
		key string
		dst **float64
	}{{"latitude", &q.Latitude}, {"longitude", &q.Longitude}} {
		raw := strings.TrimSpace(c.Query(p.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errors.New(p.key + " must be a number")
		}
		*p.dst = &v
	}

	q.Unit = strings.ToUpper(strings.TrimSpace(c.Query("unit")))

	if raw := c.Query("airQuality"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.New("airQuality must be true or false")
		}
		q.AirQuality = &v
	}

	if err := validate.Struct(q); err != nil {
		return errors.New("latitude and longitude are required and must be in range; unit must be FAHRENHEIT or CELSIUS")
	}
	return nil
}

// Dashboard aggregates the weather for the given coordinates. Unit and widget
// visibility default to the caller's stored preferences; the unit and
// airQuality query parameters override them.
func (h *WeatherHandler) Dashboard(c *fiber.Ctx) error {
	email, err := session.GetEmail(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var q dashboardQuery
	if err := q.bind(c); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	prefs, err := h.preferences.Get(c.UserContext(), email)
	if err != nil {
		return respondError(c, err, "Failed to fetch preferences")
	}

	unit := q.Unit
	if unit == "" && prefs.TemperatureUnit != nil {
		unit = *prefs.TemperatureUnit
	}

	widgets := weather.ParseWidgetSet(prefs.WidgetPreferences)
	if q.AirQuality != nil {
		widgets[weather.WidgetAirQuality] = *q.AirQuality
	}

	d, err := h.source.Dashboard(c.UserContext(), weather.DashboardQuery{
		Latitude:  *q.Latitude,
		Longitude: *q.Longitude,
		Unit:      weather.ParseUnit(unit),
		Widgets:   widgets,
	})
	if err != nil {
		return respondError(c, err, "Failed to fetch weather")
	}
	return c.JSON(d)
}

func (h *WeatherHandler) Geocode(c *fiber.Ctx) error {
	results, err := h.source.Geocode(c.UserContext(), c.Query("name"))
	if err != nil {
		return respondError(c, err, "Failed to search locations")
	}
	return c.JSON(fiber.Map{"results": results})
}

func (h *WeatherHandler) Radar(c *fiber.Ctx) error {
	r, err := h.source.Radar(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch radar metadata")
	}
	return c.JSON(r)
}
