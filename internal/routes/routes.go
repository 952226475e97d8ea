package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/config"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Location   *handlers.LocationHandler
	Preference *handlers.PreferenceHandler
	Weather    *handlers.WeatherHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth: stricter 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", middleware.JWTProtected(cfg), h.Auth.Logout)

	protected := middleware.JWTProtected(cfg)

	api.Get("/locations", protected, h.Location.List)
	api.Post("/locations", protected, h.Location.Create)
	api.Put("/locations", protected, h.Location.Update)
	api.Delete("/locations", protected, h.Location.Delete)

	api.Get("/preferences", protected, h.Preference.Get)
	api.Put("/preferences", protected, h.Preference.Update)

	api.Get("/weather", protected, h.Weather.Dashboard)
	api.Get("/geocode", protected, h.Weather.Geocode)
	api.Get("/radar", protected, h.Weather.Radar)
}
