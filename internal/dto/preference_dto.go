package dto

const (
	TemperatureFahrenheit = "FAHRENHEIT"
	TemperatureCelsius    = "CELSIUS"

	ThemeLight  = "LIGHT"
	ThemeDark   = "DARK"
	ThemeSystem = "SYSTEM"
)

// WidgetKeys lists every widget whose visibility can be toggled.
var WidgetKeys = []string{"hourly", "precipitation", "uv", "wind", "airQuality", "astronomy"}

// PreferencesResponse mirrors the stored columns. WidgetPreferences is the
// raw JSON text; clients parse it themselves.
type PreferencesResponse struct {
	TemperatureUnit   *string `json:"temperatureUnit"`
	Theme             *string `json:"theme"`
	WidgetPreferences *string `json:"widgetPreferences"`
}

type UpdatePreferencesRequest struct {
	TemperatureUnit   string          `json:"temperatureUnit" validate:"omitempty,oneof=FAHRENHEIT CELSIUS"`
	Theme             string          `json:"theme" validate:"omitempty,oneof=LIGHT DARK SYSTEM"`
	WidgetPreferences map[string]bool `json:"widgetPreferences"`
}
