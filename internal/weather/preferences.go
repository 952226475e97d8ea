package weather

import (
	"encoding/json"
	"strings"
)

// ParseWidgetSet decodes a stored widgetPreferences value. A missing or
// unparsable value enables every widget, and widgets absent from a parsed
// mapping stay enabled.
func ParseWidgetSet(raw *string) WidgetSet {
	set := make(WidgetSet, len(AllWidgets))
	for _, w := range AllWidgets {
		set[w] = true
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return set
	}

	var stored map[string]bool
	if err := json.Unmarshal([]byte(*raw), &stored); err != nil {
		return set
	}
	for _, w := range AllWidgets {
		if enabled, ok := stored[string(w)]; ok {
			set[w] = enabled
		}
	}
	return set
}

// ParseUnit maps a stored or requested unit onto a TemperatureUnit, with
// Fahrenheit for anything unrecognized.
func ParseUnit(raw string) TemperatureUnit {
	if TemperatureUnit(strings.ToUpper(strings.TrimSpace(raw))) == Celsius {
		return Celsius
	}
	return Fahrenheit
}
