package weather

import (
	"math"
	"strings"
	"time"
)

// Condition is a coarse weather category derived from a WMO weather code.
type Condition string

const (
	ConditionClear  Condition = "clear"
	ConditionCloudy Condition = "cloudy"
	ConditionRain   Condition = "rain"
	ConditionSnow   Condition = "snow"
	ConditionStorm  Condition = "storm"
)

func conditionFor(code int) Condition {
	switch {
	case code <= 3:
		return ConditionClear
	case code <= 48:
		return ConditionCloudy
	case code <= 67:
		return ConditionRain
	case code <= 77:
		return ConditionSnow
	case code <= 82:
		return ConditionRain
	case code <= 86:
		return ConditionSnow
	default:
		return ConditionStorm
	}
}

func uvIndexFor(v float64) *UVIndex {
	uv := &UVIndex{Value: v}
	switch {
	case v <= 2:
		uv.Level, uv.Advice = "Low", "No protection needed."
	case v <= 5:
		uv.Level, uv.Advice = "Moderate", "Seek shade during midday."
	case v <= 7:
		uv.Level, uv.Advice = "High", "Wear a hat and sunscreen."
	case v <= 10:
		uv.Level, uv.Advice = "Very High", "Avoid sun between 10AM-4PM."
	default:
		uv.Level, uv.Advice = "Extreme", "Avoid sun between 10AM-4PM."
	}
	return uv
}

func airQualityFor(aqi int) *AirQuality {
	aq := &AirQuality{AQI: aqi}
	switch {
	case aqi <= 50:
		aq.Category, aq.Description = "Good", "Air quality is satisfactory."
	case aqi <= 100:
		aq.Category, aq.Description = "Moderate", "Acceptable quality."
	case aqi <= 150:
		aq.Category, aq.Description = "Unhealthy for Sensitive Groups", "Sensitive groups should reduce exertion."
	case aqi <= 200:
		aq.Category, aq.Description = "Unhealthy", "Public may experience health effects."
	case aqi <= 300:
		aq.Category, aq.Description = "Very Unhealthy", "Health alert: risk of health effects for everyone."
	default:
		aq.Category, aq.Description = "Hazardous", "Health warning of emergency conditions."
	}
	return aq
}

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func compassFor(deg float64) string {
	idx := int(math.Round(deg/45)) % len(compassPoints)
	if idx < 0 {
		idx += len(compassPoints)
	}
	return compassPoints[idx]
}

// currentHourIndex finds the hourly slot matching the current local hour at
// the forecast location, or -1. Open-Meteo returns local times without an
// offset ("2006-01-02T15:04") when timezone=auto.
func currentHourIndex(times []string, now time.Time, utcOffsetSeconds int) int {
	local := now.UTC().Add(time.Duration(utcOffsetSeconds) * time.Second)
	prefix := local.Format("2006-01-02T15")
	for i, t := range times {
		if strings.HasPrefix(t, prefix) {
			return i
		}
	}
	return -1
}
