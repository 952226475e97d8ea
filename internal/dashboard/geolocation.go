package dashboard

import (
	"context"
	"errors"
)

var (
	ErrGeolocationDenied      = errors.New("geolocation denied")
	ErrGeolocationUnsupported = errors.New("geolocation unsupported")
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geolocator reports the device position.
type Geolocator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// StaticGeolocator answers with fixed coordinates, or
// ErrGeolocationUnsupported when none were configured.
type StaticGeolocator struct {
	Coords *Coordinates
}

func (g StaticGeolocator) Locate(context.Context) (Coordinates, error) {
	if g.Coords == nil {
		return Coordinates{}, ErrGeolocationUnsupported
	}
	return *g.Coords, nil
}

func geolocationMessage(err error) string {
	if errors.Is(err, ErrGeolocationUnsupported) {
		return "Geolocation is not supported. Please add a location manually."
	}
	return "Location access denied. Please add a location manually."
}
