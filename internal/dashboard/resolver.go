package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/weather"
)

// CurrentLocation is the remembered selection meaning "use geolocation".
const CurrentLocation = "current"

var ErrUnknownLocation = errors.New("location is not in the saved list")

// API is the slice of the dashboard API the resolver needs.
type API interface {
	Preferences(ctx context.Context) (*dto.PreferencesResponse, error)
	Locations(ctx context.Context) ([]dto.LocationResponse, error)
	CreateLocation(ctx context.Context, req *dto.CreateLocationRequest) (*dto.LocationResponse, error)
	UpdateLocation(ctx context.Context, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error)
	DeleteLocation(ctx context.Context, id string) error
}

type StateKind int

const (
	Unresolved StateKind = iota
	PendingGeolocation
	ShowingLocation
	ShowingCurrent
	Error
)

func (k StateKind) String() string {
	switch k {
	case Unresolved:
		return "unresolved"
	case PendingGeolocation:
		return "pending-geolocation"
	case ShowingLocation:
		return "showing-location"
	case ShowingCurrent:
		return "showing-current"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(k))
	}
}

// State is what the dashboard currently displays. LocationID is set only for
// ShowingLocation, Message only for Error.
type State struct {
	Kind       StateKind
	LocationID string
	Message    string
}

// Display holds the preferences applied to rendering.
type Display struct {
	Unit    weather.TemperatureUnit
	Theme   string
	Widgets weather.WidgetSet
}

func defaultDisplay() Display {
	return Display{
		Unit:    weather.Fahrenheit,
		Theme:   dto.ThemeSystem,
		Widgets: weather.ParseWidgetSet(nil),
	}
}

// Resolver decides which coordinates the dashboard shows. It is driven by one
// caller at a time.
type Resolver struct {
	api   API
	store SettingsStore
	geo   Geolocator

	state     State
	display   Display
	locations []dto.LocationResponse
	current   *Coordinates
}

func NewResolver(api API, store SettingsStore, geo Geolocator) *Resolver {
	return &Resolver{api: api, store: store, geo: geo, display: defaultDisplay()}
}

func (r *Resolver) State() State { return r.state }

func (r *Resolver) Display() Display { return r.display }

func (r *Resolver) Locations() []dto.LocationResponse { return slices.Clone(r.locations) }

// Coordinates returns what is on screen, if anything.
func (r *Resolver) Coordinates() (Coordinates, bool) {
	switch r.state.Kind {
	case ShowingLocation:
		if loc := r.find(r.state.LocationID); loc != nil {
			return Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}, true
		}
	case ShowingCurrent:
		if r.current != nil {
			return *r.current, true
		}
	}
	return Coordinates{}, false
}

// Resolve loads preferences and locations, then picks the coordinates in
// priority order: remembered "current", remembered saved location, the
// default location, geolocation.
func (r *Resolver) Resolve(ctx context.Context) error {
	prefs, err := r.api.Preferences(ctx)
	if err != nil && !isAPIError(err) {
		return r.fail(fmt.Errorf("load preferences: %w", err))
	}
	r.display = defaultDisplay()
	if prefs != nil {
		r.applyPreferences(prefs)
	}

	locs, err := r.api.Locations(ctx)
	if err != nil && !isAPIError(err) {
		return r.fail(fmt.Errorf("load locations: %w", err))
	}
	r.locations = slices.Clone(locs)

	remembered, _, err := r.store.Get(SelectedLocationKey)
	if err != nil {
		return r.fail(fmt.Errorf("read settings: %w", err))
	}

	switch {
	case remembered == CurrentLocation:
		r.locate(ctx)
	case r.find(remembered) != nil:
		r.show(remembered)
	case r.defaultLocation() != nil:
		r.show(r.defaultLocation().ID.String())
	default:
		r.locate(ctx)
	}
	return nil
}

// SelectCurrent remembers geolocation as the choice and runs it.
func (r *Resolver) SelectCurrent(ctx context.Context) error {
	if err := r.store.Set(SelectedLocationKey, CurrentLocation); err != nil {
		return err
	}
	r.locate(ctx)
	return nil
}

func (r *Resolver) SelectLocation(id string) error {
	if r.find(id) == nil {
		return ErrUnknownLocation
	}
	if err := r.store.Set(SelectedLocationKey, id); err != nil {
		return err
	}
	r.current = nil
	r.show(id)
	return nil
}

// AddLocation saves a location. The user's first location is requested as
// default and selected.
func (r *Resolver) AddLocation(ctx context.Context, name string, lat, lon float64) (*dto.LocationResponse, error) {
	first := len(r.locations) == 0
	loc, err := r.api.CreateLocation(ctx, &dto.CreateLocationRequest{
		Name:      name,
		Latitude:  &lat,
		Longitude: &lon,
		IsDefault: first,
	})
	if err != nil {
		return nil, err
	}

	r.locations = append(r.locations, *loc)
	if first {
		r.show(loc.ID.String())
	}
	return loc, nil
}

// DeleteLocation removes a location. Deleting the one on screen leaves nothing
// selected.
func (r *Resolver) DeleteLocation(ctx context.Context, id string) error {
	if err := r.api.DeleteLocation(ctx, id); err != nil {
		return err
	}

	r.locations = slices.DeleteFunc(r.locations, func(l dto.LocationResponse) bool {
		return l.ID.String() == id
	})
	if r.state.Kind == ShowingLocation && r.state.LocationID == id {
		r.state = State{Kind: Unresolved}
		if err := r.store.Delete(SelectedLocationKey); err != nil {
			return err
		}
	}
	return nil
}

// SetDefault marks id as the default on the server and mirrors the flags
// locally so exactly one location is default.
func (r *Resolver) SetDefault(ctx context.Context, id string) error {
	isDefault := true
	if _, err := r.api.UpdateLocation(ctx, &dto.UpdateLocationRequest{ID: id, IsDefault: &isDefault}); err != nil {
		return err
	}
	for i := range r.locations {
		r.locations[i].IsDefault = r.locations[i].ID.String() == id
	}
	return nil
}

func (r *Resolver) applyPreferences(p *dto.PreferencesResponse) {
	if p.TemperatureUnit != nil && *p.TemperatureUnit != "" {
		r.display.Unit = weather.ParseUnit(*p.TemperatureUnit)
	}
	if p.Theme != nil && *p.Theme != "" {
		r.display.Theme = *p.Theme
	}
	r.display.Widgets = weather.ParseWidgetSet(p.WidgetPreferences)
}

func (r *Resolver) locate(ctx context.Context) {
	r.state = State{Kind: PendingGeolocation}

	coords, err := r.geo.Locate(ctx)
	if err != nil {
		r.current = nil
		r.state = State{Kind: Error, Message: geolocationMessage(err)}
		return
	}
	r.current = &coords
	r.state = State{Kind: ShowingCurrent}
}

func (r *Resolver) show(id string) {
	r.state = State{Kind: ShowingLocation, LocationID: id}
}

func (r *Resolver) fail(err error) error {
	r.state = State{Kind: Error, Message: "Failed to load application data"}
	return err
}

func (r *Resolver) find(id string) *dto.LocationResponse {
	if id == "" {
		return nil
	}
	for i := range r.locations {
		if r.locations[i].ID.String() == id {
			return &r.locations[i]
		}
	}
	return nil
}

func (r *Resolver) defaultLocation() *dto.LocationResponse {
	for i := range r.locations {
		if r.locations[i].IsDefault {
			return &r.locations[i]
		}
	}
	return nil
}

func isAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
