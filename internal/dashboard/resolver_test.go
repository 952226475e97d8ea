package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/weather"
	"github.com/google/uuid"
)

type fakeAPI struct {
	prefs     *dto.PreferencesResponse
	prefsErr  error
	locations []dto.LocationResponse
	locErr    error

	createFn func(req *dto.CreateLocationRequest) (*dto.LocationResponse, error)
	updateFn func(req *dto.UpdateLocationRequest) (*dto.LocationResponse, error)
	deleteFn func(id string) error
}

func (f *fakeAPI) Preferences(context.Context) (*dto.PreferencesResponse, error) {
	return f.prefs, f.prefsErr
}

func (f *fakeAPI) Locations(context.Context) ([]dto.LocationResponse, error) {
	return f.locations, f.locErr
}

func (f *fakeAPI) CreateLocation(_ context.Context, req *dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	return f.createFn(req)
}

func (f *fakeAPI) UpdateLocation(_ context.Context, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	return f.updateFn(req)
}

func (f *fakeAPI) DeleteLocation(_ context.Context, id string) error {
	return f.deleteFn(id)
}

type fakeGeo struct {
	coords Coordinates
	err    error
	calls  int
}

func (g *fakeGeo) Locate(context.Context) (Coordinates, error) {
	g.calls++
	return g.coords, g.err
}

func loc(name string, isDefault bool) dto.LocationResponse {
	return dto.LocationResponse{ID: uuid.New(), Name: name, Latitude: 10, Longitude: 20, IsDefault: isDefault}
}

func strPtr(s string) *string { return &s }

func TestResolvePriority(t *testing.T) {
	home := loc("Home", true)
	work := loc("Work", false)

	cases := []struct {
		name       string
		remembered string
		locations  []dto.LocationResponse
		want       State
		geoCalls   int
	}{
		{"remembered current", CurrentLocation, []dto.LocationResponse{home, work}, State{Kind: ShowingCurrent}, 1},
		{"remembered location", work.ID.String(), []dto.LocationResponse{home, work}, State{Kind: ShowingLocation, LocationID: work.ID.String()}, 0},
		{"stale selection falls through to default", uuid.NewString(), []dto.LocationResponse{home, work}, State{Kind: ShowingLocation, LocationID: home.ID.String()}, 0},
		{"nothing remembered uses default", "", []dto.LocationResponse{work, home}, State{Kind: ShowingLocation, LocationID: home.ID.String()}, 0},
		{"no default uses geolocation", "", []dto.LocationResponse{work}, State{Kind: ShowingCurrent}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMemoryStore()
			if tc.remembered != "" {
				store.Set(SelectedLocationKey, tc.remembered)
			}
			geo := &fakeGeo{coords: Coordinates{Latitude: 1, Longitude: 2}}
			r := NewResolver(&fakeAPI{locations: tc.locations}, store, geo)

			if err := r.Resolve(context.Background()); err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if r.State() != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, r.State())
			}
			if geo.calls != tc.geoCalls {
				t.Fatalf("expected %d geolocation calls, got %d", tc.geoCalls, geo.calls)
			}
			if _, ok := r.Coordinates(); !ok {
				t.Fatalf("expected coordinates on screen")
			}
		})
	}
}

func TestResolveGeolocationFailure(t *testing.T) {
	cases := []struct {
		err     error
		message string
	}{
		{ErrGeolocationDenied, "Location access denied. Please add a location manually."},
		{ErrGeolocationUnsupported, "Geolocation is not supported. Please add a location manually."},
	}
	for _, tc := range cases {
		r := NewResolver(&fakeAPI{}, NewMemoryStore(), &fakeGeo{err: tc.err})
		if err := r.Resolve(context.Background()); err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if r.State().Kind != Error || r.State().Message != tc.message {
			t.Fatalf("unexpected state %+v", r.State())
		}
		if _, ok := r.Coordinates(); ok {
			t.Fatalf("expected no coordinates after geolocation failure")
		}
	}
}

func TestResolveAppliesPreferences(t *testing.T) {
	api := &fakeAPI{prefs: &dto.PreferencesResponse{
		TemperatureUnit:   strPtr("CELSIUS"),
		Theme:             strPtr("DARK"),
		WidgetPreferences: strPtr(`{"uv":false,"wind":false}`),
	}}
	r := NewResolver(api, NewMemoryStore(), &fakeGeo{})
	if err := r.Resolve(context.Background()); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	d := r.Display()
	if d.Unit != weather.Celsius || d.Theme != "DARK" {
		t.Fatalf("unexpected display %+v", d)
	}
	if d.Widgets[weather.WidgetUV] || d.Widgets[weather.WidgetWind] {
		t.Fatalf("expected uv and wind hidden, got %v", d.Widgets)
	}
	if !d.Widgets[weather.WidgetHourly] || !d.Widgets[weather.WidgetAstronomy] {
		t.Fatalf("expected missing keys to stay enabled, got %v", d.Widgets)
	}
}

func TestResolveWidgetFallback(t *testing.T) {
	api := &fakeAPI{prefs: &dto.PreferencesResponse{WidgetPreferences: strPtr("{not json")}}
	r := NewResolver(api, NewMemoryStore(), &fakeGeo{})
	if err := r.Resolve(context.Background()); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, w := range weather.AllWidgets {
		if !r.Display().Widgets[w] {
			t.Fatalf("expected %s enabled on unparsable preferences", w)
		}
	}
	if r.Display().Unit != weather.Fahrenheit || r.Display().Theme != dto.ThemeSystem {
		t.Fatalf("expected defaults, got %+v", r.Display())
	}
}

func TestResolveTransportFailure(t *testing.T) {
	r := NewResolver(&fakeAPI{locErr: errors.New("connection refused")}, NewMemoryStore(), &fakeGeo{})
	if err := r.Resolve(context.Background()); err == nil {
		t.Fatalf("expected an error")
	}
	if r.State().Kind != Error || r.State().Message != "Failed to load application data" {
		t.Fatalf("unexpected state %+v", r.State())
	}

	// Non-2xx answers are tolerated like an empty list.
	geo := &fakeGeo{}
	r = NewResolver(&fakeAPI{locErr: &APIError{Status: 500}}, NewMemoryStore(), geo)
	if err := r.Resolve(context.Background()); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if r.State().Kind != ShowingCurrent {
		t.Fatalf("expected geolocation fallback, got %+v", r.State())
	}
}

func TestSelectCurrentAndLocation(t *testing.T) {
	home := loc("Home", true)
	store := NewMemoryStore()
	geo := &fakeGeo{coords: Coordinates{Latitude: 5, Longitude: 6}}
	r := NewResolver(&fakeAPI{locations: []dto.LocationResponse{home}}, store, geo)
	ctx := context.Background()

	if err := r.Resolve(ctx); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if err := r.SelectCurrent(ctx); err != nil {
		t.Fatalf("select current: %v", err)
	}
	if v, _, _ := store.Get(SelectedLocationKey); v != CurrentLocation {
		t.Fatalf("expected sentinel persisted, got %q", v)
	}
	if c, ok := r.Coordinates(); !ok || c.Latitude != 5 {
		t.Fatalf("expected current coordinates, got %+v", c)
	}

	if err := r.SelectLocation(home.ID.String()); err != nil {
		t.Fatalf("select location: %v", err)
	}
	if v, _, _ := store.Get(SelectedLocationKey); v != home.ID.String() {
		t.Fatalf("expected id persisted, got %q", v)
	}
	if c, _ := r.Coordinates(); c.Latitude != home.Latitude {
		t.Fatalf("expected saved location coordinates, got %+v", c)
	}

	if err := r.SelectLocation(uuid.NewString()); !errors.Is(err, ErrUnknownLocation) {
		t.Fatalf("expected ErrUnknownLocation, got %v", err)
	}
}

func TestAddLocationSelectsFirst(t *testing.T) {
	var requested []bool
	api := &fakeAPI{
		createFn: func(req *dto.CreateLocationRequest) (*dto.LocationResponse, error) {
			requested = append(requested, req.IsDefault)
			l := loc(req.Name, req.IsDefault)
			return &l, nil
		},
	}
	r := NewResolver(api, NewMemoryStore(), &fakeGeo{err: ErrGeolocationDenied})
	ctx := context.Background()
	r.Resolve(ctx)

	first, err := r.AddLocation(ctx, "Paris", 48.8566, 2.3522)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if r.State().Kind != ShowingLocation || r.State().LocationID != first.ID.String() {
		t.Fatalf("expected first location selected, got %+v", r.State())
	}

	if _, err := r.AddLocation(ctx, "Lyon", 45.764, 4.8357); err != nil {
		t.Fatalf("add: %v", err)
	}
	if r.State().LocationID != first.ID.String() {
		t.Fatalf("second add must not change the selection")
	}
	if len(requested) != 2 || !requested[0] || requested[1] {
		t.Fatalf("expected only the first add to request default, got %v", requested)
	}
}

func TestDeleteSelectedClearsSelection(t *testing.T) {
	home := loc("Home", true)
	work := loc("Work", false)
	store := NewMemoryStore()
	store.Set(SelectedLocationKey, work.ID.String())

	api := &fakeAPI{
		locations: []dto.LocationResponse{home, work},
		deleteFn:  func(string) error { return nil },
	}
	r := NewResolver(api, store, &fakeGeo{})
	ctx := context.Background()
	r.Resolve(ctx)

	if err := r.DeleteLocation(ctx, home.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if r.State().LocationID != work.ID.String() {
		t.Fatalf("deleting another location must keep the selection")
	}

	if err := r.DeleteLocation(ctx, work.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if r.State().Kind != Unresolved {
		t.Fatalf("expected no selection, got %+v", r.State())
	}
	if _, ok := r.Coordinates(); ok {
		t.Fatalf("expected no coordinates after deleting the selection")
	}
	if _, ok, _ := store.Get(SelectedLocationKey); ok {
		t.Fatalf("expected the remembered selection to be cleared")
	}
	if len(r.Locations()) != 0 {
		t.Fatalf("expected empty list, got %d", len(r.Locations()))
	}
}

func TestSetDefaultMirrorsFlags(t *testing.T) {
	home := loc("Home", true)
	work := loc("Work", false)
	api := &fakeAPI{
		locations: []dto.LocationResponse{home, work},
		updateFn: func(req *dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
			return &dto.LocationResponse{}, nil
		},
	}
	r := NewResolver(api, NewMemoryStore(), &fakeGeo{})
	ctx := context.Background()
	r.Resolve(ctx)

	if err := r.SetDefault(ctx, work.ID.String()); err != nil {
		t.Fatalf("set default: %v", err)
	}
	defaults := 0
	for _, l := range r.Locations() {
		if l.IsDefault {
			defaults++
			if l.ID != work.ID {
				t.Fatalf("expected Work to be default, got %s", l.Name)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}

	failing := &fakeAPI{
		locations: []dto.LocationResponse{home, work},
		updateFn: func(*dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
			return nil, &APIError{Status: 404, Message: "Location not found"}
		},
	}
	r = NewResolver(failing, NewMemoryStore(), &fakeGeo{})
	r.Resolve(ctx)
	if err := r.SetDefault(ctx, work.ID.String()); err == nil {
		t.Fatalf("expected error")
	}
	if r.Locations()[0].ID != home.ID || !r.Locations()[0].IsDefault {
		t.Fatalf("failed update must leave local flags alone")
	}
}
