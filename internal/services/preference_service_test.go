package services

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/dto"
)

func TestPreferencesDefaultToNull(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "ana@example.com")
	svc := NewPreferenceService(db, NewUserResolver(db))

	prefs, err := svc.Get(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prefs.TemperatureUnit != nil || prefs.Theme != nil || prefs.WidgetPreferences != nil {
		t.Fatalf("expected all preferences null, got %+v", prefs)
	}
}

func TestPreferencesPartialUpdate(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "ana@example.com")
	svc := NewPreferenceService(db, NewUserResolver(db))
	ctx := context.Background()

	first, err := svc.Update(ctx, "ana@example.com", &dto.UpdatePreferencesRequest{TemperatureUnit: dto.TemperatureCelsius})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if first.TemperatureUnit == nil || *first.TemperatureUnit != dto.TemperatureCelsius {
		t.Fatalf("expected CELSIUS, got %+v", first.TemperatureUnit)
	}
	if first.Theme != nil {
		t.Fatalf("theme should stay null")
	}

	second, err := svc.Update(ctx, "ana@example.com", &dto.UpdatePreferencesRequest{Theme: dto.ThemeDark})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if *second.TemperatureUnit != dto.TemperatureCelsius || *second.Theme != dto.ThemeDark {
		t.Fatalf("expected unit kept and theme set, got %+v", second)
	}

	// Same input twice yields the same record.
	third, err := svc.Update(ctx, "ana@example.com", &dto.UpdatePreferencesRequest{Theme: "DARK"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !reflect.DeepEqual(second, third) {
		t.Fatalf("expected idempotent update, got %+v then %+v", second, third)
	}

	empty, err := svc.Update(ctx, "ana@example.com", &dto.UpdatePreferencesRequest{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if !reflect.DeepEqual(second, empty) {
		t.Fatalf("empty update should change nothing, got %+v", empty)
	}
}

func TestPreferencesWidgetRoundTrip(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "ana@example.com")
	svc := NewPreferenceService(db, NewUserResolver(db))
	ctx := context.Background()

	want := map[string]bool{
		"hourly": false, "precipitation": true, "uv": true,
		"wind": false, "airQuality": true, "astronomy": false,
	}
	if _, err := svc.Update(ctx, "ana@example.com", &dto.UpdatePreferencesRequest{WidgetPreferences: want}); err != nil {
		t.Fatalf("update: %v", err)
	}

	prefs, err := svc.Get(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prefs.WidgetPreferences == nil {
		t.Fatalf("expected widget preferences to be stored")
	}

	var got map[string]bool
	if err := json.Unmarshal([]byte(*prefs.WidgetPreferences), &got); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got %v want %v", got, want)
	}
}

func TestPreferencesRejectUnknownValues(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "ana@example.com")
	svc := NewPreferenceService(db, NewUserResolver(db))
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.UpdatePreferencesRequest
	}{
		{"unit", dto.UpdatePreferencesRequest{TemperatureUnit: "KELVIN"}},
		{"theme", dto.UpdatePreferencesRequest{Theme: "NEON"}},
		{"widget", dto.UpdatePreferencesRequest{WidgetPreferences: map[string]bool{"pollen": true}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Update(ctx, "ana@example.com", &tc.req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	prefs, _ := svc.Get(ctx, "ana@example.com")
	if prefs.TemperatureUnit != nil || prefs.Theme != nil || prefs.WidgetPreferences != nil {
		t.Fatalf("rejected updates must not persist, got %+v", prefs)
	}
}

func TestPreferencesUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewPreferenceService(db, NewUserResolver(db))

	if _, err := svc.Get(context.Background(), "ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "", &dto.UpdatePreferencesRequest{Theme: "DARK"}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
