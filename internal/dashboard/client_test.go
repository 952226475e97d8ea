package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/dto"
)

func TestClientSendsTokenAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
			return
		}

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/locations":
			json.NewEncoder(w).Encode([]dto.LocationResponse{{Name: "Paris", IsDefault: true}})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/locations":
			if r.URL.Query().Get("id") == "missing" {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(dto.ErrorResponse{Error: true, Message: "Location not found"})
				return
			}
			json.NewEncoder(w).Encode(dto.MessageResponse{Message: "Location deleted"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok", nil)
	ctx := context.Background()

	locs, err := c.Locations(ctx)
	if err != nil {
		t.Fatalf("locations: %v", err)
	}
	if len(locs) != 1 || locs[0].Name != "Paris" {
		t.Fatalf("unexpected locations %+v", locs)
	}

	if err := c.DeleteLocation(ctx, "some-id"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	err = c.DeleteLocation(ctx, "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound || apiErr.Message != "Location not found" {
		t.Fatalf("expected a 404 APIError, got %v", err)
	}

	_, err = NewClient(srv.URL, "wrong", nil).Locations(ctx)
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected a 401 APIError, got %v", err)
	}
}
