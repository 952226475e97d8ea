package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/weather-dashboard/internal/weather"
)

// APIError is a non-2xx answer from the dashboard API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// Client calls the dashboard HTTP API with a bearer access token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

func (c *Client) Preferences(ctx context.Context) (*dto.PreferencesResponse, error) {
	var out dto.PreferencesResponse
	if err := c.do(ctx, http.MethodGet, "/api/preferences", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePreferences(ctx context.Context, req *dto.UpdatePreferencesRequest) (*dto.PreferencesResponse, error) {
	var out dto.PreferencesResponse
	if err := c.do(ctx, http.MethodPut, "/api/preferences", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Locations(ctx context.Context) ([]dto.LocationResponse, error) {
	var out []dto.LocationResponse
	if err := c.do(ctx, http.MethodGet, "/api/locations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateLocation(ctx context.Context, req *dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	var out dto.LocationResponse
	if err := c.do(ctx, http.MethodPost, "/api/locations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateLocation(ctx context.Context, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	var out dto.LocationResponse
	if err := c.do(ctx, http.MethodPut, "/api/locations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteLocation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/locations?id="+url.QueryEscape(id), nil, nil)
}

func (c *Client) Weather(ctx context.Context, lat, lon float64, unit weather.TemperatureUnit) (*weather.Dashboard, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	if unit != "" {
		q.Set("unit", string(unit))
	}

	var out weather.Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/weather?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Geocode(ctx context.Context, name string) ([]weather.GeocodeResult, error) {
	var out struct {
		Results []weather.GeocodeResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/geocode?name="+url.QueryEscape(name), nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) Radar(ctx context.Context) (*weather.Radar, error) {
	var out weather.Radar
	if err := c.do(ctx, http.MethodGet, "/api/radar", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e dto.ErrorResponse
		if json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e) == nil {
			apiErr.Message = e.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
