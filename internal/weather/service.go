package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	forecastDays      = 10
	hourlyWindow      = 24
	precipitationSpan = 6
	geocodeResults    = 5

	defaultRadarHost = "https://tilecache.rainviewer.com"
)

var ErrEmptyQuery = errors.New("search query is required")

type Config struct {
	ForecastURL   string
	AirQualityURL string
	GeocodingURL  string
	RainViewerURL string
	Timeout       time.Duration
}

// Service reads the Open-Meteo and RainViewer APIs. It keeps no state between
// calls besides the circuit breakers; nothing is cached.
type Service struct {
	cfg        Config
	forecast   *upstream
	airQuality *upstream
	geocoding  *upstream
	radar      *upstream
	now        func() time.Time
}

func NewService(cfg Config, client *http.Client) *Service {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Service{
		cfg:        cfg,
		forecast:   newUpstream("open-meteo-forecast", client),
		airQuality: newUpstream("open-meteo-air-quality", client),
		geocoding:  newUpstream("open-meteo-geocoding", client),
		radar:      newUpstream("rainviewer", client),
		now:        time.Now,
	}
}

type DashboardQuery struct {
	Latitude  float64
	Longitude float64
	Unit      TemperatureUnit
	Widgets   WidgetSet
}

// Dashboard fetches the forecast and, when the air quality widget is enabled,
// the current AQI concurrently. Either failure fails the whole call.
func (s *Service) Dashboard(ctx context.Context, q DashboardQuery) (*Dashboard, error) {
	if q.Unit != Celsius {
		q.Unit = Fahrenheit
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		fc  forecastPayload
		aqi airQualityPayload
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.forecast.getJSON(gctx, s.forecastURL(q), &fc)
	})
	if q.Widgets.Enabled(WidgetAirQuality) {
		g.Go(func() error {
			return s.airQuality.getJSON(gctx, s.airQualityURL(q), &aqi)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.buildDashboard(q, &fc, &aqi), nil
}

// Geocode searches place names for the add-location flow.
func (s *Service) Geocode(ctx context.Context, name string) ([]GeocodeResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyQuery
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	values := url.Values{}
	values.Set("name", name)
	values.Set("count", strconv.Itoa(geocodeResults))
	values.Set("language", "en")
	values.Set("format", "json")

	var payload geocodePayload
	if err := s.geocoding.getJSON(ctx, s.cfg.GeocodingURL+"?"+values.Encode(), &payload); err != nil {
		return nil, err
	}
	if payload.Results == nil {
		return []GeocodeResult{}, nil
	}
	return payload.Results, nil
}

// Radar returns the most recent past radar and infrared satellite frames.
func (s *Service) Radar(ctx context.Context) (*Radar, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var payload weatherMapsPayload
	if err := s.radar.getJSON(ctx, s.cfg.RainViewerURL, &payload); err != nil {
		return nil, err
	}

	r := &Radar{Host: payload.Host}
	if r.Host == "" {
		r.Host = defaultRadarHost
	}
	if n := len(payload.Radar.Past); n > 0 {
		r.RadarPath = payload.Radar.Past[n-1].Path
		r.RadarTileURL = fmt.Sprintf("%s%s/256/{z}/{x}/{y}/2/1_1.png", r.Host, r.RadarPath)
	}
	if n := len(payload.Satellite.Infrared); n > 0 {
		r.SatellitePath = payload.Satellite.Infrared[n-1].Path
		r.SatelliteTileURL = fmt.Sprintf("%s%s/256/{z}/{x}/{y}/0/1_1.png", r.Host, r.SatellitePath)
	}
	return r, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}

func (s *Service) forecastURL(q DashboardQuery) string {
	values := url.Values{}
	values.Set("latitude", formatCoord(q.Latitude))
	values.Set("longitude", formatCoord(q.Longitude))
	values.Set("current_weather", "true")
	values.Set("current", "wind_speed_10m,wind_direction_10m,wind_gusts_10m")
	values.Set("hourly", "temperature_2m,precipitation_probability,weathercode")
	values.Set("daily", "weathercode,temperature_2m_max,temperature_2m_min,uv_index_max,sunrise,sunset")
	values.Set("temperature_unit", q.Unit.apiValue())
	values.Set("wind_speed_unit", q.Unit.SpeedUnit())
	values.Set("timezone", "auto")
	values.Set("forecast_days", strconv.Itoa(forecastDays))
	return s.cfg.ForecastURL + "?" + values.Encode()
}

func (s *Service) airQualityURL(q DashboardQuery) string {
	values := url.Values{}
	values.Set("latitude", formatCoord(q.Latitude))
	values.Set("longitude", formatCoord(q.Longitude))
	values.Set("current", "us_aqi")
	values.Set("timezone", "auto")
	return s.cfg.AirQualityURL + "?" + values.Encode()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *Service) buildDashboard(q DashboardQuery, fc *forecastPayload, aqi *airQualityPayload) *Dashboard {
	d := &Dashboard{
		Latitude:        q.Latitude,
		Longitude:       q.Longitude,
		Timezone:        fc.Timezone,
		TemperatureUnit: q.Unit,
		UnitSymbol:      q.Unit.Symbol(),
		SpeedUnit:       q.Unit.SpeedUnit(),
		Daily:           []DailyForecast{},
	}

	if cw := fc.CurrentWeather; cw != nil {
		d.Current = &CurrentConditions{
			Time:        cw.Time,
			Temperature: cw.Temperature,
			WeatherCode: cw.WeatherCode,
			Condition:   conditionFor(cw.WeatherCode),
		}
	}

	if daily := fc.Daily; daily != nil {
		for i, date := range daily.Time {
			day := DailyForecast{Date: date}
			if i < len(daily.WeatherCode) {
				day.WeatherCode = daily.WeatherCode[i]
				day.Condition = conditionFor(day.WeatherCode)
			}
			if i < len(daily.TemperatureMax) {
				day.Max = daily.TemperatureMax[i]
			}
			if i < len(daily.TemperatureMin) {
				day.Min = daily.TemperatureMin[i]
			}
			d.Daily = append(d.Daily, day)
		}

		if q.Widgets.Enabled(WidgetUV) && len(daily.UVIndexMax) > 0 {
			d.Widgets.UV = uvIndexFor(daily.UVIndexMax[0])
		}
		if q.Widgets.Enabled(WidgetAstronomy) && len(daily.Sunrise) > 0 && len(daily.Sunset) > 0 {
			d.Widgets.Astronomy = &Astronomy{Sunrise: daily.Sunrise[0], Sunset: daily.Sunset[0]}
		}
	}

	if hourly := fc.Hourly; hourly != nil {
		start := currentHourIndex(hourly.Time, s.now(), fc.UTCOffsetSeconds)

		if q.Widgets.Enabled(WidgetHourly) {
			from := start
			if from < 0 {
				from = 0
			}
			for i := from; i < len(hourly.Time) && i < from+hourlyWindow; i++ {
				p := HourlyPoint{Time: hourly.Time[i]}
				if i < len(hourly.Temperature) {
					p.Temperature = hourly.Temperature[i]
				}
				if i < len(hourly.WeatherCode) {
					p.WeatherCode = hourly.WeatherCode[i]
					p.Condition = conditionFor(p.WeatherCode)
				}
				d.Widgets.Hourly = append(d.Widgets.Hourly, p)
			}
		}

		if q.Widgets.Enabled(WidgetPrecipitation) && start >= 0 {
			for i := start; i < len(hourly.Time) && i < start+precipitationSpan; i++ {
				p := PrecipitationPoint{Time: hourly.Time[i]}
				if i < len(hourly.PrecipitationProbability) {
					p.Probability = hourly.PrecipitationProbability[i]
				}
				d.Widgets.Precipitation = append(d.Widgets.Precipitation, p)
			}
		}
	}

	if cur := fc.Current; q.Widgets.Enabled(WidgetWind) && cur != nil && cur.WindSpeed != nil && cur.WindDirection != nil {
		w := &Wind{
			Speed:     *cur.WindSpeed,
			Direction: *cur.WindDirection,
			Compass:   compassFor(*cur.WindDirection),
			Unit:      "km/h",
		}
		if q.Unit != Celsius {
			w.Unit = "mph"
		}
		if cur.WindGusts != nil {
			w.Gusts = *cur.WindGusts
		}
		d.Widgets.Wind = w
	}

	if q.Widgets.Enabled(WidgetAirQuality) && aqi.Current != nil && aqi.Current.USAQI != nil {
		d.Widgets.AirQuality = airQualityFor(int(math.Round(*aqi.Current.USAQI)))
	}

	return d
}
