package weather

// TemperatureUnit mirrors the stored preference values.
type TemperatureUnit string

const (
	Fahrenheit TemperatureUnit = "FAHRENHEIT"
	Celsius    TemperatureUnit = "CELSIUS"
)

func (u TemperatureUnit) apiValue() string {
	if u == Celsius {
		return "celsius"
	}
	return "fahrenheit"
}

// SpeedUnit is the wind speed unit paired with the temperature unit.
func (u TemperatureUnit) SpeedUnit() string {
	if u == Celsius {
		return "kmh"
	}
	return "mph"
}

func (u TemperatureUnit) Symbol() string {
	if u == Celsius {
		return "°C"
	}
	return "°F"
}

type Widget string

const (
	WidgetHourly        Widget = "hourly"
	WidgetPrecipitation Widget = "precipitation"
	WidgetUV            Widget = "uv"
	WidgetWind          Widget = "wind"
	WidgetAirQuality    Widget = "airQuality"
	WidgetAstronomy     Widget = "astronomy"
)

var AllWidgets = []Widget{
	WidgetHourly, WidgetPrecipitation, WidgetUV, WidgetWind, WidgetAirQuality, WidgetAstronomy,
}

// WidgetSet holds the widgets to compute. A nil set means all of them.
type WidgetSet map[Widget]bool

func (s WidgetSet) Enabled(w Widget) bool {
	if s == nil {
		return true
	}
	return s[w]
}

// --- Upstream schemas ---

type GeocodeResult struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1,omitempty"`
}

type geocodePayload struct {
	Results []GeocodeResult `json:"results"`
}

type forecastPayload struct {
	Timezone         string `json:"timezone"`
	UTCOffsetSeconds int    `json:"utc_offset_seconds"`
	CurrentWeather   *struct {
		Time        string  `json:"time"`
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
	Current *struct {
		WindSpeed     *float64 `json:"wind_speed_10m"`
		WindDirection *float64 `json:"wind_direction_10m"`
		WindGusts     *float64 `json:"wind_gusts_10m"`
	} `json:"current"`
	Hourly *struct {
		Time                     []string  `json:"time"`
		Temperature              []float64 `json:"temperature_2m"`
		PrecipitationProbability []int     `json:"precipitation_probability"`
		WeatherCode              []int     `json:"weathercode"`
	} `json:"hourly"`
	Daily *struct {
		Time           []string  `json:"time"`
		WeatherCode    []int     `json:"weathercode"`
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
		UVIndexMax     []float64 `json:"uv_index_max"`
		Sunrise        []string  `json:"sunrise"`
		Sunset         []string  `json:"sunset"`
	} `json:"daily"`
}

type airQualityPayload struct {
	Current *struct {
		USAQI *float64 `json:"us_aqi"`
	} `json:"current"`
}

type radarFrame struct {
	Time int64  `json:"time"`
	Path string `json:"path"`
}

type weatherMapsPayload struct {
	Host  string `json:"host"`
	Radar struct {
		Past []radarFrame `json:"past"`
	} `json:"radar"`
	Satellite struct {
		Infrared []radarFrame `json:"infrared"`
	} `json:"satellite"`
}

// --- Aggregated views ---

type Dashboard struct {
	Latitude        float64            `json:"latitude"`
	Longitude       float64            `json:"longitude"`
	Timezone        string             `json:"timezone"`
	TemperatureUnit TemperatureUnit    `json:"temperatureUnit"`
	UnitSymbol      string             `json:"unitSymbol"`
	SpeedUnit       string             `json:"speedUnit"`
	Current         *CurrentConditions `json:"current,omitempty"`
	Daily           []DailyForecast    `json:"daily"`
	Widgets         Widgets            `json:"widgets"`
}

type CurrentConditions struct {
	Time        string    `json:"time"`
	Temperature float64   `json:"temperature"`
	WeatherCode int       `json:"weatherCode"`
	Condition   Condition `json:"condition"`
}

type DailyForecast struct {
	Date        string    `json:"date"`
	WeatherCode int       `json:"weatherCode"`
	Condition   Condition `json:"condition"`
	Max         float64   `json:"max"`
	Min         float64   `json:"min"`
}

type Widgets struct {
	Hourly        []HourlyPoint        `json:"hourly,omitempty"`
	Precipitation []PrecipitationPoint `json:"precipitation,omitempty"`
	UV            *UVIndex             `json:"uv,omitempty"`
	Wind          *Wind                `json:"wind,omitempty"`
	AirQuality    *AirQuality          `json:"airQuality,omitempty"`
	Astronomy     *Astronomy           `json:"astronomy,omitempty"`
}

type HourlyPoint struct {
	Time        string    `json:"time"`
	Temperature float64   `json:"temperature"`
	WeatherCode int       `json:"weatherCode"`
	Condition   Condition `json:"condition"`
}

type PrecipitationPoint struct {
	Time        string `json:"time"`
	Probability int    `json:"probability"`
}

type UVIndex struct {
	Value  float64 `json:"value"`
	Level  string  `json:"level"`
	Advice string  `json:"advice"`
}

type Wind struct {
	Speed     float64 `json:"speed"`
	Direction float64 `json:"direction"`
	Compass   string  `json:"compass"`
	Gusts     float64 `json:"gusts"`
	Unit      string  `json:"unit"`
}

type AirQuality struct {
	AQI         int    `json:"aqi"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type Astronomy struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

// Radar carries the latest RainViewer frame paths and the tile URL templates
// built from them.
type Radar struct {
	Host             string `json:"host"`
	RadarPath        string `json:"radarPath,omitempty"`
	SatellitePath    string `json:"satellitePath,omitempty"`
	RadarTileURL     string `json:"radarTileUrl,omitempty"`
	SatelliteTileURL string `json:"satelliteTileUrl,omitempty"`
}
