package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	mem "wanderplan/pkg/memcache"
)

const (
	DefaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	// Open-Meteo serves daily forecasts up to 16 days ahead.
	forecastHorizonDays = 16
	dateLayout          = "2006-01-02"
)

type Coordinates struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// ForecastDay is one day of forecast for one location.
type ForecastDay struct {
	Date                     string
	MinTemperature           float64
	MaxTemperature           float64
	Condition                string
	Icon                     string
	PrecipitationProbability float64
	Humidity                 float64
	WindSpeed                float64
	Recommendations          []string
}

type Config struct {
	GeocodeURL        string
	ForecastURL       string
	Timeout           time.Duration
	RequestsPerSecond float64
	CacheTTL          time.Duration
}

// OpenMeteoClient geocodes place names and fetches daily forecasts from
// Open-Meteo. Geocoding answers are cached; all outbound calls share one
// rate limiter.
type OpenMeteoClient struct {
	HTTP        *http.Client
	GeocodeURL  string
	ForecastURL string
	Cache       mem.GeocodeStore
	CacheTTL    time.Duration

	limiter *rate.Limiter
	now     func() time.Time
}

func NewOpenMeteoClient(cfg Config, cache mem.GeocodeStore) *OpenMeteoClient {
	if cfg.GeocodeURL == "" {
		cfg.GeocodeURL = DefaultGeocodeURL
	}
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = DefaultForecastURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 7 * 24 * time.Hour
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if cache == nil {
		cache = mem.NewGeocodeCache()
	}
	return &OpenMeteoClient{
		HTTP:        &http.Client{Timeout: cfg.Timeout},
		GeocodeURL:  cfg.GeocodeURL,
		ForecastURL: cfg.ForecastURL,
		Cache:       cache,
		CacheTTL:    cfg.CacheTTL,
		limiter:     rate.NewLimiter(limit, 1),
		now:         time.Now,
	}
}

// Geocode resolves a place name. It returns nil, nil when the place is unknown.
func (c *OpenMeteoClient) Geocode(ctx context.Context, name string) (*Coordinates, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if lat, lng, found, ok := c.Cache.Get(name); ok {
		if !found {
			return nil, nil
		}
		return &Coordinates{Name: name, Latitude: lat, Longitude: lng}, nil
	}

	q := url.Values{}
	q.Set("name", name)
	q.Set("count", "1")
	q.Set("language", "en")
	q.Set("format", "json")

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Country   string  `json:"country"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, c.GeocodeURL, q, &payload); err != nil {
		return nil, fmt.Errorf("open-meteo geocode %q: %w", name, err)
	}

	if len(payload.Results) == 0 {
		c.Cache.Set(name, 0, 0, false, c.CacheTTL)
		return nil, nil
	}
	r := payload.Results[0]
	c.Cache.Set(name, r.Latitude, r.Longitude, true, c.CacheTTL)
	return &Coordinates{Name: r.Name, Latitude: r.Latitude, Longitude: r.Longitude}, nil
}

// Forecast returns daily records for [start, end], clipped to the forecast
// horizon. A window entirely outside the horizon yields no records.
func (c *OpenMeteoClient) Forecast(ctx context.Context, lat, lng float64, start, end time.Time) ([]ForecastDay, error) {
	today := truncateDay(c.now())
	start, end = truncateDay(start), truncateDay(end)
	if end.Before(start) {
		start, end = end, start
	}
	horizon := today.AddDate(0, 0, forecastHorizonDays-1)
	if start.Before(today) {
		start = today
	}
	if end.After(horizon) {
		end = horizon
	}
	if start.After(end) {
		return []ForecastDay{}, nil
	}

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lng))
	q.Set("daily", "temperature_2m_max,temperature_2m_min,weather_code,precipitation_probability_max,relative_humidity_2m_mean,wind_speed_10m_max")
	q.Set("timezone", "auto")
	q.Set("start_date", start.Format(dateLayout))
	q.Set("end_date", end.Format(dateLayout))

	var payload struct {
		Daily struct {
			Time          []string   `json:"time"`
			TempMax       []*float64 `json:"temperature_2m_max"`
			TempMin       []*float64 `json:"temperature_2m_min"`
			WeatherCode   []*float64 `json:"weather_code"`
			Precipitation []*float64 `json:"precipitation_probability_max"`
			Humidity      []*float64 `json:"relative_humidity_2m_mean"`
			WindSpeed     []*float64 `json:"wind_speed_10m_max"`
		} `json:"daily"`
	}
	if err := c.getJSON(ctx, c.ForecastURL, q, &payload); err != nil {
		return nil, fmt.Errorf("open-meteo forecast %.4f,%.4f: %w", lat, lng, err)
	}

	d := payload.Daily
	days := make([]ForecastDay, 0, len(d.Time))
	for i, date := range d.Time {
		hi, okMax := at(d.TempMax, i)
		lo, okMin := at(d.TempMin, i)
		if !okMax || !okMin {
			continue
		}
		code, _ := at(d.WeatherCode, i)
		precip, _ := at(d.Precipitation, i)
		humidity, _ := at(d.Humidity, i)
		wind, _ := at(d.WindSpeed, i)

		condition, icon := DescribeWMOCode(int(code))
		day := ForecastDay{
			Date:                     date,
			MinTemperature:           lo,
			MaxTemperature:           hi,
			Condition:                condition,
			Icon:                     icon,
			PrecipitationProbability: precip,
			Humidity:                 humidity,
			WindSpeed:                wind,
		}
		day.Recommendations = Recommendations(day)
		days = append(days, day)
	}
	return days, nil
}

func (c *OpenMeteoClient) getJSON(ctx context.Context, base string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("bad status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil || math.IsNaN(*values[i]) {
		return 0, false
	}
	return *values[i], true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DescribeWMOCode maps a WMO weather interpretation code to a condition and
// an icon name.
func DescribeWMOCode(code int) (string, string) {
	switch {
	case code == 0:
		return "Clear sky", "01d"
	case code == 1 || code == 2:
		return "Partly cloudy", "02d"
	case code == 3:
		return "Overcast", "04d"
	case code == 45 || code == 48:
		return "Fog", "50d"
	case code >= 51 && code <= 57:
		return "Drizzle", "09d"
	case code >= 61 && code <= 67:
		return "Rain", "10d"
	case code >= 71 && code <= 77:
		return "Snow", "13d"
	case code >= 80 && code <= 82:
		return "Rain showers", "09d"
	case code == 85 || code == 86:
		return "Snow showers", "13d"
	case code >= 95:
		return "Thunderstorm", "11d"
	default:
		return "Unknown", "03d"
	}
}

// Recommendations derives packing and planning advice for a single day.
func Recommendations(d ForecastDay) []string {
	var out []string
	if d.PrecipitationProbability >= 60 {
		out = append(out, "Carry an umbrella or rain jacket")
	}
	switch {
	case d.MaxTemperature >= 32:
		out = append(out, "Stay hydrated and plan outdoor sightseeing for early morning or evening")
	case d.MaxTemperature >= 28:
		out = append(out, "Pack light, breathable clothing and sunscreen")
	}
	switch {
	case d.MinTemperature <= 5:
		out = append(out, "Pack warm layers, a jacket and gloves")
	case d.MinTemperature <= 12:
		out = append(out, "Bring a light jacket for cool mornings and evenings")
	}
	if d.WindSpeed >= 40 {
		out = append(out, "Expect strong winds; check ferry and boat schedules")
	}
	if strings.HasPrefix(d.Condition, "Snow") {
		out = append(out, "Wear waterproof boots with good grip")
	}
	if d.Condition == "Thunderstorm" {
		out = append(out, "Avoid exposed viewpoints and beaches during thunderstorms")
	}
	if d.Humidity >= 80 {
		out = append(out, "High humidity expected; choose moisture-wicking fabrics")
	}
	if d.Condition == "Clear sky" && d.MaxTemperature >= 18 && d.MaxTemperature < 32 {
		out = append(out, "Great weather for outdoor activities")
	}
	return out
}
