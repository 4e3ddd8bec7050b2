package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"wanderplan/internal/models/request_models"
	"wanderplan/internal/models/response_models"
	"wanderplan/pkg/weather"
)

type fakeWeatherProvider struct {
	mu          sync.Mutex
	coords      map[string]*weather.Coordinates
	forecasts   map[string][]weather.ForecastDay
	geocodeErr  map[string]error
	forecastErr map[string]error
	geocoded    []string
}

func (f *fakeWeatherProvider) Geocode(_ context.Context, name string) (*weather.Coordinates, error) {
	f.mu.Lock()
	f.geocoded = append(f.geocoded, name)
	f.mu.Unlock()
	if err := f.geocodeErr[name]; err != nil {
		return nil, err
	}
	return f.coords[name], nil
}

func (f *fakeWeatherProvider) Forecast(_ context.Context, lat, lng float64, _, _ time.Time) ([]weather.ForecastDay, error) {
	for name, c := range f.coords {
		if c != nil && c.Latitude == lat && c.Longitude == lng {
			if err := f.forecastErr[name]; err != nil {
				return nil, err
			}
			return f.forecasts[name], nil
		}
	}
	return nil, nil
}

type fakeEstimator struct {
	result *response_models.WeatherAggregate
	err    error
	calls  []string
	mu     sync.Mutex
}

func (f *fakeEstimator) Estimate(_ context.Context, location string, _, _ time.Time) (*response_models.WeatherAggregate, error) {
	f.mu.Lock()
	f.calls = append(f.calls, location)
	f.mu.Unlock()
	return f.result, f.err
}

func fiveDays() []weather.ForecastDay {
	return []weather.ForecastDay{
		{MinTemperature: 24, MaxTemperature: 32, Condition: "Clear sky", Icon: "01d", PrecipitationProbability: 10, Humidity: 60, WindSpeed: 10, Recommendations: []string{"Pack sunscreen"}},
		{MinTemperature: 23, MaxTemperature: 31, Condition: "Rain", Icon: "10d", PrecipitationProbability: 80, Humidity: 85, WindSpeed: 20, Recommendations: []string{"Carry an umbrella", "pack sunscreen"}},
		{MinTemperature: 25, MaxTemperature: 33, Condition: "Clear sky", Icon: "01n", PrecipitationProbability: 0, Humidity: 55, WindSpeed: 12, Recommendations: []string{"Stay hydrated"}},
		{MinTemperature: 22, MaxTemperature: 30, Condition: "Rain", Icon: "09d", PrecipitationProbability: 70, Humidity: 90, WindSpeed: 15, Recommendations: []string{"Avoid beaches", "Bring sandals"}},
		{MinTemperature: 24, MaxTemperature: 29, Condition: "Partly cloudy", Icon: "02d", PrecipitationProbability: 20, Humidity: 70, WindSpeed: 8, Recommendations: []string{"Great for walks", "Light layers"}},
	}
}

func weatherRequest() *request_models.ItineraryRequest {
	return &request_models.ItineraryRequest{
		Origin:       "Mumbai",
		Destinations: []string{"Goa"},
		StartDate:    "2026-03-02",
		EndDate:      "2026-03-06",
		Party:        request_models.PartyComposition{Adults: 2},
	}
}

func TestAggregateWithOneLocationMissingForecast(t *testing.T) {
	provider := &fakeWeatherProvider{
		coords: map[string]*weather.Coordinates{
			"Goa":    {Latitude: 15.3, Longitude: 74.1},
			"Mumbai": {Latitude: 19.1, Longitude: 72.9},
		},
		forecasts: map[string][]weather.ForecastDay{"Goa": fiveDays()},
	}

	for _, tc := range []struct {
		name      string
		estimator *fakeEstimator
		source    response_models.WeatherSource
	}{
		{"seasonal fallback", &fakeEstimator{result: &response_models.WeatherAggregate{MinTemperature: 20, MaxTemperature: 30}}, response_models.WeatherSourceSeasonal},
		{"fallback fails", &fakeEstimator{err: errors.New("model down")}, response_models.WeatherSourceUnavailable},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewWeatherService(provider, tc.estimator)
			got := svc.Aggregate(context.Background(), nil, weatherRequest())

			if len(got) != 2 {
				t.Fatalf("expected 2 summaries, got %d", len(got))
			}
			if got[0].Location != "Goa" || got[0].Source != response_models.WeatherSourceForecast || got[0].Summary == nil {
				t.Fatalf("first location should have a forecast summary: %+v", got[0])
			}
			if got[0].Summary.ForecastDays != 5 {
				t.Fatalf("expected 5 forecast days, got %d", got[0].Summary.ForecastDays)
			}
			if got[1].Location != "Mumbai" || got[1].Source != tc.source {
				t.Fatalf("second location: %+v", got[1])
			}
			if (tc.source == response_models.WeatherSourceUnavailable) != (got[1].Summary == nil) {
				t.Fatalf("summary body mismatch for %s: %+v", tc.source, got[1].Summary)
			}
			if got[0].StartDate != "2026-03-02" || got[0].EndDate != "2026-03-06" {
				t.Fatalf("unexpected window %s..%s", got[0].StartDate, got[0].EndDate)
			}
		})
	}
}

func TestAggregateIsolatesProviderErrors(t *testing.T) {
	provider := &fakeWeatherProvider{
		coords: map[string]*weather.Coordinates{
			"Goa": {Latitude: 15.3, Longitude: 74.1},
		},
		forecasts:  map[string][]weather.ForecastDay{"Goa": fiveDays()},
		geocodeErr: map[string]error{"Mumbai": errors.New("timeout")},
	}
	svc := NewWeatherService(provider, nil)

	got := svc.Aggregate(context.Background(), nil, weatherRequest())
	if len(got) != 2 || got[0].Summary == nil {
		t.Fatalf("Goa should still be summarized, got %+v", got)
	}
	if got[1].Summary != nil || got[1].Source != response_models.WeatherSourceUnavailable {
		t.Fatalf("failed location should carry a null body, got %+v", got[1])
	}
}

func TestAggregateReturnsNilWhenDisabledOrEmpty(t *testing.T) {
	provider := &fakeWeatherProvider{}
	svc := NewWeatherService(provider, &fakeEstimator{err: errors.New("no")})

	req := weatherRequest()
	req.Preferences.IncludeWeather = boolPtr(false)
	if got := svc.Aggregate(context.Background(), nil, req); got != nil {
		t.Fatalf("disabled weather should be nil, got %+v", got)
	}
	if len(provider.geocoded) != 0 {
		t.Fatal("disabled weather must not call the provider")
	}

	req = weatherRequest()
	if got := svc.Aggregate(context.Background(), nil, req); got != nil {
		t.Fatalf("all-failed weather should be nil, got %+v", got)
	}
}

func TestAggregateForecast(t *testing.T) {
	agg := AggregateForecast(fiveDays())
	if agg.MinTemperature != 22 || agg.MaxTemperature != 33 {
		t.Fatalf("extremes = %v..%v", agg.MinTemperature, agg.MaxTemperature)
	}
	if agg.AvgMinTemperature != 23.6 || agg.AvgMaxTemperature != 31 {
		t.Fatalf("averages = %v / %v", agg.AvgMinTemperature, agg.AvgMaxTemperature)
	}
	if agg.AvgPrecipitationProbability != 36 {
		t.Fatalf("avg precipitation = %v", agg.AvgPrecipitationProbability)
	}
	// Clear sky and Rain both appear twice; Clear sky came first
	if agg.DominantCondition != "Clear sky" || agg.Icon != "01d" {
		t.Fatalf("dominant = %q icon %q", agg.DominantCondition, agg.Icon)
	}
	if len(agg.Recommendations) != 5 {
		t.Fatalf("recommendations should be capped at 5, got %v", agg.Recommendations)
	}
	for i, r := range agg.Recommendations {
		for _, other := range agg.Recommendations[i+1:] {
			if strings.EqualFold(r, other) {
				t.Fatalf("duplicate recommendation %q", r)
			}
		}
	}
	if AggregateForecast(nil) != nil {
		t.Fatal("no days should aggregate to nil")
	}
}

func TestTripWindow(t *testing.T) {
	now := time.Date(2026, 1, 10, 15, 0, 0, 0, time.UTC)

	req := weatherRequest()
	s, e := TripWindow(req, now)
	if s.Format("2006-01-02") != "2026-03-02" || e.Format("2006-01-02") != "2026-03-06" {
		t.Fatalf("explicit window = %s..%s", s, e)
	}

	req.EndDate = ""
	req.DurationDays = 3
	s, e = TripWindow(req, now)
	if e.Format("2006-01-02") != "2026-03-04" {
		t.Fatalf("start+duration window ends %s", e)
	}

	req.StartDate = ""
	s, e = TripWindow(req, now)
	if s.Format("2006-01-02") != "2026-01-10" || e.Format("2006-01-02") != "2026-01-16" {
		t.Fatalf("default window = %s..%s", s, e)
	}
}

func TestWeatherCandidatesMinesRecurringCities(t *testing.T) {
	req := &request_models.ItineraryRequest{Origin: "Goa", Destinations: []string{"Goa, India"}}
	it := &response_models.NormalizedItinerary{
		DayPlans: []response_models.DayPlan{
			{Morning: []response_models.Activity{{Location: "Fort Aguada, Candolim, Goa"}, {Location: "Panjim"}}},
			{Afternoon: []response_models.Activity{{Location: "Calangute Beach, Calangute, Goa"}}},
			{Evening: []response_models.Activity{{Location: "Casino Pride, Candolim, Goa"}, {Location: "Calangute"}}},
		},
	}

	got := WeatherCandidates(it, req)
	want := []string{"Goa", "Candolim", "Calangute"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("candidates = %v, want %v", got, want)
	}
}

func TestWeatherCandidatesSkipsMiningWhenEnough(t *testing.T) {
	req := &request_models.ItineraryRequest{Origin: "Delhi", Destinations: []string{"Jaipur", "Agra"}}
	it := &response_models.NormalizedItinerary{
		DayPlans: []response_models.DayPlan{
			{Morning: []response_models.Activity{{Location: "Amber, Jaipur, India"}, {Location: "Amber, Jaipur, India"}}},
		},
	}
	got := WeatherCandidates(it, req)
	if strings.Join(got, "|") != "Jaipur|Agra|Delhi" {
		t.Fatalf("candidates = %v", got)
	}
}

func TestCleanPlaceNameKeepsCityNames(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Fort Worth", "Fort Worth"},
		{"Virginia Beach", "Virginia Beach"},
		{"Long Beach, California", "Long Beach"},
		{"Park City", "Park City"},
		{"Fort Worth, TX 76102", "Fort Worth"},
		{"Goa (India)", "Goa"},
		{" , Goa", "Goa"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanPlaceName(tt.in); got != tt.want {
			t.Errorf("CleanPlaceName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWeatherCandidatesKeepUserPlaceNames(t *testing.T) {
	req := &request_models.ItineraryRequest{Origin: "Fort Worth", Destinations: []string{"Virginia Beach", "Park City, Utah"}}
	got := WeatherCandidates(nil, req)
	if strings.Join(got, "|") != "Virginia Beach|Park City|Fort Worth" {
		t.Fatalf("candidates = %v", got)
	}
}
