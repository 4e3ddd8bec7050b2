package services

import (
	"context"
	"log"
	"math"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"wanderplan/internal/models/request_models"
	"wanderplan/internal/models/response_models"
	"wanderplan/pkg/utils"
	"wanderplan/pkg/weather"
)

const (
	maxWeatherRecommendations = 5
	minWeatherCandidates      = 3
	defaultWeatherWindowDays  = 7
	weatherFanOutLimit        = 5
)

// WeatherProvider is the geocode + forecast collaborator. Geocode returns
// nil, nil for unknown places.
type WeatherProvider interface {
	Geocode(ctx context.Context, name string) (*weather.Coordinates, error)
	Forecast(ctx context.Context, lat, lng float64, start, end time.Time) ([]weather.ForecastDay, error)
}

// SeasonalEstimator produces a climate summary when no live forecast exists
// for the trip window.
type SeasonalEstimator interface {
	Estimate(ctx context.Context, location string, start, end time.Time) (*response_models.WeatherAggregate, error)
}

type WeatherServiceInterface interface {
	// Aggregate returns one summary per candidate location, or nil when weather
	// is disabled, there is nothing to look up, or nothing could be obtained.
	Aggregate(ctx context.Context, it *response_models.NormalizedItinerary, req *request_models.ItineraryRequest) []response_models.WeatherSummary
}

type WeatherService struct {
	provider  WeatherProvider
	estimator SeasonalEstimator
	now       func() time.Time
}

func NewWeatherService(provider WeatherProvider, estimator SeasonalEstimator) WeatherServiceInterface {
	return &WeatherService{
		provider:  provider,
		estimator: estimator,
		now:       time.Now,
	}
}

func (w *WeatherService) Aggregate(ctx context.Context, it *response_models.NormalizedItinerary, req *request_models.ItineraryRequest) []response_models.WeatherSummary {
	if req == nil || !req.WantsWeather() {
		return nil
	}
	locations := WeatherCandidates(it, req)
	if len(locations) == 0 {
		return nil
	}
	start, end := TripWindow(req, w.now())

	results := make([]response_models.WeatherSummary, len(locations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(weatherFanOutLimit)
	for i, loc := range locations {
		g.Go(func() error {
			results[i] = w.summarize(gctx, loc, start, end)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.Summary != nil {
			return results
		}
	}
	log.Printf("weather: no data for any of %v", locations)
	return nil
}

// summarize never fails: problems degrade to a seasonal estimate or a null body.
func (w *WeatherService) summarize(ctx context.Context, location string, start, end time.Time) response_models.WeatherSummary {
	summary := response_models.WeatherSummary{
		Location:  location,
		StartDate: start.Format(request_models.DateLayout),
		EndDate:   end.Format(request_models.DateLayout),
		Source:    response_models.WeatherSourceUnavailable,
	}

	var days []weather.ForecastDay
	if w.provider != nil {
		coords, err := w.provider.Geocode(ctx, location)
		switch {
		case err != nil:
			log.Printf("weather: geocode %q failed: %v", location, err)
		case coords == nil:
			log.Printf("weather: %q could not be geocoded", location)
		default:
			summary.Coordinates = &response_models.Coordinates{Latitude: coords.Latitude, Longitude: coords.Longitude}
			days, err = w.provider.Forecast(ctx, coords.Latitude, coords.Longitude, start, end)
			if err != nil {
				log.Printf("weather: forecast for %q failed: %v", location, err)
			}
		}
	}

	if agg := AggregateForecast(days); agg != nil {
		summary.Source = response_models.WeatherSourceForecast
		summary.Summary = agg
		return summary
	}

	if w.estimator == nil {
		return summary
	}
	estimate, err := w.estimator.Estimate(ctx, location, start, end)
	if err != nil || estimate == nil {
		log.Printf("weather: seasonal estimate for %q failed: %v", location, err)
		return summary
	}
	summary.Source = response_models.WeatherSourceSeasonal
	summary.Summary = estimate
	return summary
}

// AggregateForecast folds daily records into one summary. It returns nil
// for an empty input.
func AggregateForecast(days []weather.ForecastDay) *response_models.WeatherAggregate {
	if len(days) == 0 {
		return nil
	}

	agg := &response_models.WeatherAggregate{
		MinTemperature:  days[0].MinTemperature,
		MaxTemperature:  days[0].MaxTemperature,
		Recommendations: []string{},
		ForecastDays:    len(days),
	}
	var sumMin, sumMax, sumPrecip, sumHumidity, sumWind float64
	counts := map[string]int{}
	var order []string
	seen := map[string]bool{}

	for _, d := range days {
		agg.MinTemperature = math.Min(agg.MinTemperature, d.MinTemperature)
		agg.MaxTemperature = math.Max(agg.MaxTemperature, d.MaxTemperature)
		sumMin += d.MinTemperature
		sumMax += d.MaxTemperature
		sumPrecip += d.PrecipitationProbability
		sumHumidity += d.Humidity
		sumWind += d.WindSpeed

		if d.Condition != "" {
			if counts[d.Condition] == 0 {
				order = append(order, d.Condition)
			}
			counts[d.Condition]++
		}
		for _, r := range d.Recommendations {
			key := strings.ToLower(strings.TrimSpace(r))
			if key == "" || seen[key] || len(agg.Recommendations) >= maxWeatherRecommendations {
				continue
			}
			seen[key] = true
			agg.Recommendations = append(agg.Recommendations, strings.TrimSpace(r))
		}
	}

	// ties go to the condition seen first
	best := 0
	for _, c := range order {
		if counts[c] > best {
			best = counts[c]
			agg.DominantCondition = c
		}
	}
	for _, d := range days {
		if d.Condition == agg.DominantCondition && d.Icon != "" {
			agg.Icon = d.Icon
			break
		}
	}

	n := float64(len(days))
	agg.MinTemperature = round1(agg.MinTemperature)
	agg.MaxTemperature = round1(agg.MaxTemperature)
	agg.AvgMinTemperature = round1(sumMin / n)
	agg.AvgMaxTemperature = round1(sumMax / n)
	agg.AvgTemperature = round1((sumMin + sumMax) / (2 * n))
	agg.AvgPrecipitationProbability = round1(sumPrecip / n)
	agg.AvgHumidity = round1(sumHumidity / n)
	agg.AvgWindSpeed = round1(sumWind / n)
	return agg
}

// TripWindow is the date range to fetch weather for: the explicit dates,
// else start plus duration, else a week starting today.
func TripWindow(req *request_models.ItineraryRequest, now time.Time) (time.Time, time.Time) {
	start, hasStart := req.Start()
	end, hasEnd := req.End()
	switch {
	case hasStart && hasEnd:
		return start, end
	case hasStart && req.Duration() > 0:
		return start, start.AddDate(0, 0, req.Duration()-1)
	}
	today := utils.StartOfDayUTC(now)
	return today, today.AddDate(0, 0, defaultWeatherWindowDays-1)
}

// WeatherCandidates lists the places to look weather up for: destinations,
// then the origin, then (while there are fewer than three) cities that
// recur across activity locations.
func WeatherCandidates(it *response_models.NormalizedItinerary, req *request_models.ItineraryRequest) []string {
	var out []string
	seen := map[string]bool{}
	add := func(name string) {
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, name)
	}

	for _, d := range req.Destinations {
		add(CleanPlaceName(d))
	}
	add(CleanPlaceName(req.Origin))

	if len(out) >= minWeatherCandidates || it == nil {
		return out
	}

	counts := map[string]int{}
	var order []string
	for _, day := range it.DayPlans {
		for _, slot := range [][]response_models.Activity{day.Morning, day.Afternoon, day.Evening} {
			for _, a := range slot {
				city := CleanLocation(a.Location)
				if city == "" {
					continue
				}
				key := strings.ToLower(city)
				if counts[key] == 0 {
					order = append(order, city)
				}
				counts[key]++
			}
		}
	}
	for _, city := range order {
		if len(out) >= minWeatherCandidates {
			break
		}
		if counts[strings.ToLower(city)] > 1 {
			add(city)
		}
	}
	return out
}

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	postalCode    = regexp.MustCompile(`\b\d{5,6}(?:-\d{4})?\b|\b[A-Z]{1,2}\d[A-Z\d]?\s*\d[A-Z]{2}\b`)
	airportCode   = regexp.MustCompile(`\b[A-Z]{3}\b`)
	streetLike    = regexp.MustCompile(`(?i)^\d+\w*\s|\b(road|rd|street|avenue|ave|lane|ln|marg|boulevard|blvd|highway|hwy)\b\.?`)
	transitLike   = regexp.MustCompile(`(?i)\b(airport|terminal|railway|station|bus stand|pier|jetty)\b`)
	landmarkWords = regexp.MustCompile(`(?i)\b(beach|fort|temple|church|mosque|market|museum|palace|park|garden|gardens|old town|downtown|city cent(?:er|re)|hotel|resort|the)\b`)
	travelPhrase  = regexp.MustCompile(`(?i)^.*\bto\s+`)
)

// CleanPlaceName trims a user-supplied place ("Goa, India", "Fort Worth, TX
// 76102") to its leading name. Unlike CleanLocation it keeps words such as
// Beach or Fort, which are part of many city names.
func CleanPlaceName(raw string) string {
	s := parenthetical.ReplaceAllString(raw, "")
	s = postalCode.ReplaceAllString(s, "")
	for _, seg := range strings.Split(s, ",") {
		if seg = strings.Join(strings.Fields(seg), " "); seg != "" {
			return seg
		}
	}
	return ""
}

// CleanLocation reduces free-text activity location strings ("Baga Beach, Goa, India",
// "Mumbai to Goa", "12 MG Road, Bengaluru 560001") to a geocodable place name.
func CleanLocation(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = travelPhrase.ReplaceAllString(s, "")
	s = parenthetical.ReplaceAllString(s, "")
	s = postalCode.ReplaceAllString(s, "")

	var segments []string
	for _, seg := range strings.Split(s, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" || transitLike.MatchString(seg) || streetLike.MatchString(seg) {
			continue
		}
		if len(strings.Fields(seg)) > 1 {
			seg = airportCode.ReplaceAllString(seg, "")
		}
		seg = strings.Join(strings.Fields(landmarkWords.ReplaceAllString(seg, "")), " ")
		if seg != "" {
			segments = append(segments, seg)
		}
	}

	switch len(segments) {
	case 0:
		return ""
	case 1:
		return segments[0]
	default:
		return segments[len(segments)-2]
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
