package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"wanderplan/internal/models/request_models"
	"wanderplan/internal/models/response_models"
	"wanderplan/pkg/jsonrepair"
	"wanderplan/pkg/utils"
)

var signedNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

var conditionIcons = []struct {
	keyword string
	icon    string
}{
	{"thunder", "11d"},
	{"snow", "13d"},
	{"shower", "09d"},
	{"drizzle", "09d"},
	{"rain", "10d"},
	{"fog", "50d"},
	{"mist", "50d"},
	{"overcast", "04d"},
	{"cloud", "02d"},
	{"clear", "01d"},
	{"sun", "01d"},
}

// LLMSeasonalEstimator asks the language model for a typical-climate summary
// of a place and period. It is the fallback when no live forecast exists.
type LLMSeasonalEstimator struct {
	llm utils.LLMClientInterface
}

func NewSeasonalEstimator(llm utils.LLMClientInterface) SeasonalEstimator {
	return &LLMSeasonalEstimator{llm: llm}
}

func (e *LLMSeasonalEstimator) Estimate(ctx context.Context, location string, start, end time.Time) (*response_models.WeatherAggregate, error) {
	if e.llm == nil {
		return nil, fmt.Errorf("seasonal estimate: no language model configured")
	}
	resp, err := e.llm.GenerateJSON(ctx, seasonalPrompt(location, start, end))
	if err != nil {
		return nil, fmt.Errorf("seasonal estimate for %s: %w", location, err)
	}
	res, err := jsonrepair.Recover(resp.Text)
	if err != nil {
		return nil, fmt.Errorf("seasonal estimate for %s: %w", location, err)
	}
	m, ok := DeepCoerce(res.Value).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("seasonal estimate for %s: %w", location, utils.ErrUnexpectedBehaviorOfAI)
	}
	return ParseSeasonalEstimate(m)
}

func seasonalPrompt(location string, start, end time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Estimate the typical weather in %s between %s and %s based on historical climate averages.\n",
		location, start.Format(request_models.DateLayout), end.Format(request_models.DateLayout)))
	b.WriteString("Temperatures in Celsius, wind speed in km/h, probabilities and humidity in percent, all as plain numbers.\n")
	b.WriteString(`Respond with a single JSON object only:
{"minTemperature": 0, "maxTemperature": 0, "avgMinTemperature": 0, "avgMaxTemperature": 0, "avgTemperature": 0,
 "dominantCondition": "string", "avgPrecipitationProbability": 0, "avgHumidity": 0, "avgWindSpeed": 0,
 "recommendations": ["string"]}
`)
	return b.String()
}

// ParseSeasonalEstimate maps a model-produced climate object onto a
// WeatherAggregate. A missing temperature range is an error.
func ParseSeasonalEstimate(m map[string]any) (*response_models.WeatherAggregate, error) {
	lo, okLo := signedFloat(firstValue(m, "minTemperature", "minTemp", "min"))
	hi, okHi := signedFloat(firstValue(m, "maxTemperature", "maxTemp", "max"))
	if !okLo || !okHi {
		return nil, fmt.Errorf("seasonal estimate: %w: missing temperature range", utils.ErrUnexpectedBehaviorOfAI)
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	agg := &response_models.WeatherAggregate{
		MinTemperature:    round1(lo),
		MaxTemperature:    round1(hi),
		AvgMinTemperature: round1(lo),
		AvgMaxTemperature: round1(hi),
		AvgTemperature:    round1((lo + hi) / 2),
		DominantCondition: firstString(m, "dominantCondition", "condition", "conditions"),
		Recommendations:   []string{},
	}
	if v, ok := signedFloat(firstValue(m, "avgMinTemperature")); ok {
		agg.AvgMinTemperature = round1(v)
	}
	if v, ok := signedFloat(firstValue(m, "avgMaxTemperature")); ok {
		agg.AvgMaxTemperature = round1(v)
	}
	if v, ok := signedFloat(firstValue(m, "avgTemperature", "averageTemperature")); ok {
		agg.AvgTemperature = round1(v)
	}
	agg.AvgPrecipitationProbability = round1(clampPercent(utils.ParseCost(firstValue(m, "avgPrecipitationProbability", "precipitationProbability", "rainChance"))))
	agg.AvgHumidity = round1(clampPercent(utils.ParseCost(firstValue(m, "avgHumidity", "humidity"))))
	agg.AvgWindSpeed = round1(utils.ParseCost(firstValue(m, "avgWindSpeed", "windSpeed")))

	seen := map[string]bool{}
	for _, r := range stringList(firstValue(m, "recommendations", "tips")) {
		key := strings.ToLower(r)
		if seen[key] || len(agg.Recommendations) >= maxWeatherRecommendations {
			continue
		}
		seen[key] = true
		agg.Recommendations = append(agg.Recommendations, r)
	}

	lower := strings.ToLower(agg.DominantCondition)
	for _, ci := range conditionIcons {
		if strings.Contains(lower, ci.keyword) {
			agg.Icon = ci.icon
			break
		}
	}
	return agg, nil
}

func signedFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		if m := signedNumber.FindString(t); m != "" {
			f, err := strconv.ParseFloat(m, 64)
			return f, err == nil
		}
	}
	return 0, false
}

func clampPercent(f float64) float64 {
	if f > 100 {
		return 100
	}
	return f
}
