package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"wanderplan/pkg/utils"
)

func TestSeasonalEstimatorRecoversSloppyAnswer(t *testing.T) {
	llm := &fakeLLM{responses: []string{"Sure! Here you go:\n```json\n{\"minTemperature\": \"31°C\", \"maxTemperature\": 22, \"dominantCondition\": \"Mostly sunny\", \"avgHumidity\": 140, \"recommendations\": [\"Sunscreen\", \"sunscreen\", \"Hat\"],}\n```"}}
	est := NewSeasonalEstimator(llm)

	start := time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC)
	agg, err := est.Estimate(context.Background(), "Goa", start, start.AddDate(0, 0, 4))
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if agg.MinTemperature != 22 || agg.MaxTemperature != 31 {
		t.Fatalf("range should be swapped into order, got %v..%v", agg.MinTemperature, agg.MaxTemperature)
	}
	if agg.AvgTemperature != 26.5 {
		t.Fatalf("avg = %v", agg.AvgTemperature)
	}
	if agg.AvgHumidity != 100 {
		t.Fatalf("humidity should be clamped, got %v", agg.AvgHumidity)
	}
	if agg.Icon != "01d" {
		t.Fatalf("icon = %q", agg.Icon)
	}
	if len(agg.Recommendations) != 2 {
		t.Fatalf("recommendations = %v", agg.Recommendations)
	}
	if !strings.Contains(llm.prompts[0], "Goa") || !strings.Contains(llm.prompts[0], "2026-12-20") {
		t.Fatalf("prompt should name place and dates: %s", llm.prompts[0])
	}
}

func TestSeasonalEstimatorErrors(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	if _, err := NewSeasonalEstimator(nil).Estimate(ctx, "Goa", now, now); err == nil {
		t.Fatal("no model should be an error")
	}

	upstream := errors.New("rate limited")
	if _, err := NewSeasonalEstimator(&fakeLLM{err: upstream}).Estimate(ctx, "Goa", now, now); !errors.Is(err, upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	noRange := &fakeLLM{responses: []string{`{"dominantCondition":"rain"}`}}
	if _, err := NewSeasonalEstimator(noRange).Estimate(ctx, "Goa", now, now); !errors.Is(err, utils.ErrUnexpectedBehaviorOfAI) {
		t.Fatalf("missing range should be a model error, got %v", err)
	}

	garbage := &fakeLLM{responses: []string{"I cannot help with that."}}
	if _, err := NewSeasonalEstimator(garbage).Estimate(ctx, "Goa", now, now); !errors.Is(err, utils.ErrRecoveryFailed) {
		t.Fatalf("unparseable answer should fail recovery, got %v", err)
	}
}

func TestParseSeasonalEstimateNegativeTemperatures(t *testing.T) {
	agg, err := ParseSeasonalEstimate(map[string]any{"min": "-12", "max": -2.0, "condition": "Light snow"})
	if err != nil {
		t.Fatalf("ParseSeasonalEstimate: %v", err)
	}
	if agg.MinTemperature != -12 || agg.MaxTemperature != -2 || agg.Icon != "13d" {
		t.Fatalf("got %+v", agg)
	}
}
