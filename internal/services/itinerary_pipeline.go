package services

import (
	"fmt"
	"log"

	"wanderplan/internal/models/request_models"
	"wanderplan/internal/models/response_models"
	"wanderplan/pkg/jsonrepair"
)

// PipelineResult is a normalized, cost-reconciled itinerary together with
// how the raw model text was recovered.
type PipelineResult struct {
	Itinerary *response_models.NormalizedItinerary
	Recovery  *jsonrepair.Result
}

// ProcessModelResponse runs raw model text through recovery, normalization
// and cost reconciliation. Weather is not part of it: it only depends on the
// destinations and is added by the caller.
//
// On a normalization failure the recovery result is still returned so the
// caller can audit what was parsed.
func ProcessModelResponse(raw string, req *request_models.ItineraryRequest) (*PipelineResult, error) {
	rec, err := jsonrepair.Recover(raw)
	if err != nil {
		return nil, err
	}
	if rec.Repaired {
		log.Printf("model response recovered via %s", rec.Strategy)
	}

	it, err := NormalizeItinerary(rec.Value, req)
	if err != nil {
		return &PipelineResult{Recovery: rec}, fmt.Errorf("normalize model response: %w", err)
	}
	ReconcileCosts(it)
	return &PipelineResult{Itinerary: it, Recovery: rec}, nil
}
