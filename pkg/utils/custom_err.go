package utils

import (
	"errors"
	"fmt"
	"strings"

	"wanderplan/pkg/jsonrepair"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidPage            = errors.New("invalid page parameter")
	ErrInvalidPageSize        = errors.New("invalid page size parameter")
	ErrDatabaseError          = errors.New("database error")
	ErrItineraryNotFound      = errors.New("itinerary not found")
	ErrDayNotFound            = errors.New("day not found in itinerary")
	ErrPlanNotFound           = errors.New("plan not found")
	ErrItineraryBusy          = errors.New("itinerary is still generating")
	ErrQuotaExceeded          = errors.New("generation quota exceeded")
	ErrUnexpectedBehaviorOfAI = errors.New("unexpected behavior of AI")
	ErrUnauthorized           = errors.New("unauthorized")

	// pipeline failures
	ErrPromptBuild    = errors.New("prompt build error")
	ErrRecoveryFailed = jsonrepair.ErrRecoveryFailed
	ErrValidation     = errors.New("itinerary validation error")
)

// PromptBuildError reports a request that cannot be turned into a prompt.
type PromptBuildError struct {
	Problems []string
}

func (e *PromptBuildError) Error() string {
	return fmt.Sprintf("prompt build error: %s", strings.Join(e.Problems, "; "))
}

func (e *PromptBuildError) Unwrap() error { return ErrPromptBuild }

// ValidationError reports a structural invariant the normalized itinerary
// violates, e.g. a day count that differs from the requested duration.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
