package request_models

import (
	"fmt"
	"strings"
	"time"

	"wanderplan/pkg/utils"
)

const (
	DateLayout      = "2006-01-02"
	MaxDestinations = 5
	MaxTripDays     = 30
)

var budgetTiers = map[string]bool{"budget": true, "moderate": true, "luxury": true}

type PartyComposition struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
	Seniors  int `json:"seniors"`
}

func (p PartyComposition) Total() int {
	return p.Adults + p.Children + p.Infants + p.Seniors
}

func (p PartyComposition) HasKids() bool {
	return p.Children > 0 || p.Infants > 0
}

// ItineraryPreferences are the inclusion flags. Unset flags mean "include".
type ItineraryPreferences struct {
	IncludeAccommodation *bool  `json:"includeAccommodation"`
	IncludeRestaurants   *bool  `json:"includeRestaurants"`
	IncludeWeather       *bool  `json:"includeWeather"`
	DietaryPreference    string `json:"dietaryPreference"`
	TransportMode        string `json:"transportMode"`
}

type ItineraryRequest struct {
	Origin          string               `json:"origin" binding:"required"`
	Destinations    []string             `json:"destinations" binding:"required,min=1,max=5,dive,required"`
	StartDate       string               `json:"startDate"`
	EndDate         string               `json:"endDate"`
	DurationDays    int                  `json:"durationDays"`
	Party           PartyComposition     `json:"party"`
	BudgetTier      string               `json:"budgetTier"`
	Interests       []string             `json:"interests"`
	TravelStyle     string               `json:"travelStyle"`
	Currency        string               `json:"currency"`
	Preferences     ItineraryPreferences `json:"preferences"`
	AdditionalNotes string               `json:"additionalNotes"`
}

type RegenerateDayRequest struct {
	Instructions string `json:"instructions"`
}

func (r *ItineraryRequest) WantsAccommodation() bool { return flagOrTrue(r.Preferences.IncludeAccommodation) }
func (r *ItineraryRequest) WantsRestaurants() bool   { return flagOrTrue(r.Preferences.IncludeRestaurants) }
func (r *ItineraryRequest) WantsWeather() bool       { return flagOrTrue(r.Preferences.IncludeWeather) }

func flagOrTrue(b *bool) bool {
	return b == nil || *b
}

// Duration is the number of days the itinerary must contain: the inclusive
// date range when both dates are given, else DurationDays.
func (r *ItineraryRequest) Duration() int {
	start, errS := time.Parse(DateLayout, strings.TrimSpace(r.StartDate))
	end, errE := time.Parse(DateLayout, strings.TrimSpace(r.EndDate))
	if errS == nil && errE == nil {
		return int(end.Sub(start).Hours()/24) + 1
	}
	return r.DurationDays
}

// Start returns the parsed start date, if any.
func (r *ItineraryRequest) Start() (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(r.StartDate))
	return t, err == nil
}

// End returns the parsed end date, if any.
func (r *ItineraryRequest) End() (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(r.EndDate))
	return t, err == nil
}

// ResolvedCurrency is the currency costs must be expressed in: an explicit
// request currency, else the origin's home currency.
func (r *ItineraryRequest) ResolvedCurrency() utils.Currency {
	if utils.IsKnownCurrency(r.Currency) {
		return utils.CurrencyForCode(r.Currency)
	}
	return utils.CurrencyForOrigin(r.Origin)
}

// Validate checks everything the prompt builder relies on.
func (r *ItineraryRequest) Validate() error {
	var problems []string

	if strings.TrimSpace(r.Origin) == "" {
		problems = append(problems, "origin is required")
	}
	if n := len(r.Destinations); n < 1 || n > MaxDestinations {
		problems = append(problems, fmt.Sprintf("destinations must contain 1-%d entries, got %d", MaxDestinations, n))
	}
	for i, d := range r.Destinations {
		if strings.TrimSpace(d) == "" {
			problems = append(problems, fmt.Sprintf("destination %d is empty", i+1))
		}
	}

	start, hasStart := r.Start()
	end, hasEnd := r.End()
	if r.StartDate != "" && !hasStart {
		problems = append(problems, "startDate must be YYYY-MM-DD")
	}
	if r.EndDate != "" && !hasEnd {
		problems = append(problems, "endDate must be YYYY-MM-DD")
	}
	if hasStart && hasEnd && end.Before(start) {
		problems = append(problems, "endDate is before startDate")
	}
	if d := r.Duration(); d < 1 || d > MaxTripDays {
		problems = append(problems, fmt.Sprintf("trip duration must be 1-%d days, got %d", MaxTripDays, d))
	}

	if r.Party.Adults < 1 {
		problems = append(problems, "party must include at least one adult")
	}
	if r.Party.Children < 0 || r.Party.Infants < 0 || r.Party.Seniors < 0 {
		problems = append(problems, "party counts cannot be negative")
	}
	if r.BudgetTier != "" && !budgetTiers[strings.ToLower(r.BudgetTier)] {
		problems = append(problems, "budgetTier must be one of budget, moderate, luxury")
	}

	if len(problems) > 0 {
		return &utils.PromptBuildError{Problems: problems}
	}
	return nil
}
