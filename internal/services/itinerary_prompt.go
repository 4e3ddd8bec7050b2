package services

import (
	"fmt"
	"strings"

	"wanderplan/internal/models/request_models"
	"wanderplan/pkg/utils"
)

var transportGuidance = map[string]string{
	"flight": "Travel between cities by air. Include flight durations, the nearest airports and realistic airfare in transportationTips.",
	"train":  "Travel between cities by rail. Include train classes, typical journey times and advance booking advice in transportationTips.",
	"road":   "Travel by car or self-drive. Include driving times, tolls, fuel estimates and parking advice in transportationTips.",
	"bus":    "Travel by intercity bus or coach. Include operators, journey times and ticket prices in transportationTips.",
	"public": "Rely on public transport. Include metro, bus and local ferry options with fares in transportationTips.",
}

const defaultTransportGuidance = "Recommend the most practical mix of transport between and within destinations, with typical fares, in transportationTips."

// BuildItineraryPrompt renders the instruction text for a full itinerary.
// It has no side effects; a malformed request yields a PromptBuildError.
func BuildItineraryPrompt(req *request_models.ItineraryRequest) (string, error) {
	if req == nil {
		return "", &utils.PromptBuildError{Problems: []string{"request is required"}}
	}
	if err := req.Validate(); err != nil {
		return "", err
	}

	days := req.Duration()
	currency := req.ResolvedCurrency()

	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf("Create a detailed %d-day travel itinerary from %s to %s.\n\n",
		days, strings.TrimSpace(req.Origin), strings.Join(trimAll(req.Destinations), ", ")))

	writeTripDetails(&prompt, req)
	writeCostRules(&prompt, currency, days)

	prompt.WriteString("\nTRANSPORTATION:\n")
	prompt.WriteString(transportFor(req.Preferences.TransportMode))
	prompt.WriteString("\n")

	if req.WantsAccommodation() {
		prompt.WriteString("\nACCOMMODATION:\n")
		prompt.WriteString(fmt.Sprintf("Suggest 3 to 5 places to stay matching a %s budget, with pricePerNight in %s.\n",
			budgetTier(req), currency.Code))
	}
	if req.WantsRestaurants() {
		prompt.WriteString("\nRESTAURANTS:\n")
		prompt.WriteString("Recommend 4 to 8 restaurants. Give each a dietaryOptions array of lowercase tags such as \"vegetarian\", \"vegan\", \"halal\", \"non-vegetarian\".\n")
		if diet := strings.TrimSpace(req.Preferences.DietaryPreference); diet != "" && !isNoDietFilter(diet) {
			prompt.WriteString(fmt.Sprintf("The travellers follow a %s diet. Only recommend places that serve %s food and tag them accordingly.\n", diet, diet))
		}
	}
	if req.Party.HasKids() {
		prompt.WriteString("\nFAMILY SAFETY:\n")
		prompt.WriteString(fmt.Sprintf("The party includes %d children and %d infants. Prefer child-friendly activities, avoid late-night plans and strenuous hikes, note stroller access and keep travel legs short.\n",
			req.Party.Children, req.Party.Infants))
	}
	if req.Party.Seniors > 0 {
		prompt.WriteString(fmt.Sprintf("The party includes %d seniors; keep walking distances moderate.\n", req.Party.Seniors))
	}
	if req.WantsWeather() {
		prompt.WriteString("\nWEATHER:\nTake the expected season into account and add weather-appropriate items to packingList.\n")
	}
	if notes := strings.TrimSpace(req.AdditionalNotes); notes != "" {
		prompt.WriteString(fmt.Sprintf("\nADDITIONAL NOTES FROM THE TRAVELLER:\n%s\n", notes))
	}

	writeResponseFormat(&prompt, req)
	return prompt.String(), nil
}

// BuildDayRegenerationPrompt renders the instruction text for a single day
// of an existing itinerary. The model is asked for a one-day itinerary whose
// only day is numbered 1; the caller re-indexes it.
func BuildDayRegenerationPrompt(req *request_models.ItineraryRequest, day int, instructions string) (string, error) {
	if req == nil {
		return "", &utils.PromptBuildError{Problems: []string{"request is required"}}
	}
	if day < 1 || day > req.Duration() {
		return "", &utils.PromptBuildError{Problems: []string{fmt.Sprintf("day %d is outside the %d-day trip", day, req.Duration())}}
	}

	scoped := ScopeToDay(req, day)
	prompt, err := BuildItineraryPrompt(&scoped)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString(fmt.Sprintf("\nThis replaces day %d of a %d-day trip. Plan fresh activities different from a typical first-time tour.\n", day, req.Duration()))
	if extra := strings.TrimSpace(instructions); extra != "" {
		b.WriteString(fmt.Sprintf("Traveller's request for this day: %s\n", extra))
	}
	return b.String(), nil
}

// ScopeToDay narrows a trip request to the single given day. Accommodation
// and restaurants are switched off: the original itinerary keeps its own.
func ScopeToDay(req *request_models.ItineraryRequest, day int) request_models.ItineraryRequest {
	scoped := *req
	scoped.DurationDays = 1
	scoped.StartDate, scoped.EndDate = "", ""
	if start, ok := req.Start(); ok {
		date := start.AddDate(0, 0, day-1).Format(request_models.DateLayout)
		scoped.StartDate, scoped.EndDate = date, date
	}
	no := false
	scoped.Preferences.IncludeAccommodation = &no
	scoped.Preferences.IncludeRestaurants = &no
	return scoped
}

func writeTripDetails(b *strings.Builder, req *request_models.ItineraryRequest) {
	b.WriteString("TRIP DETAILS:\n")
	if start, ok := req.Start(); ok {
		end, _ := req.End()
		if end.IsZero() {
			end = start.AddDate(0, 0, req.Duration()-1)
		}
		b.WriteString(fmt.Sprintf("- Dates: %s to %s\n", start.Format(request_models.DateLayout), end.Format(request_models.DateLayout)))
	}
	b.WriteString(fmt.Sprintf("- Travellers: %d adults", req.Party.Adults))
	if req.Party.Children > 0 {
		b.WriteString(fmt.Sprintf(", %d children", req.Party.Children))
	}
	if req.Party.Infants > 0 {
		b.WriteString(fmt.Sprintf(", %d infants", req.Party.Infants))
	}
	if req.Party.Seniors > 0 {
		b.WriteString(fmt.Sprintf(", %d seniors", req.Party.Seniors))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("- Budget: %s\n", budgetTier(req)))
	if len(req.Interests) > 0 {
		b.WriteString(fmt.Sprintf("- Interests: %s\n", strings.Join(trimAll(req.Interests), ", ")))
	}
	if style := strings.TrimSpace(req.TravelStyle); style != "" {
		b.WriteString(fmt.Sprintf("- Travel style: %s\n", style))
	}
}

func writeCostRules(b *strings.Builder, currency utils.Currency, days int) {
	b.WriteString("\nCOST RULES:\n")
	b.WriteString(fmt.Sprintf("1. Express every cost in %s (%s), the traveller's home currency, NOT the currency of the destination.\n", currency.Code, currency.Symbol))
	b.WriteString("2. Every cost field must be a plain number: no currency symbols, no thousands separators, no ranges, no text. Write 6800, not \"₹ 6,800\".\n")
	b.WriteString(fmt.Sprintf("3. dayPlans must contain exactly %d entries numbered 1 to %d. dailyCostBreakdown must contain one entry per day.\n", days, days))
	b.WriteString("4. Each dailyCostBreakdown total must equal the sum of its accommodation, food, activities, transportation and miscellaneous values.\n")
}

func writeResponseFormat(b *strings.Builder, req *request_models.ItineraryRequest) {
	b.WriteString("\nRESPONSE FORMAT:\n")
	b.WriteString("Respond with a single JSON object and nothing else: no markdown fences, no commentary. Use these keys:\n")
	b.WriteString(`{
  "dayPlans": [
    {
      "day": 1,
      "title": "string",
      "morning":   [{"time": "09:00", "title": "string", "description": "string", "estimatedCost": 0, "duration": "2 hours", "location": "string", "insiderTip": "string", "bestTimeToVisit": "string", "bookingRequired": false}],
      "afternoon": [],
      "evening":   [],
      "totalCost": 0
    }
  ],
`)
	if req.WantsAccommodation() {
		b.WriteString(`  "accommodationSuggestions": [{"name": "string", "type": "hotel", "location": "string", "priceRange": "string", "pricePerNight": 0, "rating": 4.5, "amenities": ["string"], "bookingTip": "string"}],
`)
	}
	b.WriteString(`  "transportationTips": [{"mode": "string", "description": "string", "estimatedCost": 0, "tip": "string"}],
`)
	if req.WantsRestaurants() {
		b.WriteString(`  "restaurantRecommendations": [{"name": "string", "cuisine": "string", "location": "string", "priceRange": "string", "averageCost": 0, "mustTry": ["string"], "dietaryOptions": ["vegetarian"], "description": "string"}],
`)
	}
	b.WriteString(`  "generalTips": ["string"],
  "packingList": ["string"],
  "dailyCostBreakdown": [{"day": 1, "accommodation": 0, "food": 0, "activities": 0, "transportation": 0, "miscellaneous": 0, "total": 0}],
  "totalEstimatedCost": 0,
`)
	b.WriteString(fmt.Sprintf("  \"currency\": %q,\n  \"currencySymbol\": %q\n}\n", req.ResolvedCurrency().Code, req.ResolvedCurrency().Symbol))
	if !req.WantsAccommodation() {
		b.WriteString("Do not include accommodation suggestions.\n")
	}
	if !req.WantsRestaurants() {
		b.WriteString("Do not include restaurant recommendations.\n")
	}
}

func transportFor(mode string) string {
	if g, ok := transportGuidance[strings.ToLower(strings.TrimSpace(mode))]; ok {
		return g
	}
	return defaultTransportGuidance
}

func budgetTier(req *request_models.ItineraryRequest) string {
	if t := strings.ToLower(strings.TrimSpace(req.BudgetTier)); t != "" {
		return t
	}
	return "moderate"
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
