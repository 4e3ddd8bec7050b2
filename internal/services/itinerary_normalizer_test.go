package services

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"wanderplan/internal/models/request_models"
	"wanderplan/internal/models/response_models"
	"wanderplan/pkg/utils"
)

func oneDayRequest() *request_models.ItineraryRequest {
	return &request_models.ItineraryRequest{
		Origin:       "Delhi",
		Destinations: []string{"Goa"},
		DurationDays: 1,
		Party:        request_models.PartyComposition{Adults: 1},
	}
}

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad fixture %q: %v", s, err)
	}
	return v
}

// each heterogeneous field must normalize the same way whether it arrives as
// an array of objects, an array of JSON strings, a bare object or a bare string
func TestNormalizeHeterogeneousArrayShapes(t *testing.T) {
	fields := []struct {
		name    string
		element string
		wrap    func(field any) map[string]any
		extract func(it *response_models.NormalizedItinerary) any
	}{
		{
			name:    "activities",
			element: `{"time":"09:00","name":"Fort Aguada","cost":"₹ 250","address":"Candolim, Goa"}`,
			wrap: func(field any) map[string]any {
				return map[string]any{"dayPlans": []any{map[string]any{"day": 1.0, "morning": field}}}
			},
			extract: func(it *response_models.NormalizedItinerary) any { return it.DayPlans[0].Morning },
		},
		{
			name:    "accommodations",
			element: `{"name":"Casa Baga","type":"boutique","pricePerNight":"4,500","rating":"4.5/5"}`,
			wrap: func(field any) map[string]any {
				return map[string]any{"dayPlans": []any{map[string]any{"day": 1.0}}, "accommodationSuggestions": field}
			},
			extract: func(it *response_models.NormalizedItinerary) any { return it.AccommodationSuggestions },
		},
		{
			name:    "restaurants",
			element: `{"name":"Gunpowder","cuisine":"South Indian","averageCost":"$15","dietaryOptions":["vegetarian"]}`,
			wrap: func(field any) map[string]any {
				return map[string]any{"dayPlans": []any{map[string]any{"day": 1.0}}, "restaurantRecommendations": field}
			},
			extract: func(it *response_models.NormalizedItinerary) any { return it.RestaurantRecommendations },
		},
		{
			name:    "transportation",
			element: `{"mode":"Scooter rental","description":"Best way to hop beaches","cost":"400 per day"}`,
			wrap: func(field any) map[string]any {
				return map[string]any{"dayPlans": []any{map[string]any{"day": 1.0}}, "transportationTips": field}
			},
			extract: func(it *response_models.NormalizedItinerary) any { return it.TransportationTips },
		},
	}

	for _, f := range fields {
		t.Run(f.name, func(t *testing.T) {
			obj := decode(t, f.element)
			shapes := map[string]any{
				"array of objects": []any{obj},
				"array of strings": []any{f.element},
				"bare object":      obj,
				"bare string":      f.element,
			}

			var want any
			for _, shape := range []string{"array of objects", "array of strings", "bare object", "bare string"} {
				it, err := NormalizeItinerary(f.wrap(shapes[shape]), oneDayRequest())
				if err != nil {
					t.Fatalf("%s: %v", shape, err)
				}
				got := f.extract(it)
				if reflect.ValueOf(got).Len() != 1 {
					t.Fatalf("%s: expected one element, got %#v", shape, got)
				}
				if want == nil {
					want = got
					continue
				}
				if !reflect.DeepEqual(got, want) {
					t.Fatalf("%s: got %#v, want %#v", shape, got, want)
				}
			}
		})
	}
}

func TestNormalizeActivityFieldFallbacks(t *testing.T) {
	parsed := decode(t, `{"dayPlans":[{"day":1,"morning":[{
		"time":"10 AM","activity":"Spice farm tour","details":"Guided walk",
		"price":"₹ 800 + ₹ 200 = ₹ 1,000","place":"Ponda","tip":"Go early",
		"bestTime":"Morning","bookingRequired":"yes"}]}]}`)

	it, err := NormalizeItinerary(parsed, oneDayRequest())
	if err != nil {
		t.Fatalf("NormalizeItinerary: %v", err)
	}
	got := it.DayPlans[0].Morning[0]
	if got.Title != "Spice farm tour" || got.Description != "Guided walk" || got.Location != "Ponda" {
		t.Fatalf("fallback keys not resolved: %+v", got)
	}
	if got.EstimatedCost != 1000 {
		t.Fatalf("expected cost 1000, got %v", got.EstimatedCost)
	}
	if got.InsiderTip != "Go early" || got.BestTimeToVisit != "Morning" {
		t.Fatalf("tip fallbacks not resolved: %+v", got)
	}
	if got.BookingRequired == nil || !*got.BookingRequired {
		t.Fatalf("bookingRequired \"yes\" should be true")
	}
}

func TestNormalizeBucketsFlatActivities(t *testing.T) {
	parsed := decode(t, `{"dayPlans":[{"day":1,"activities":[
		{"time":"08:30","title":"Breakfast"},
		{"time":"2:00 PM","title":"Museum"},
		{"time":"19:00","title":"Dinner cruise"},
		{"time":"afternoon","title":"Siesta"}]}]}`)

	it, err := NormalizeItinerary(parsed, oneDayRequest())
	if err != nil {
		t.Fatalf("NormalizeItinerary: %v", err)
	}
	d := it.DayPlans[0]
	if len(d.Morning) != 1 || len(d.Afternoon) != 2 || len(d.Evening) != 1 {
		t.Fatalf("unexpected buckets: morning=%d afternoon=%d evening=%d", len(d.Morning), len(d.Afternoon), len(d.Evening))
	}
	if d.Evening[0].Title != "Dinner cruise" {
		t.Fatalf("unexpected evening activity %+v", d.Evening[0])
	}
}

func TestNormalizeDefaultsToEmptyContainers(t *testing.T) {
	it, err := NormalizeItinerary(decode(t, `{"dayPlans":[{"day":1}]}`), oneDayRequest())
	if err != nil {
		t.Fatalf("NormalizeItinerary: %v", err)
	}
	if it.AccommodationSuggestions == nil || it.RestaurantRecommendations == nil || it.TransportationTips == nil ||
		it.GeneralTips == nil || it.PackingList == nil || it.DailyCostBreakdown == nil {
		t.Fatalf("lists must default to empty, got %+v", it)
	}
	d := it.DayPlans[0]
	if d.Morning == nil || d.Afternoon == nil || d.Evening == nil {
		t.Fatal("activity slots must default to empty")
	}
	b, _ := json.Marshal(it)
	var round map[string]any
	_ = json.Unmarshal(b, &round)
	if round["packingList"] == nil || round["generalTips"] == nil {
		t.Fatal("empty lists must serialize as [] not null")
	}
}

func TestNormalizeDayCountMismatch(t *testing.T) {
	req := oneDayRequest()
	req.DurationDays = 5
	parsed := decode(t, `{"dayPlans":[{"day":1},{"day":2},{"day":3}]}`)

	it, err := NormalizeItinerary(parsed, req)
	if it != nil {
		t.Fatal("no itinerary should be returned on a day count mismatch")
	}
	if !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var ve *utils.ValidationError
	if !errors.As(err, &ve) || ve.Field != "dayPlans" {
		t.Fatalf("expected ValidationError on dayPlans, got %#v", err)
	}
}

func TestNormalizeRejectsNonObject(t *testing.T) {
	_, err := NormalizeItinerary([]any{1.0, 2.0}, oneDayRequest())
	if !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNormalizeNestedStringifiedStructures(t *testing.T) {
	// dayPlans is itself JSON text, and so is one of its activity lists
	inner := `[{"day":1,"evening":"[{\"title\":\"Sunset at Chapora\",\"cost\":\"0\"}]"}]`
	parsed := map[string]any{"dayPlans": inner}

	it, err := NormalizeItinerary(parsed, oneDayRequest())
	if err != nil {
		t.Fatalf("NormalizeItinerary: %v", err)
	}
	if len(it.DayPlans[0].Evening) != 1 || it.DayPlans[0].Evening[0].Title != "Sunset at Chapora" {
		t.Fatalf("nested JSON text not resolved: %+v", it.DayPlans[0])
	}
}

func TestNormalizeReindexesAndDatesDays(t *testing.T) {
	req := oneDayRequest()
	req.DurationDays = 0
	req.StartDate, req.EndDate = "2026-03-02", "2026-03-03"
	parsed := decode(t, `{"dayPlans":[{"day":1,"title":"A"},{"day":1,"title":"B"}]}`)

	it, err := NormalizeItinerary(parsed, req)
	if err != nil {
		t.Fatalf("NormalizeItinerary: %v", err)
	}
	if it.DayPlans[1].Day != 2 || it.DayPlans[1].Date != "2026-03-03" {
		t.Fatalf("expected day 2 on 2026-03-03, got %+v", it.DayPlans[1])
	}
}

func TestNormalizeCurrencyFallsBackToOrigin(t *testing.T) {
	it, err := NormalizeItinerary(decode(t, `{"dayPlans":[{"day":1}]}`), oneDayRequest())
	if err != nil {
		t.Fatal(err)
	}
	if it.Currency != "INR" || it.CurrencySymbol != "₹" {
		t.Fatalf("expected INR from origin Delhi, got %s %s", it.Currency, it.CurrencySymbol)
	}
}

func TestNormalizeDisabledAccommodationIsEmpty(t *testing.T) {
	req := oneDayRequest()
	req.Preferences.IncludeAccommodation = boolPtr(false)
	parsed := decode(t, `{"dayPlans":[{"day":1}],
		"accommodationSuggestions":[{"name":"Taj Exotica"},{"name":"W Goa"}]}`)

	it, err := NormalizeItinerary(parsed, req)
	if err != nil {
		t.Fatal(err)
	}
	if it.AccommodationSuggestions == nil || len(it.AccommodationSuggestions) != 0 {
		t.Fatalf("expected empty accommodation list, got %#v", it.AccommodationSuggestions)
	}
}

func TestNormalizeDisabledRestaurantsIsEmpty(t *testing.T) {
	req := oneDayRequest()
	req.Preferences.IncludeRestaurants = boolPtr(false)
	parsed := decode(t, `{"dayPlans":[{"day":1}],"restaurantRecommendations":[{"name":"Thalassa"}]}`)

	it, err := NormalizeItinerary(parsed, req)
	if err != nil {
		t.Fatal(err)
	}
	if len(it.RestaurantRecommendations) != 0 {
		t.Fatalf("expected no restaurants, got %#v", it.RestaurantRecommendations)
	}
}

func TestFilterRestaurantsByDiet(t *testing.T) {
	restaurants := []response_models.Restaurant{
		{Name: "Green Leaf", DietaryOptions: []string{"vegetarian"}},
		{Name: "Meat Shack", DietaryOptions: []string{"non-vegetarian"}},
		{Name: "Both Ways", DietaryOptions: []string{"vegetarian", "non-vegetarian"}},
	}

	got := FilterRestaurantsByDiet(restaurants, "veg")
	if len(got) != 2 || got[0].Name != "Green Leaf" || got[1].Name != "Both Ways" {
		t.Fatalf("veg filter kept %+v", got)
	}

	for _, pref := range []string{"", "none", "Non-Veg"} {
		if got := FilterRestaurantsByDiet(restaurants, pref); len(got) != 3 {
			t.Errorf("preference %q should not filter, kept %d", pref, len(got))
		}
	}

	tagged := []response_models.Restaurant{
		{Name: "Vegan Bowl", DietaryOptions: []string{"Vegan-Friendly"}},
		{Name: "Untagged"},
	}
	if got := FilterRestaurantsByDiet(tagged, "vegan"); len(got) != 1 || got[0].Name != "Vegan Bowl" {
		t.Fatalf("vegan filter kept %+v", got)
	}
}

func TestDeepCoerceBoundedAndCycleSafe(t *testing.T) {
	// nesting deeper than the bound is left as text rather than recursing forever
	s := `{"v":1}`
	for i := 0; i < 20; i++ {
		b, _ := json.Marshal([]any{s})
		s = string(b)
	}
	if DeepCoerce(s) == nil {
		t.Fatal("deeply nested text should still produce a value")
	}

	m := map[string]any{"a": 1.0}
	m["self"] = m
	out, ok := DeepCoerce(m).(map[string]any)
	if !ok || out["a"] != 1.0 || out["self"] != nil {
		t.Fatalf("cycle should be cut, got %#v", out)
	}
}

func TestCleanLocation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Goa", "Goa"},
		{"Baga Beach, Goa, India", "Goa"},
		{"Mumbai to Goa", "Goa"},
		{"12 MG Road, Bengaluru 560001", "Bengaluru"},
		{"Chhatrapati Shivaji International Airport (BOM), Mumbai", "Mumbai"},
		{"Port Blair", "Port Blair"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanLocation(tt.in); got != tt.want {
			t.Errorf("CleanLocation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDeepCoerceKeepsProseWithBracketPrefix(t *testing.T) {
	in := map[string]any{
		"title":       "[1] Visit the fort",
		"description": "{Optional} sunset cruise, then dinner",
		"tags":        `["beach","food"]`,
	}
	out := DeepCoerce(in).(map[string]any)
	if out["title"] != "[1] Visit the fort" || out["description"] != "{Optional} sunset cruise, then dinner" {
		t.Fatalf("prose was rewritten: %#v", out)
	}
	if tags, ok := out["tags"].([]any); !ok || len(tags) != 2 {
		t.Fatalf("JSON text should still decode, got %#v", out["tags"])
	}

	act := normalizeActivity(out)
	if act.Title != "[1] Visit the fort" {
		t.Fatalf("activity title = %q", act.Title)
	}
}

func TestNormalizeReindexesCostEntriesWithDays(t *testing.T) {
	req := oneDayRequest()
	req.DurationDays = 0
	req.StartDate, req.EndDate = "2026-03-02", "2026-03-04"
	parsed := decode(t, `{
		"dayPlans":[{"day":0,"title":"A"},{"day":1,"title":"B"},{"day":2,"title":"C"}],
		"dailyCostBreakdown":[{"day":0,"food":100},{"day":1,"food":200},{"day":2,"food":300}]
	}`)

	it, err := NormalizeItinerary(parsed, req)
	if err != nil {
		t.Fatalf("NormalizeItinerary: %v", err)
	}
	for i, c := range it.DailyCostBreakdown {
		if c.Day != i+1 {
			t.Fatalf("cost entry %d has day %d, want %d", i, c.Day, i+1)
		}
	}

	ReconcileCosts(it)
	for i, want := range []float64{100, 200, 300} {
		if it.DayPlans[i].TotalCost != want {
			t.Fatalf("day %d total = %v, want %v", i+1, it.DayPlans[i].TotalCost, want)
		}
	}
	if it.TotalEstimatedCost != 600 {
		t.Fatalf("total = %v", it.TotalEstimatedCost)
	}
}
