package services

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"wanderplan/internal/models/request_models"
	"wanderplan/internal/models/response_models"
	"wanderplan/pkg/jsonrepair"
	"wanderplan/pkg/utils"
)

const maxCoerceDepth = 8

var (
	clockTime   = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	firstNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

var dietAliases = map[string]string{
	"veg":            "vegetarian",
	"pureveg":        "vegetarian",
	"vegetarian":     "vegetarian",
	"vegetarianonly": "vegetarian",
	"plantbased":     "vegan",
	"vegan":          "vegan",
	"halal":          "halal",
	"kosher":         "kosher",
	"jain":           "jain",
	"glutenfree":     "glutenfree",
	"gf":             "glutenfree",
	"pescatarian":    "pescatarian",
	"pescetarian":    "pescatarian",
}

var noDietFilter = map[string]bool{
	"":              true,
	"none":          true,
	"any":           true,
	"all":           true,
	"nopreference":  true,
	"nonveg":        true,
	"nonvegetarian": true,
}

// NormalizeItinerary coerces a recovered model response into the canonical
// itinerary shape. The day count must match the requested duration; a
// mismatch is a ValidationError, never padded or truncated.
func NormalizeItinerary(parsed any, req *request_models.ItineraryRequest) (*response_models.NormalizedItinerary, error) {
	root, ok := DeepCoerce(parsed).(map[string]any)
	if !ok {
		return nil, &utils.ValidationError{Field: "itinerary", Reason: fmt.Sprintf("expected a JSON object, got %s", kindOf(parsed))}
	}
	// some models wrap everything in {"itinerary": {...}}
	if inner, ok := root["itinerary"].(map[string]any); ok && root["dayPlans"] == nil {
		root = inner
	}

	days := toObjectList(firstValue(root, "dayPlans", "days", "dailyPlans", "itinerary"), "title")
	expected := req.Duration()
	if len(days) != expected {
		return nil, &utils.ValidationError{
			Field:  "dayPlans",
			Reason: fmt.Sprintf("expected %d days, model returned %d", expected, len(days)),
		}
	}

	out := &response_models.NormalizedItinerary{
		DayPlans:                  make([]response_models.DayPlan, 0, len(days)),
		AccommodationSuggestions:  []response_models.Accommodation{},
		TransportationTips:        []response_models.TransportationTip{},
		RestaurantRecommendations: []response_models.Restaurant{},
		GeneralTips:               stringList(firstValue(root, "generalTips", "tips", "travelTips")),
		PackingList:               stringList(firstValue(root, "packingList", "packing", "whatToPack")),
		DailyCostBreakdown:        []response_models.DailyCost{},
		TotalEstimatedCost:        utils.ParseCost(firstValue(root, "totalEstimatedCost", "totalCost", "estimatedTotalCost", "total")),
	}

	rawDays := make([]int, 0, len(days))
	for i, d := range days {
		out.DayPlans = append(out.DayPlans, normalizeDayPlan(d, i))
		rawDays = append(rawDays, rawDayNumber(d))
	}
	reindexDays(out.DayPlans, req)

	if req.WantsAccommodation() {
		for _, m := range toObjectList(firstValue(root, "accommodationSuggestions", "accommodations", "accommodation", "hotels"), "name") {
			out.AccommodationSuggestions = append(out.AccommodationSuggestions, normalizeAccommodation(m))
		}
	}
	for _, m := range toObjectList(firstValue(root, "transportationTips", "transportation", "transport", "transportTips"), "description") {
		out.TransportationTips = append(out.TransportationTips, normalizeTransportation(m))
	}
	if req.WantsRestaurants() {
		var restaurants []response_models.Restaurant
		for _, m := range toObjectList(firstValue(root, "restaurantRecommendations", "restaurants", "dining", "food"), "name") {
			restaurants = append(restaurants, normalizeRestaurant(m))
		}
		out.RestaurantRecommendations = FilterRestaurantsByDiet(restaurants, req.Preferences.DietaryPreference)
	}

	for i, m := range toObjectList(firstValue(root, "dailyCostBreakdown", "dailyCosts", "costBreakdown"), "total") {
		entry := normalizeDailyCost(m, i)
		if day, ok := renumbered(rawDays, out.DayPlans, rawDayNumber(m)); ok {
			entry.Day = day
		}
		out.DailyCostBreakdown = append(out.DailyCostBreakdown, entry)
	}
	if bb, ok := firstValue(root, "budgetBreakdown", "budget").(map[string]any); ok {
		out.BudgetBreakdown = normalizeBudget(bb)
	}

	currency := req.ResolvedCurrency()
	if code := firstString(root, "currency", "currencyCode"); utils.IsKnownCurrency(code) {
		currency = utils.CurrencyForCode(code)
	}
	out.Currency = currency.Code
	out.CurrencySymbol = currency.Symbol

	return out, nil
}

// DeepCoerce walks v and replaces every string that is itself JSON text with
// its decoded value, recursively. Depth is bounded and shared containers are
// visited once per path.
func DeepCoerce(v any) any {
	return deepCoerce(v, 0, map[uintptr]bool{})
}

func deepCoerce(v any, depth int, visiting map[uintptr]bool) any {
	if depth > maxCoerceDepth {
		return v
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if !jsonrepair.LooksLikeJSON(s) {
			return t
		}
		res, err := jsonrepair.Recover(s)
		if err != nil || !wholeText(res) {
			return t
		}
		return deepCoerce(res.Value, depth+1, visiting)
	case map[string]any:
		ptr := reflect.ValueOf(t).Pointer()
		if visiting[ptr] {
			return nil
		}
		visiting[ptr] = true
		defer delete(visiting, ptr)

		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCoerce(val, depth+1, visiting)
		}
		return out
	case []any:
		if len(t) > 0 {
			ptr := reflect.ValueOf(t).Pointer()
			if visiting[ptr] {
				return nil
			}
			visiting[ptr] = true
			defer delete(visiting, ptr)
		}
		out := make([]any, 0, len(t))
		for _, val := range t {
			out = append(out, deepCoerce(val, depth+1, visiting))
		}
		return out
	default:
		return v
	}
}

// wholeText reports whether res decoded a string field in full. Substring
// extraction and bracket repair drop text, which for a field like
// "[1] Visit the fort" would throw the prose away.
func wholeText(res *jsonrepair.Result) bool {
	if res.Strategy != jsonrepair.StrategyStrict && res.Strategy != jsonrepair.StrategyLenient {
		return false
	}
	switch res.Value.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

// toObjectList accepts an array of objects, an array of JSON-text strings, a
// single object or a single string, and returns the same array-of-object
// shape for all of them. Plain prose strings become {fallbackKey: text}.
func toObjectList(v any, fallbackKey string) []map[string]any {
	out := []map[string]any{}
	appendObjects(&out, v, fallbackKey, 0)
	return out
}

func appendObjects(out *[]map[string]any, v any, fallbackKey string, depth int) {
	if depth > maxCoerceDepth {
		return
	}
	switch t := v.(type) {
	case nil:
	case map[string]any:
		*out = append(*out, t)
	case []any:
		for _, el := range t {
			appendObjects(out, el, fallbackKey, depth+1)
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return
		}
		if jsonrepair.LooksLikeJSON(s) {
			if res, err := jsonrepair.Recover(s); err == nil {
				appendObjects(out, DeepCoerce(res.Value), fallbackKey, depth+1)
				return
			}
		}
		*out = append(*out, map[string]any{fallbackKey: s})
	}
}

func normalizeDayPlan(m map[string]any, index int) response_models.DayPlan {
	plan := response_models.DayPlan{
		Day:       rawDayNumber(m),
		Date:      firstString(m, "date"),
		Title:     firstString(m, "title", "theme", "name", "summary"),
		Morning:   []response_models.Activity{},
		Afternoon: []response_models.Activity{},
		Evening:   []response_models.Activity{},
		TotalCost: utils.ParseCost(firstValue(m, "totalCost", "total", "dailyCost", "estimatedCost")),
	}
	if plan.Day <= 0 {
		plan.Day = index + 1
	}

	_, hasSlots := firstPresent(m, "morning", "afternoon", "evening")
	if hasSlots {
		plan.Morning = normalizeActivities(m["morning"])
		plan.Afternoon = normalizeActivities(m["afternoon"])
		plan.Evening = normalizeActivities(m["evening"])
		return plan
	}

	switch acts := firstValue(m, "activities", "schedule").(type) {
	case map[string]any:
		if _, slotted := firstPresent(acts, "morning", "afternoon", "evening"); slotted {
			plan.Morning = normalizeActivities(acts["morning"])
			plan.Afternoon = normalizeActivities(acts["afternoon"])
			plan.Evening = normalizeActivities(acts["evening"])
			return plan
		}
		bucketActivities(&plan, normalizeActivities(acts))
	case nil:
	default:
		bucketActivities(&plan, normalizeActivities(acts))
	}
	return plan
}

func normalizeActivities(v any) []response_models.Activity {
	list := toObjectList(v, "title")
	out := make([]response_models.Activity, 0, len(list))
	for _, m := range list {
		out = append(out, normalizeActivity(m))
	}
	return out
}

func normalizeActivity(m map[string]any) response_models.Activity {
	return response_models.Activity{
		Time:            firstString(m, "time", "startTime", "start_time"),
		Title:           firstString(m, "title", "name", "activity"),
		Description:     firstString(m, "description", "details", "desc"),
		EstimatedCost:   utils.ParseCost(firstValue(m, "estimatedCost", "cost", "price", "estimated_cost")),
		Duration:        firstString(m, "duration"),
		Location:        firstString(m, "location", "address", "place"),
		InsiderTip:      firstString(m, "insiderTip", "tip", "tips", "localTip"),
		BestTimeToVisit: firstString(m, "bestTimeToVisit", "bestTime"),
		BookingRequired: toBoolPtr(firstValue(m, "bookingRequired", "booking_required", "requiresBooking")),
	}
}

// bucketActivities spreads a flat activity list over the three slots by the
// time of day each activity names.
func bucketActivities(plan *response_models.DayPlan, acts []response_models.Activity) {
	for _, a := range acts {
		switch timeSlot(a.Time) {
		case "afternoon":
			plan.Afternoon = append(plan.Afternoon, a)
		case "evening":
			plan.Evening = append(plan.Evening, a)
		default:
			plan.Morning = append(plan.Morning, a)
		}
	}
}

func timeSlot(t string) string {
	lower := strings.ToLower(t)
	switch {
	case strings.Contains(lower, "morning"), strings.Contains(lower, "breakfast"), strings.Contains(lower, "sunrise"):
		return "morning"
	case strings.Contains(lower, "afternoon"), strings.Contains(lower, "lunch"), strings.Contains(lower, "noon"):
		return "afternoon"
	case strings.Contains(lower, "evening"), strings.Contains(lower, "night"), strings.Contains(lower, "dinner"), strings.Contains(lower, "sunset"):
		return "evening"
	}
	match := clockTime.FindStringSubmatch(lower)
	if match == nil {
		return "morning"
	}
	hour, _ := strconv.Atoi(match[1])
	if match[3] == "pm" && hour < 12 {
		hour += 12
	}
	if match[3] == "am" && hour == 12 {
		hour = 0
	}
	switch {
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	default:
		return "evening"
	}
}

// reindexDays renumbers day plans 1..n when the model's numbering is not
// already exactly that, and fills missing dates from the trip start.
func reindexDays(plans []response_models.DayPlan, req *request_models.ItineraryRequest) {
	seen := make(map[int]bool, len(plans))
	sequential := true
	for _, p := range plans {
		if p.Day < 1 || p.Day > len(plans) || seen[p.Day] {
			sequential = false
			break
		}
		seen[p.Day] = true
	}
	start, hasStart := req.Start()
	for i := range plans {
		if !sequential {
			plans[i].Day = i + 1
		}
		if plans[i].Date == "" && hasStart {
			plans[i].Date = start.AddDate(0, 0, plans[i].Day-1).Format(request_models.DateLayout)
		}
	}
}

func rawDayNumber(m map[string]any) int {
	return toInt(firstValue(m, "day", "dayNumber", "day_number"))
}

// renumbered maps a model-supplied day number onto the day plan that carried
// it before reindexDays ran. It fails when that number was missing or shared
// by several plans.
func renumbered(rawDays []int, plans []response_models.DayPlan, raw int) (int, bool) {
	found := -1
	for i, d := range rawDays {
		if d != raw {
			continue
		}
		if found >= 0 {
			return 0, false
		}
		found = i
	}
	if found < 0 {
		return 0, false
	}
	return plans[found].Day, true
}

func normalizeAccommodation(m map[string]any) response_models.Accommodation {
	return response_models.Accommodation{
		Name:          firstString(m, "name", "title", "hotel"),
		Type:          firstString(m, "type", "category"),
		Location:      firstString(m, "location", "address", "area"),
		PriceRange:    firstString(m, "priceRange", "price_range"),
		PricePerNight: utils.ParseCost(firstValue(m, "pricePerNight", "price_per_night", "price", "cost", "estimatedCost")),
		Rating:        parseRating(firstValue(m, "rating", "stars")),
		Amenities:     stringList(firstValue(m, "amenities", "features")),
		BookingTip:    firstString(m, "bookingTip", "tip", "tips"),
	}
}

func normalizeRestaurant(m map[string]any) response_models.Restaurant {
	return response_models.Restaurant{
		Name:           firstString(m, "name", "title", "restaurant"),
		Cuisine:        firstString(m, "cuisine", "cuisineType", "type"),
		Location:       firstString(m, "location", "address", "area"),
		PriceRange:     firstString(m, "priceRange", "price_range"),
		AverageCost:    utils.ParseCost(firstValue(m, "averageCost", "averageCostPerPerson", "costForTwo", "cost", "price")),
		MustTry:        stringList(firstValue(m, "mustTry", "mustTryDishes", "specialties", "dishes")),
		DietaryOptions: tagList(firstValue(m, "dietaryOptions", "dietary", "dietaryTags", "diet")),
		Description:    firstString(m, "description", "details", "desc"),
	}
}

func normalizeTransportation(m map[string]any) response_models.TransportationTip {
	return response_models.TransportationTip{
		Mode:          firstString(m, "mode", "type", "title", "name"),
		Description:   firstString(m, "description", "details", "desc"),
		EstimatedCost: utils.ParseCost(firstValue(m, "estimatedCost", "cost", "price", "fare")),
		Tip:           firstString(m, "tip", "tips", "insiderTip"),
	}
}

func normalizeDailyCost(m map[string]any, index int) response_models.DailyCost {
	day := toInt(firstValue(m, "day", "dayNumber"))
	if day <= 0 {
		day = index + 1
	}
	return response_models.DailyCost{
		Day:            day,
		Accommodation:  utils.ParseCost(firstValue(m, "accommodation", "stay", "lodging", "hotel")),
		Food:           utils.ParseCost(firstValue(m, "food", "meals", "dining")),
		Activities:     utils.ParseCost(firstValue(m, "activities", "sightseeing", "entertainment")),
		Transportation: utils.ParseCost(firstValue(m, "transportation", "transport", "travel")),
		Miscellaneous:  utils.ParseCost(firstValue(m, "miscellaneous", "misc", "other", "shopping")),
		Total:          utils.ParseCost(firstValue(m, "total", "totalCost")),
	}
}

func normalizeBudget(m map[string]any) response_models.BudgetBreakdown {
	return response_models.BudgetBreakdown{
		Accommodation:  utils.ParseCost(firstValue(m, "accommodation", "stay", "lodging")),
		Food:           utils.ParseCost(firstValue(m, "food", "meals", "dining")),
		Activities:     utils.ParseCost(firstValue(m, "activities", "sightseeing")),
		Transportation: utils.ParseCost(firstValue(m, "transportation", "transport")),
		Miscellaneous:  utils.ParseCost(firstValue(m, "miscellaneous", "misc", "other")),
		Total:          utils.ParseCost(firstValue(m, "total", "totalCost")),
	}
}

// FilterRestaurantsByDiet keeps the restaurants whose dietary tags match the
// preference. Tags and preference are compared lowercased with spaces,
// hyphens and underscores removed; "non-" tags never match. An empty or
// permissive preference returns the list unchanged.
func FilterRestaurantsByDiet(restaurants []response_models.Restaurant, preference string) []response_models.Restaurant {
	out := make([]response_models.Restaurant, 0, len(restaurants))
	if isNoDietFilter(preference) {
		return append(out, restaurants...)
	}
	want := canonicalDiet(preference)
	for _, r := range restaurants {
		for _, tag := range r.DietaryOptions {
			t := canonicalDiet(tag)
			if strings.HasPrefix(t, "non") {
				continue
			}
			if strings.Contains(t, want) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func isNoDietFilter(preference string) bool {
	return noDietFilter[normalizeDietTag(preference)]
}

func normalizeDietTag(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

func canonicalDiet(s string) string {
	n := normalizeDietTag(s)
	if alias, ok := dietAliases[n]; ok {
		return alias
	}
	return n
}

func firstPresent(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return k, true
		}
	}
	return "", false
}

func firstValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// firstString returns the first key holding a usable scalar, as text.
// Objects such as {"name": ..., "address": ...} resolve to their name.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := scalarText(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func scalarText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		return firstString(t, "name", "title", "address", "text", "value")
	case []any:
		parts := stringList(t)
		return strings.Join(parts, ", ")
	}
	return ""
}

// stringList accepts an array of strings or objects, or a single string,
// and returns non-empty trimmed strings. Never nil.
func stringList(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, el := range t {
			if s := scalarText(el); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, line := range strings.Split(t, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•"))
			if line != "" {
				out = append(out, line)
			}
		}
	case map[string]any:
		if s := scalarText(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// tagList is stringList that also splits comma separated tag strings.
func tagList(v any) []string {
	out := []string{}
	for _, s := range stringList(v) {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func toInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		if m := firstNumber.FindString(t); m != "" {
			f, _ := strconv.ParseFloat(m, 64)
			return int(f)
		}
	}
	return 0
}

// parseRating reads the first number, so "4.5/5" is 4.5 rather than 5.
func parseRating(v any) float64 {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0
		}
		return t
	case string:
		if m := firstNumber.FindString(t); m != "" {
			f, _ := strconv.ParseFloat(m, 64)
			return f
		}
	}
	return 0
}

func toBoolPtr(v any) *bool {
	var b bool
	switch t := v.(type) {
	case bool:
		b = t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "true", "required", "y":
			b = true
		case "no", "false", "not required", "n":
			b = false
		default:
			return nil
		}
	default:
		return nil
	}
	return &b
}

func kindOf(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return reflect.TypeOf(v).String()
}
