package response_models

// NormalizedItinerary is the canonical, strictly typed itinerary produced
// from a model response. Every list is non-nil and every money field is a
// plain non-negative number.
type NormalizedItinerary struct {
	DayPlans                  []DayPlan           `json:"dayPlans"`
	AccommodationSuggestions  []Accommodation     `json:"accommodationSuggestions"`
	TransportationTips        []TransportationTip `json:"transportationTips"`
	RestaurantRecommendations []Restaurant        `json:"restaurantRecommendations"`
	GeneralTips               []string            `json:"generalTips"`
	PackingList               []string            `json:"packingList"`
	DailyCostBreakdown        []DailyCost         `json:"dailyCostBreakdown"`
	BudgetBreakdown           BudgetBreakdown     `json:"budgetBreakdown"`
	TotalEstimatedCost        float64             `json:"totalEstimatedCost"`
	WeatherForecast           []WeatherSummary    `json:"weatherForecast"`
	Currency                  string              `json:"currency"`
	CurrencySymbol            string              `json:"currencySymbol"`
}

type DayPlan struct {
	Day       int        `json:"day"`
	Date      string     `json:"date,omitempty"`
	Title     string     `json:"title"`
	Morning   []Activity `json:"morning"`
	Afternoon []Activity `json:"afternoon"`
	Evening   []Activity `json:"evening"`
	TotalCost float64    `json:"totalCost"`
}

type Activity struct {
	Time            string  `json:"time"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	EstimatedCost   float64 `json:"estimatedCost"`
	Duration        string  `json:"duration"`
	Location        string  `json:"location"`
	InsiderTip      string  `json:"insiderTip"`
	BestTimeToVisit string  `json:"bestTimeToVisit"`
	BookingRequired *bool   `json:"bookingRequired,omitempty"`
}

type Accommodation struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Location      string   `json:"location"`
	PriceRange    string   `json:"priceRange"`
	PricePerNight float64  `json:"pricePerNight"`
	Rating        float64  `json:"rating"`
	Amenities     []string `json:"amenities"`
	BookingTip    string   `json:"bookingTip"`
}

type Restaurant struct {
	Name           string   `json:"name"`
	Cuisine        string   `json:"cuisine"`
	Location       string   `json:"location"`
	PriceRange     string   `json:"priceRange"`
	AverageCost    float64  `json:"averageCost"`
	MustTry        []string `json:"mustTry"`
	DietaryOptions []string `json:"dietaryOptions"`
	Description    string   `json:"description"`
}

type TransportationTip struct {
	Mode          string  `json:"mode"`
	Description   string  `json:"description"`
	EstimatedCost float64 `json:"estimatedCost"`
	Tip           string  `json:"tip"`
}

type DailyCost struct {
	Day            int     `json:"day"`
	Accommodation  float64 `json:"accommodation"`
	Food           float64 `json:"food"`
	Activities     float64 `json:"activities"`
	Transportation float64 `json:"transportation"`
	Miscellaneous  float64 `json:"miscellaneous"`
	Total          float64 `json:"total"`
}

type BudgetBreakdown struct {
	Accommodation  float64 `json:"accommodation"`
	Food           float64 `json:"food"`
	Activities     float64 `json:"activities"`
	Transportation float64 `json:"transportation"`
	Miscellaneous  float64 `json:"miscellaneous"`
	Total          float64 `json:"total"`
}

type WeatherSource string

const (
	WeatherSourceForecast    WeatherSource = "forecast"
	WeatherSourceSeasonal    WeatherSource = "seasonal_estimate"
	WeatherSourceUnavailable WeatherSource = "unavailable"
)

type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// WeatherSummary is one location's weather for the trip window. Summary is
// nil, and serialized as null, when no data could be obtained at all.
type WeatherSummary struct {
	Location    string            `json:"location"`
	Coordinates *Coordinates      `json:"coordinates"`
	StartDate   string            `json:"startDate"`
	EndDate     string            `json:"endDate"`
	Source      WeatherSource     `json:"source"`
	Summary     *WeatherAggregate `json:"summary"`
}

type WeatherAggregate struct {
	MinTemperature              float64  `json:"minTemperature"`
	MaxTemperature              float64  `json:"maxTemperature"`
	AvgMinTemperature           float64  `json:"avgMinTemperature"`
	AvgMaxTemperature           float64  `json:"avgMaxTemperature"`
	AvgTemperature              float64  `json:"avgTemperature"`
	DominantCondition           string   `json:"dominantCondition"`
	AvgPrecipitationProbability float64  `json:"avgPrecipitationProbability"`
	AvgHumidity                 float64  `json:"avgHumidity"`
	AvgWindSpeed                float64  `json:"avgWindSpeed"`
	Recommendations             []string `json:"recommendations"`
	Icon                        string   `json:"icon"`
	ForecastDays                int      `json:"forecastDays"`
}

// ItineraryResponse is what the API returns for a stored itinerary.
type ItineraryResponse struct {
	ID           string               `json:"id"`
	Status       string               `json:"status"`
	Title        string               `json:"title"`
	Origin       string               `json:"origin"`
	Destinations []string             `json:"destinations"`
	StartDate    string               `json:"startDate,omitempty"`
	EndDate      string               `json:"endDate,omitempty"`
	DurationDays int                  `json:"durationDays"`
	Itinerary    *NormalizedItinerary `json:"itinerary,omitempty"`
	ErrorMessage string               `json:"errorMessage,omitempty"`
	EditedAt     string               `json:"editedAt,omitempty"`
	CreatedAt    string               `json:"createdAt"`
}

type ItinerarySummaryResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	Destinations []string `json:"destinations"`
	DurationDays int      `json:"durationDays"`
	CreatedAt    string   `json:"createdAt"`
}

type ItineraryListResponse struct {
	Items    []ItinerarySummaryResponse `json:"items"`
	Page     int                        `json:"page"`
	PageSize int                        `json:"pageSize"`
	Total    int64                      `json:"total"`
}
