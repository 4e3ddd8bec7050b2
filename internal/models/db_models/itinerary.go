package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type ItineraryStatus string

const (
	ItineraryStatusGenerating ItineraryStatus = "generating"
	ItineraryStatusCompleted  ItineraryStatus = "completed"
	ItineraryStatusFailed     ItineraryStatus = "failed"
	ItineraryStatusEdited     ItineraryStatus = "edited"
)

// Itinerary is the durable record of one generated trip plan.
type Itinerary struct {
	BaseModel
	OwnerID      uuid.UUID       `gorm:"type:uuid;index"`
	Status       ItineraryStatus `gorm:"size:16;index"`
	Title        string
	Origin       string
	Destinations pq.StringArray `gorm:"type:text[]"`
	StartDate    string         `gorm:"size:10"` // YYYY-MM-DD, empty when only a duration was given
	EndDate      string         `gorm:"size:10"`
	DurationDays int
	Currency     string `gorm:"size:3"`

	// Request is the ItineraryRequest snapshot; Body is the NormalizedItinerary.
	Request datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Body    datatypes.JSON `gorm:"type:jsonb"`

	ErrorMessage string
	EditedAt     *int64
}
