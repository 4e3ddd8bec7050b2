package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubStatusTrialing SubscriptionStatus = "trialing"
	SubStatusActive   SubscriptionStatus = "active"
	SubStatusCanceled SubscriptionStatus = "canceled"
	SubStatusExpired  SubscriptionStatus = "expired"
)

// Subscription ties an owner to a plan for [StartsAt, EndsAt) (unix seconds).
type Subscription struct {
	BaseModel
	OwnerID uuid.UUID `gorm:"type:uuid;index"`
	PlanID  uuid.UUID `gorm:"type:uuid;index"`

	Status     SubscriptionStatus `gorm:"size:16;index"`
	StartsAt   int64              `gorm:"not null"`
	EndsAt     int64              `gorm:"not null"`
	CanceledAt *int64

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Plan Plan `gorm:"foreignKey:PlanID"`
}
