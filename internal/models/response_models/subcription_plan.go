package response_models

import (
	"github.com/google/uuid"
)

type SubscriptionPlan struct {
	ID                 uuid.UUID `json:"id"`
	Code               string    `json:"code"` // e.g. "free", "explorer", "nomad"
	Name               string    `json:"name"`
	Period             string    `json:"period"` // "month" | "year"
	MonthlyGenerations int       `json:"monthly_generations"`
	Unlimited          bool      `json:"unlimited"`
}
