package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"wanderplan/internal/models/db_models"
)

type ISubscriptionRepository interface {
	// GetActiveSubscription returns the owner's subscription covering now,
	// with its plan, or nil when there is none.
	GetActiveSubscription(ctx context.Context, ownerID uuid.UUID, now int64) (*db_models.Subscription, error)
}

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) ISubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (s SubscriptionRepository) GetActiveSubscription(ctx context.Context, ownerID uuid.UUID, now int64) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := s.db.WithContext(ctx).
		Preload("Plan").
		Where("owner_id = ? AND status IN ? AND starts_at <= ? AND ends_at > ?",
			ownerID, []db_models.SubscriptionStatus{db_models.SubStatusActive, db_models.SubStatusTrialing}, now, now).
		Order("ends_at DESC").
		First(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}
