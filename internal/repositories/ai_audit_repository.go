package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"wanderplan/internal/models/db_models"
)

type AIAuditRepository interface {
	Create(ctx context.Context, entry *db_models.AIAuditLog) error
	// CountSuccessfulSince counts successful invocations of the given
	// operations by owner with created_at >= since (unix seconds).
	CountSuccessfulSince(ctx context.Context, ownerID uuid.UUID, since int64, ops ...db_models.AIOperation) (int64, error)
	ListByItinerary(ctx context.Context, itineraryID uuid.UUID) ([]db_models.AIAuditLog, error)
}

type aiAuditRepository struct {
	db *gorm.DB
}

func NewAIAuditRepository(db *gorm.DB) AIAuditRepository {
	return &aiAuditRepository{db: db}
}

func (r *aiAuditRepository) Create(ctx context.Context, entry *db_models.AIAuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *aiAuditRepository) CountSuccessfulSince(ctx context.Context, ownerID uuid.UUID, since int64, ops ...db_models.AIOperation) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&db_models.AIAuditLog{}).
		Where("owner_id = ? AND status = ? AND created_at >= ?", ownerID, db_models.AIAuditSuccess, since)
	if len(ops) > 0 {
		q = q.Where("operation IN ?", ops)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *aiAuditRepository) ListByItinerary(ctx context.Context, itineraryID uuid.UUID) ([]db_models.AIAuditLog, error) {
	var entries []db_models.AIAuditLog
	err := r.db.WithContext(ctx).
		Where("itinerary_id = ?", itineraryID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
