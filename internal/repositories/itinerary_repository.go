package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"wanderplan/internal/models/db_models"
)

type ItineraryRepository interface {
	Create(ctx context.Context, itinerary *db_models.Itinerary) error
	Save(ctx context.Context, itinerary *db_models.Itinerary) error
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Itinerary, error)
	GetByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*db_models.Itinerary, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]db_models.Itinerary, int64, error)
}

type itineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) ItineraryRepository {
	return &itineraryRepository{db: db}
}

func (r *itineraryRepository) Create(ctx context.Context, itinerary *db_models.Itinerary) error {
	return r.db.WithContext(ctx).Create(itinerary).Error
}

// Save writes the whole row back, including zero values.
func (r *itineraryRepository) Save(ctx context.Context, itinerary *db_models.Itinerary) error {
	return r.db.WithContext(ctx).Save(itinerary).Error
}

func (r *itineraryRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Itinerary, error) {
	var itinerary db_models.Itinerary
	err := r.db.WithContext(ctx).First(&itinerary, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &itinerary, nil
}

func (r *itineraryRepository) GetByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*db_models.Itinerary, error) {
	var itinerary db_models.Itinerary
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&itinerary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &itinerary, nil
}

func (r *itineraryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]db_models.Itinerary, int64, error) {
	var (
		items []db_models.Itinerary
		total int64
	)

	q := r.db.WithContext(ctx).Model(&db_models.Itinerary{}).Where("owner_id = ?", ownerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// the list view does not need the jsonb bodies
	err := q.Select("id", "created_at", "updated_at", "owner_id", "status", "title", "origin",
		"destinations", "start_date", "end_date", "duration_days", "currency", "edited_at").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
