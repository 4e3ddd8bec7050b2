package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"wanderplan/internal/models/db_models"
	"wanderplan/internal/repositories"
	"wanderplan/pkg/utils"
)

type QuotaServiceInterface interface {
	// EnsureAvailable returns ErrQuotaExceeded when the owner has used up this
	// month's generations.
	EnsureAvailable(ctx context.Context, ownerID uuid.UUID) error
	// Remaining is the number of generations left this month, or -1 when unlimited.
	Remaining(ctx context.Context, ownerID uuid.UUID) (int, error)
}

// QuotaService reads usage from the audit log on every call: a successful
// audited generation is what consumes quota.
type QuotaService struct {
	subRepo   repositories.ISubscriptionRepository
	auditRepo repositories.AIAuditRepository
	freeTier  int
	now       func() time.Time
}

func NewQuotaService(
	subRepo repositories.ISubscriptionRepository,
	auditRepo repositories.AIAuditRepository,
	freeTierMonthly int,
) QuotaServiceInterface {
	return &QuotaService{
		subRepo:   subRepo,
		auditRepo: auditRepo,
		freeTier:  freeTierMonthly,
		now:       time.Now,
	}
}

func (q *QuotaService) EnsureAvailable(ctx context.Context, ownerID uuid.UUID) error {
	left, err := q.Remaining(ctx, ownerID)
	if err != nil {
		return err
	}
	if left == 0 {
		return utils.ErrQuotaExceeded
	}
	return nil
}

func (q *QuotaService) Remaining(ctx context.Context, ownerID uuid.UUID) (int, error) {
	now := q.now().UTC()

	limit := q.freeTier
	sub, err := q.subRepo.GetActiveSubscription(ctx, ownerID, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if sub != nil {
		limit = sub.Plan.MonthlyGenerations
		if limit == 0 {
			return -1, nil
		}
	}
	if limit < 0 {
		return -1, nil
	}

	used, err := q.auditRepo.CountSuccessfulSince(ctx, ownerID, utils.StartOfMonthUTC(now).Unix(),
		db_models.AIOperationGenerate, db_models.AIOperationRegenerateDay)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	if left := limit - int(used); left > 0 {
		return left, nil
	}
	return 0, nil
}
