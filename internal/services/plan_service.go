package services

import (
	"context"
	"fmt"
	"strings"

	"wanderplan/internal/models/db_models"
	"wanderplan/internal/models/response_models"
	"wanderplan/internal/repositories"
	"wanderplan/pkg/utils"
)

type PlanServiceInterface interface {
	GetPlans(ctx context.Context) ([]response_models.SubscriptionPlan, error)
	GetPlanByCode(ctx context.Context, code string) (response_models.SubscriptionPlan, error)
}

func NewPlanService(planRepo repositories.IPlanRepository) PlanServiceInterface {
	return &PlanService{
		planRepo: planRepo,
	}
}

type PlanService struct {
	planRepo repositories.IPlanRepository
}

func (p *PlanService) GetPlans(ctx context.Context) ([]response_models.SubscriptionPlan, error) {
	plans, err := p.planRepo.GetActivePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	result := make([]response_models.SubscriptionPlan, 0, len(plans))
	for i := range plans {
		result = append(result, toSubscriptionPlan(&plans[i]))
	}
	return result, nil
}

func (p *PlanService) GetPlanByCode(ctx context.Context, code string) (response_models.SubscriptionPlan, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return response_models.SubscriptionPlan{}, fmt.Errorf("%w: plan code is required", utils.ErrInvalidInput)
	}

	plan, err := p.planRepo.GetPlanByCode(ctx, code)
	if err != nil {
		return response_models.SubscriptionPlan{}, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if plan == nil {
		return response_models.SubscriptionPlan{}, utils.ErrPlanNotFound
	}
	return toSubscriptionPlan(plan), nil
}

func toSubscriptionPlan(plan *db_models.Plan) response_models.SubscriptionPlan {
	return response_models.SubscriptionPlan{
		ID:                 plan.ID,
		Code:               plan.Code,
		Name:               plan.Name,
		Period:             string(plan.Period),
		MonthlyGenerations: plan.MonthlyGenerations,
		Unlimited:          plan.MonthlyGenerations == 0,
	}
}
