package controllers

import (
	"github.com/gin-gonic/gin"
	"wanderplan/internal/services"
	"wanderplan/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
}

func NewPlanController(planService services.PlanServiceInterface) *PlanController {
	return &PlanController{
		planService: planService,
	}
}

// ListPlans godoc
// @Summary List subscription plans
// @Description Active plans and how many itineraries each allows per month
// @Tags Plan
// @Produce json
// @Success 200 {array} response_models.SubscriptionPlan
// @Router /plans [get]
func (p *PlanController) ListPlans(c *gin.Context) {
	plans, err := p.planService.GetPlans(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Plans fetched successfully")
}

// GetPlan godoc
// @Summary Get a plan by code
// @Tags Plan
// @Produce json
// @Param code path string true "Plan code"
// @Success 200 {object} response_models.SubscriptionPlan
// @Failure 404 {object} utils.APIResponse
// @Router /plans/{code} [get]
func (p *PlanController) GetPlan(c *gin.Context) {
	plan, err := p.planService.GetPlanByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan fetched successfully")
}
