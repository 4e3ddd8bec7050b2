package services

import (
	"log"
	"math"

	"wanderplan/internal/models/response_models"
	"wanderplan/pkg/utils"
)

// ReconcileCosts makes the daily cost breakdown authoritative. Each entry's
// total becomes the sum of its categories, day-plan totals are overwritten by
// day index, and the budget breakdown and grand total are recomputed as sums.
// Only when there is no breakdown at all does the model's grand total stand.
// The itinerary is modified in place and returned.
func ReconcileCosts(it *response_models.NormalizedItinerary) *response_models.NormalizedItinerary {
	if it == nil {
		return nil
	}

	if len(it.DailyCostBreakdown) == 0 {
		if it.TotalEstimatedCost <= 0 {
			var sum float64
			for _, d := range it.DayPlans {
				sum += d.TotalCost
			}
			it.TotalEstimatedCost = utils.RoundMoney(sum)
		}
		it.BudgetBreakdown = response_models.BudgetBreakdown{Total: it.TotalEstimatedCost}
		return it
	}

	var budget response_models.BudgetBreakdown
	byDay := make(map[int]float64, len(it.DailyCostBreakdown))
	for i := range it.DailyCostBreakdown {
		entry := &it.DailyCostBreakdown[i]
		parts := entry.Accommodation + entry.Food + entry.Activities + entry.Transportation + entry.Miscellaneous
		if parts > 0 {
			entry.Total = utils.RoundMoney(parts)
		}

		budget.Accommodation += entry.Accommodation
		budget.Food += entry.Food
		budget.Activities += entry.Activities
		budget.Transportation += entry.Transportation
		budget.Miscellaneous += entry.Miscellaneous
		budget.Total += entry.Total
		byDay[entry.Day] += entry.Total
	}

	for i := range it.DayPlans {
		if total, ok := byDay[it.DayPlans[i].Day]; ok {
			it.DayPlans[i].TotalCost = utils.RoundMoney(total)
		}
	}

	budget.Accommodation = utils.RoundMoney(budget.Accommodation)
	budget.Food = utils.RoundMoney(budget.Food)
	budget.Activities = utils.RoundMoney(budget.Activities)
	budget.Transportation = utils.RoundMoney(budget.Transportation)
	budget.Miscellaneous = utils.RoundMoney(budget.Miscellaneous)
	budget.Total = utils.RoundMoney(budget.Total)

	if it.TotalEstimatedCost > 0 && math.Abs(it.TotalEstimatedCost-budget.Total) >= 1 {
		log.Printf("cost reconciliation: model total %.2f replaced by breakdown total %.2f", it.TotalEstimatedCost, budget.Total)
	}
	it.BudgetBreakdown = budget
	it.TotalEstimatedCost = budget.Total
	return it
}
