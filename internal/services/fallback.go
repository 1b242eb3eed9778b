package services

import (
	"fmt"

	"github.com/dulina2004/ai-personal-budget-optimizer/internal/models"
)

// FallbackRecommendation builds a locally computed recommendation when the
// text-generation call fails or returns unusable output. It is total: any
// remaining income, including negative, yields a fully structured result.
func FallbackRecommendation(data models.BudgetData, cause error) *models.Recommendation {
	remaining := data.RemainingIncome

	rec := &models.Recommendation{
		BudgetPlan: []models.PlanEntry{},
		Insights: []string{
			"AI-powered recommendations are temporarily unavailable, so this plan was generated locally.",
			fmt.Sprintf("Your remaining income after fixed expenses is %s.", money(remaining)),
		},
		Warnings: []string{},
	}

	if remaining > 0 {
		savings := remaining * 0.20
		discretionary := remaining * 0.80
		rec.BudgetPlan = []models.PlanEntry{
			{
				Category:  "Emergency Savings",
				Amount:    savings,
				Percent:   percentOfIncome(savings, data.Input.Income),
				Reasoning: "Setting aside 20% of remaining income builds a safety net for unexpected costs.",
			},
			{
				Category:  "Discretionary",
				Amount:    discretionary,
				Percent:   percentOfIncome(discretionary, data.Input.Income),
				Reasoning: "The remaining 80% covers day-to-day spending at your discretion.",
			},
		}
		rec.Insights = append(rec.Insights,
			"Consider growing your emergency fund until it covers three to six months of fixed expenses.")
		rec.Summary = "A basic allocation of your remaining income, generated without AI assistance."
	} else {
		rec.Insights = append(rec.Insights,
			"Reducing fixed expenses or increasing income would free up room in your budget.")
		rec.Summary = "Your fixed expenses leave no income to allocate this month."
	}

	if cause != nil {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("Recommendation service unavailable: %v.", cause))
	} else {
		rec.Warnings = append(rec.Warnings, "Recommendation service unavailable.")
	}
	if remaining < 0 {
		rec.Warnings = append(rec.Warnings,
			fmt.Sprintf("Your fixed expenses exceed your income by %s.", money(-remaining)))
	}

	return rec
}
