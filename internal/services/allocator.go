package services

import (
	"github.com/dulina2004/ai-personal-budget-optimizer/internal/models"
)

// DiscretionaryCategory names the synthetic allocation appended after the
// per-goal allocations of every feasible result.
const DiscretionaryCategory = "Discretionary Spending"

// feasibilityEpsilon absorbs floating-point accumulation noise so a budget
// sitting exactly on the line is not reported as infeasible.
const feasibilityEpsilon = 1e-9

// Allocate computes the monthly budget split for a pre-validated input.
// It is pure and deterministic: no I/O, no randomness, and identical
// inputs produce deeply-equal results. Infeasibility is a modeled outcome,
// never an error.
func Allocate(input models.BudgetInput) models.BudgetResult {
	totalFixed := 0.0
	for _, expense := range input.FixedExpenses {
		totalFixed += expense.Amount
	}
	remaining := input.Income - totalFixed

	result := models.BudgetResult{
		Income:             input.Income,
		TotalFixedExpenses: totalFixed,
		RemainingIncome:    remaining,
		FixedExpenses:      append([]models.ExpenseItem{}, input.FixedExpenses...),
		Allocations:        []models.Allocation{},
	}

	if remaining < -feasibilityEpsilon {
		// Clamped for display; BudgetData keeps the raw figure.
		result.Reason = models.ExpensesExceedIncome
		result.RemainingIncome = 0
		return result
	}

	allocations := make([]models.Allocation, 0, len(input.Goals)+1)
	totalGoalAmount := 0.0
	totalGoalPercent := 0.0
	for _, goal := range input.Goals {
		amount := goal.TargetPercent / 100 * input.Income
		allocations = append(allocations, models.Allocation{
			Category: goal.Category,
			Amount:   amount,
			Percent:  percentOfIncome(amount, input.Income),
		})
		totalGoalAmount += amount
		totalGoalPercent += goal.TargetPercent
	}
	result.Allocations = allocations
	result.TotalGoalAmount = totalGoalAmount
	result.TotalGoalPercent = totalGoalPercent

	if totalGoalAmount > remaining+feasibilityEpsilon {
		result.Reason = models.GoalsExceedRemaining
		return result
	}

	discretionary := remaining - totalGoalAmount
	if discretionary < 0 {
		discretionary = 0
	}
	result.Feasible = true
	result.DiscretionaryAmount = discretionary
	result.DiscretionaryPercent = percentOfIncome(discretionary, input.Income)
	result.Allocations = append(allocations, models.Allocation{
		Category: DiscretionaryCategory,
		Amount:   discretionary,
		Percent:  result.DiscretionaryPercent,
	})

	return result
}

func percentOfIncome(amount, income float64) float64 {
	if income == 0 {
		return 0
	}
	return amount / income * 100
}
