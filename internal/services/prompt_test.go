package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulina2004/ai-personal-budget-optimizer/internal/models"
)

func TestBuildAnalysisPrompt(t *testing.T) {
	input := models.BudgetInput{
		Income: 5000,
		FixedExpenses: []models.ExpenseItem{
			{Category: "Rent", Amount: 1200},
			{Category: "Utilities", Amount: 200.5},
		},
		Goals: []models.GoalItem{
			{Category: "Emergency Fund", TargetPercent: 15},
		},
	}

	prompt := BuildAnalysisPrompt(input, 1400.5, 3599.5)

	assert.Contains(t, prompt, "Monthly income: 5000.00")
	assert.Contains(t, prompt, "Total fixed expenses: 1400.50")
	assert.Contains(t, prompt, "Remaining income: 3599.50")
	assert.Contains(t, prompt, "- Rent: 1200.00")
	assert.Contains(t, prompt, "- Utilities: 200.50")
	assert.Contains(t, prompt, "- Emergency Fund: 15.0% of income (750.00)")

	// The response contract must be spelled out for the model
	assert.Contains(t, prompt, "\"budgetPlan\"")
	assert.Contains(t, prompt, "\"insights\"")
	assert.Contains(t, prompt, "\"warnings\"")
	assert.Contains(t, prompt, "\"summary\"")
	assert.Contains(t, prompt, "single JSON object")
	assert.Contains(t, prompt, "no markdown code fences")
	assert.Contains(t, prompt, "must add up to the remaining income (3599.50)")
}

func TestBuildAnalysisPrompt_EmptySections(t *testing.T) {
	prompt := BuildAnalysisPrompt(models.BudgetInput{Income: 1000}, 0, 1000)

	require.Contains(t, prompt, "=== FIXED EXPENSES ===")
	require.Contains(t, prompt, "=== SAVINGS GOALS ===")
	assert.Equal(t, 2, strings.Count(prompt, "(none)"))
}

func TestBuildAnalysisPrompt_Deterministic(t *testing.T) {
	input := models.BudgetInput{
		Income:        3200,
		FixedExpenses: []models.ExpenseItem{{Category: "Rent", Amount: 950}},
		Goals:         []models.GoalItem{{Category: "Travel", TargetPercent: 5}},
	}

	first := BuildAnalysisPrompt(input, 950, 2250)
	second := BuildAnalysisPrompt(input, 950, 2250)

	assert.Equal(t, first, second)
}
