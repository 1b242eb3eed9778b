package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dulina2004/ai-personal-budget-optimizer/internal/models"
)

// BuildAnalysisPrompt renders the budget snapshot into the instruction text
// sent to the text-generation provider. Same input, same prompt: the output
// feeds a cache keyed on the budget data.
func BuildAnalysisPrompt(input models.BudgetInput, totalFixed, remaining float64) string {
	var sb strings.Builder

	sb.WriteString("You are a personal finance advisor. Based on the monthly budget below, ")
	sb.WriteString("recommend how to allocate the remaining income across spending and saving categories.\n\n")

	sb.WriteString("=== FINANCIAL SUMMARY ===\n\n")
	sb.WriteString(fmt.Sprintf("Monthly income: %s\n", money(input.Income)))
	sb.WriteString(fmt.Sprintf("Total fixed expenses: %s\n", money(totalFixed)))
	sb.WriteString(fmt.Sprintf("Remaining income: %s\n\n", money(remaining)))

	sb.WriteString("=== FIXED EXPENSES ===\n\n")
	if len(input.FixedExpenses) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, expense := range input.FixedExpenses {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", expense.Category, money(expense.Amount)))
	}
	sb.WriteString("\n")

	sb.WriteString("=== SAVINGS GOALS ===\n\n")
	if len(input.Goals) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, goal := range input.Goals {
		sb.WriteString(fmt.Sprintf("- %s: %.1f%% of income (%s)\n",
			goal.Category, goal.TargetPercent, money(goal.TargetPercent/100*input.Income)))
	}
	sb.WriteString("\n")

	sb.WriteString("=== RESPONSE FORMAT ===\n\n")
	sb.WriteString("Respond with a single JSON object and nothing else. No prose before or after, no markdown code fences.\n\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"budgetPlan\": [\n")
	sb.WriteString("    {\"category\": \"Groceries\", \"amount\": 400.0, \"percent\": 8.0, \"reasoning\": \"...\"}\n")
	sb.WriteString("  ],\n")
	sb.WriteString("  \"insights\": [\"...\"],\n")
	sb.WriteString("  \"warnings\": [\"...\"],\n")
	sb.WriteString("  \"summary\": \"...\"\n")
	sb.WriteString("}\n\n")
	sb.WriteString(fmt.Sprintf("The budgetPlan amounts must add up to the remaining income (%s). ", money(remaining)))
	sb.WriteString("Percent values are relative to monthly income. Keep each reasoning to one sentence.\n")

	return sb.String()
}

func money(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
