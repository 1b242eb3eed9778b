package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulina2004/ai-personal-budget-optimizer/internal/models"
)

func TestValidate_AcceptsWellFormedInput(t *testing.T) {
	v := NewValidator()

	input := models.BudgetInput{
		Income: 5000,
		FixedExpenses: []models.ExpenseItem{
			{Category: "Rent", Amount: 1200},
		},
		Goals: []models.GoalItem{
			{Category: "Savings", TargetPercent: 15},
		},
	}

	assert.Nil(t, v.Validate(input))
}

func TestValidate_RejectsBadInput(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		input     models.BudgetInput
		wantField string
		wantMsg   string
	}{
		{
			name:      "zero income",
			input:     models.BudgetInput{Income: 0},
			wantField: "income",
			wantMsg:   "is required",
		},
		{
			name:      "negative income",
			input:     models.BudgetInput{Income: -100},
			wantField: "income",
			wantMsg:   "must be greater than 0",
		},
		{
			name: "blank expense category",
			input: models.BudgetInput{
				Income:        1000,
				FixedExpenses: []models.ExpenseItem{{Category: "   ", Amount: 10}},
			},
			wantField: "category",
			wantMsg:   "must not be blank",
		},
		{
			name: "negative expense amount",
			input: models.BudgetInput{
				Income:        1000,
				FixedExpenses: []models.ExpenseItem{{Category: "Rent", Amount: -5}},
			},
			wantField: "amount",
			wantMsg:   "must be greater than or equal to 0",
		},
		{
			name: "goal percent above 100",
			input: models.BudgetInput{
				Income: 1000,
				Goals:  []models.GoalItem{{Category: "Savings", TargetPercent: 120}},
			},
			wantField: "targetPercent",
			wantMsg:   "must be less than or equal to 100",
		},
		{
			name: "missing goal category",
			input: models.BudgetInput{
				Income: 1000,
				Goals:  []models.GoalItem{{TargetPercent: 10}},
			},
			wantField: "category",
			wantMsg:   "is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fieldErrors := v.Validate(tt.input)

			require.NotNil(t, fieldErrors)
			require.Contains(t, fieldErrors, tt.wantField)
			assert.Equal(t, tt.wantMsg, fieldErrors[tt.wantField])
		})
	}
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	fieldErrors := v.Validate(models.BudgetInput{Income: -1})

	require.NotNil(t, fieldErrors)
	assert.Contains(t, fieldErrors, "income", "messages are keyed by json tag, not Go field name")
	assert.NotContains(t, fieldErrors, "Income")
}

func TestValidate_TooManyExpenseItems(t *testing.T) {
	v := NewValidator()

	input := models.BudgetInput{Income: 1000}
	for i := 0; i < 101; i++ {
		input.FixedExpenses = append(input.FixedExpenses, models.ExpenseItem{Category: "x", Amount: 1})
	}

	fieldErrors := v.Validate(input)

	require.NotNil(t, fieldErrors)
	assert.Contains(t, fieldErrors["fixedExpenses"], "at most 100 items")
}
