package models

// ExpenseItem represents a single fixed monthly cost entered by the user
type ExpenseItem struct {
	Category string  `json:"category" validate:"required,notblank"`
	Amount   float64 `json:"amount" validate:"gte=0"`
}

// GoalItem represents a savings/spending goal as a share of gross income
type GoalItem struct {
	Category      string  `json:"category" validate:"required,notblank"`
	TargetPercent float64 `json:"targetPercent" validate:"gte=0,lte=100"`
}

// BudgetInput is the full user submission for one budget computation.
// It is constructed fresh per submission and never mutated afterwards.
type BudgetInput struct {
	Income        float64       `json:"income" validate:"required,gt=0"`
	FixedExpenses []ExpenseItem `json:"fixedExpenses" validate:"max=100,dive"`
	Goals         []GoalItem    `json:"goals" validate:"max=100,dive"`
}

// Allocation is one line of the computed plan. Percent is always derived
// from amount/income, never stored independently.
type Allocation struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Percent  float64 `json:"percent"`
}

// InfeasibilityReason explains why a budget cannot be satisfied as stated
type InfeasibilityReason string

const (
	// ExpensesExceedIncome: fixed expenses alone are larger than income
	ExpensesExceedIncome InfeasibilityReason = "EXPENSES_EXCEED_INCOME"
	// GoalsExceedRemaining: goal amounts do not fit into income left after
	// fixed expenses
	GoalsExceedRemaining InfeasibilityReason = "GOALS_EXCEED_REMAINING"
)

// BudgetResult is the allocator outcome. Feasible selects which fields are
// meaningful: an infeasible result carries the reason plus enough totals to
// explain the shortfall, a feasible one carries the complete allocation list
// ending with the synthesized "Discretionary Spending" entry.
type BudgetResult struct {
	Feasible             bool                `json:"feasible"`
	Reason               InfeasibilityReason `json:"reason,omitempty"`
	Income               float64             `json:"income"`
	TotalFixedExpenses   float64             `json:"totalFixedExpenses"`
	RemainingIncome      float64             `json:"remainingIncome"`
	FixedExpenses        []ExpenseItem       `json:"fixedExpenses"`
	Allocations          []Allocation        `json:"allocations"`
	TotalGoalAmount      float64             `json:"totalGoalAmount"`
	TotalGoalPercent     float64             `json:"totalGoalPercent"`
	DiscretionaryAmount  float64             `json:"discretionaryAmount"`
	DiscretionaryPercent float64             `json:"discretionaryPercent"`
}

// Shortfall returns how much the goals overshoot the remaining income.
// Only meaningful when Reason is GoalsExceedRemaining.
func (r BudgetResult) Shortfall() float64 {
	return r.TotalGoalAmount - r.RemainingIncome
}

// BudgetData bundles the figures the recommendation pipeline works from.
// RemainingIncome here is the raw arithmetic value and may be negative,
// unlike the display-clamped field on BudgetResult.
type BudgetData struct {
	Input              BudgetInput `json:"input"`
	TotalFixedExpenses float64     `json:"totalFixedExpenses"`
	RemainingIncome    float64     `json:"remainingIncome"`
}

// NewBudgetData derives the recommendation inputs from a submission and its
// fixed-expense total.
func NewBudgetData(input BudgetInput, totalFixed float64) BudgetData {
	return BudgetData{
		Input:              input,
		TotalFixedExpenses: totalFixed,
		RemainingIncome:    input.Income - totalFixed,
	}
}

// PlanEntry is one recommended allocation with the model's reasoning
type PlanEntry struct {
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	Percent   float64 `json:"percent"`
	Reasoning string  `json:"reasoning"`
}

// Recommendation is the narrative advice attached to a budget. It has the
// same structure whether the model produced it or the local fallback did,
// so consumers never branch on origin.
type Recommendation struct {
	BudgetPlan []PlanEntry `json:"budgetPlan"`
	Insights   []string    `json:"insights"`
	Warnings   []string    `json:"warnings"`
	Summary    string      `json:"summary"`
}

// RecommendationStatus tracks an async recommendation for one submission
type RecommendationStatus string

const (
	RecommendationPending    RecommendationStatus = "pending"
	RecommendationReady      RecommendationStatus = "ready"
	RecommendationSuperseded RecommendationStatus = "superseded"
)

// PlanResponse pairs the deterministic allocation with its narrative advice
type PlanResponse struct {
	Budget         BudgetResult    `json:"budget"`
	Recommendation *Recommendation `json:"recommendation"`
}

// SubmissionResponse acknowledges an accepted asynchronous submission
type SubmissionResponse struct {
	SubmissionID         string               `json:"submissionId"`
	Budget               BudgetResult         `json:"budget"`
	RecommendationStatus RecommendationStatus `json:"recommendationStatus"`
}

// RecommendationStatusResponse reports the state of an async recommendation
type RecommendationStatusResponse struct {
	SubmissionID   string               `json:"submissionId"`
	Status         RecommendationStatus `json:"status"`
	Recommendation *Recommendation      `json:"recommendation,omitempty"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Code    int               `json:"code"`
}
