package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dulina2004/ai-personal-budget-optimizer/internal/models"
)

// Metrics registers on an injected Registerer so tests can use isolated
// registries instead of the process-global one.
type Metrics struct {
	allocationsTotal     *prometheus.CounterVec
	recommendationsTotal *prometheus.CounterVec
	generationFailures   *prometheus.CounterVec
	generationDuration   prometheus.Histogram
	supersededTotal      prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		allocationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budget_allocations_total",
				Help: "Total number of budget allocations by outcome",
			},
			[]string{"outcome"},
		),
		recommendationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budget_recommendations_total",
				Help: "Total number of recommendations served by source",
			},
			[]string{"source"},
		),
		generationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textgen_failures_total",
				Help: "Total number of failed text-generation attempts by reason",
			},
			[]string{"reason"},
		),
		generationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "textgen_request_duration_seconds",
				Help:    "Text-generation call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		supersededTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "budget_submissions_superseded_total",
				Help: "Total number of submissions superseded before their recommendation finished",
			},
		),
	}
}

func (m *Metrics) ObserveAllocation(result models.BudgetResult) {
	outcome := "feasible"
	if !result.Feasible {
		switch result.Reason {
		case models.ExpensesExceedIncome:
			outcome = "expenses_exceed_income"
		case models.GoalsExceedRemaining:
			outcome = "goals_exceed_remaining"
		default:
			outcome = "infeasible"
		}
	}
	m.allocationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRecommendation counts a served recommendation; source is one of
// "model", "fallback", or "cache".
func (m *Metrics) ObserveRecommendation(source string) {
	m.recommendationsTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveGenerationFailure(reason string) {
	m.generationFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveGenerationDuration(duration time.Duration) {
	m.generationDuration.Observe(duration.Seconds())
}

func (m *Metrics) ObserveSuperseded() {
	m.supersededTotal.Inc()
}
