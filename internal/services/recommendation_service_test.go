package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulina2004/ai-personal-budget-optimizer/internal/config"
	"github.com/dulina2004/ai-personal-budget-optimizer/internal/models"
	"github.com/dulina2004/ai-personal-budget-optimizer/pkg/textgen"
)

const validModelResponse = `{
	"budgetPlan": [
		{"category": "Groceries", "amount": 500, "percent": 10, "reasoning": "Feeds the household"}
	],
	"insights": ["You save a healthy share of income"],
	"warnings": [],
	"summary": "A comfortable month"
}`

type stubGenerator struct {
	response string
	err      error
	delay    time.Duration
	calls    atomic.Int64
}

func (g *stubGenerator) Generate(ctx context.Context, req textgen.Request) (string, error) {
	g.calls.Add(1)
	if g.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(g.delay):
		}
	}
	return g.response, g.err
}

func newTestService(t *testing.T, gen textgen.Generator, cacheTTL time.Duration) *RecommendationService {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		TextGenTemperature: 0.2,
		TextGenMaxTokens:   1024,
		TextGenTimeout:     200 * time.Millisecond,
	}
	cache := NewRecommendationCache(context.Background(), logger, "", cacheTTL)
	t.Cleanup(func() { cache.Close() })

	return NewRecommendationService(cfg, logger, gen, cache, NewMetrics(prometheus.NewRegistry()))
}

func TestGetRecommendation_ModelSuccess(t *testing.T) {
	gen := &stubGenerator{response: validModelResponse}
	service := newTestService(t, gen, 0)

	rec := service.GetRecommendation(context.Background(), fallbackData(5000, 1530))

	require.NotNil(t, rec)
	require.Len(t, rec.BudgetPlan, 1)
	assert.Equal(t, "Groceries", rec.BudgetPlan[0].Category)
	assert.Equal(t, "A comfortable month", rec.Summary)
	assert.Empty(t, rec.Warnings)
}

func TestGetRecommendation_CleansDecoratedOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"code fenced", "```json\n" + validModelResponse + "\n```"},
		{"prose wrapped", "Here is your plan:\n" + validModelResponse + "\nEnjoy!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(t, &stubGenerator{response: tt.response}, 0)

			rec := service.GetRecommendation(context.Background(), fallbackData(5000, 1530))

			require.NotNil(t, rec)
			assert.Equal(t, "A comfortable month", rec.Summary)
		})
	}
}

func TestGetRecommendation_CallFailureFallsBack(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection reset by peer")}
	service := newTestService(t, gen, 0)

	rec := service.GetRecommendation(context.Background(), fallbackData(5000, 1530))

	require.NotNil(t, rec)
	require.Len(t, rec.BudgetPlan, 2)
	assert.Equal(t, "Emergency Savings", rec.BudgetPlan[0].Category)
	assert.InDelta(t, 694, rec.BudgetPlan[0].Amount, sumTolerance)
	assert.InDelta(t, 2776, rec.BudgetPlan[1].Amount, sumTolerance)
	require.NotEmpty(t, rec.Warnings)
	assert.Contains(t, rec.Warnings[0], "connection reset by peer")
}

func TestGetRecommendation_TimeoutFallsBack(t *testing.T) {
	gen := &stubGenerator{response: validModelResponse, delay: 5 * time.Second}
	service := newTestService(t, gen, 0)

	start := time.Now()
	rec := service.GetRecommendation(context.Background(), fallbackData(5000, 1530))

	require.NotNil(t, rec)
	assert.Less(t, time.Since(start), 2*time.Second, "timeout must cut the call short")
	require.Len(t, rec.BudgetPlan, 2, "fallback formula applies on timeout")
	require.NotEmpty(t, rec.Warnings)
	assert.Contains(t, rec.Warnings[0], "context deadline exceeded")
}

func TestGetRecommendation_GarbageOutputFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json at all", "I'm sorry, I can't produce JSON right now."},
		{"wrong shape", `{"plan": [], "notes": "nope"}`},
		{"top level array", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(t, &stubGenerator{response: tt.response}, 0)

			rec := service.GetRecommendation(context.Background(), fallbackData(4000, 1000))

			require.NotNil(t, rec)
			require.Len(t, rec.BudgetPlan, 2)
			assert.NotEmpty(t, rec.Warnings)
		})
	}
}

func TestGetRecommendation_NegativeRemainingFallback(t *testing.T) {
	gen := &stubGenerator{err: errors.New("boom")}
	service := newTestService(t, gen, 0)

	rec := service.GetRecommendation(context.Background(), fallbackData(1000, 1500))

	require.NotNil(t, rec)
	assert.Empty(t, rec.BudgetPlan)
	assert.Len(t, rec.Warnings, 2)
}

func TestGetRecommendation_CachesModelResults(t *testing.T) {
	gen := &stubGenerator{response: validModelResponse}
	service := newTestService(t, gen, time.Minute)
	data := fallbackData(5000, 1530)

	first := service.GetRecommendation(context.Background(), data)
	second := service.GetRecommendation(context.Background(), data)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, gen.calls.Load(), "second request must be served from cache")
}

func TestGetRecommendation_NeverCachesFallback(t *testing.T) {
	gen := &stubGenerator{err: errors.New("flaky")}
	service := newTestService(t, gen, time.Minute)
	data := fallbackData(5000, 1530)

	first := service.GetRecommendation(context.Background(), data)
	require.NotEmpty(t, first.Warnings)

	gen.err = nil
	gen.response = validModelResponse

	second := service.GetRecommendation(context.Background(), data)

	assert.EqualValues(t, 2, gen.calls.Load(), "failure must not poison the cache")
	assert.Equal(t, "A comfortable month", second.Summary)
	assert.Empty(t, second.Warnings)
}

func TestGetRecommendation_DistinctBudgetsDoNotShareCache(t *testing.T) {
	gen := &stubGenerator{response: validModelResponse}
	service := newTestService(t, gen, time.Minute)

	service.GetRecommendation(context.Background(), fallbackData(5000, 1530))
	service.GetRecommendation(context.Background(), fallbackData(6000, 1530))

	assert.EqualValues(t, 2, gen.calls.Load())
}
