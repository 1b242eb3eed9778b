package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dulina2004/ai-personal-budget-optimizer/internal/config"
	"github.com/dulina2004/ai-personal-budget-optimizer/internal/models"
	"github.com/dulina2004/ai-personal-budget-optimizer/pkg/textgen"
)

// RecommendationService coordinates the recommendation pipeline: cache
// lookup, a single bounded text-generation call, response validation, and
// the guaranteed local fallback. It never fails outward.
type RecommendationService struct {
	config    *config.Config
	logger    *slog.Logger
	generator textgen.Generator
	cache     *RecommendationCache
	metrics   *Metrics
	group     singleflight.Group
}

func NewRecommendationService(cfg *config.Config, logger *slog.Logger, generator textgen.Generator, cache *RecommendationCache, metrics *Metrics) *RecommendationService {
	return &RecommendationService{
		config:    cfg,
		logger:    logger,
		generator: generator,
		cache:     cache,
		metrics:   metrics,
	}
}

// GetRecommendation returns a fully structured recommendation for the given
// budget snapshot. Model failures of any kind degrade to the deterministic
// fallback; callers never branch on origin.
func (s *RecommendationService) GetRecommendation(ctx context.Context, data models.BudgetData) *models.Recommendation {
	// Check cache
	if cached, found := s.cache.Get(ctx, data); found {
		s.metrics.ObserveRecommendation("cache")
		return cached
	}

	// Identical budgets submitted while a call is in flight share its result.
	// The flight runs on a detached context so one superseded caller cannot
	// kill it for everyone; generate bounds it with its own timeout.
	key := cacheKey(data)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.generate(context.WithoutCancel(ctx), data)
	})

	select {
	case <-ctx.Done():
		s.logger.Warn("recommendation degraded to fallback", "error", ctx.Err())
		s.metrics.ObserveRecommendation("fallback")
		return FallbackRecommendation(data, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			s.logger.Warn("recommendation degraded to fallback", "error", res.Err)
			s.metrics.ObserveRecommendation("fallback")
			return FallbackRecommendation(data, res.Err)
		}
		s.metrics.ObserveRecommendation("model")
		return res.Val.(*models.Recommendation)
	}
}

// generate performs the single external attempt. No retries: any failure
// surfaces to the caller, which synthesizes the fallback immediately.
func (s *RecommendationService) generate(ctx context.Context, data models.BudgetData) (*models.Recommendation, error) {
	prompt := BuildAnalysisPrompt(data.Input, data.TotalFixedExpenses, data.RemainingIncome)

	callCtx, cancel := context.WithTimeout(ctx, s.config.TextGenTimeout)
	defer cancel()

	start := time.Now()
	text, err := s.generator.Generate(callCtx, textgen.Request{
		Prompt:          prompt,
		Temperature:     s.config.TextGenTemperature,
		MaxOutputTokens: s.config.TextGenMaxTokens,
	})
	s.metrics.ObserveGenerationDuration(time.Since(start))

	if err != nil {
		s.metrics.ObserveGenerationFailure("call_failed")
		return nil, err
	}

	rec, err := DecodeRecommendation(CleanModelResponse(text))
	if err != nil {
		s.metrics.ObserveGenerationFailure("bad_payload")
		return nil, err
	}

	// Only genuine model output is worth keeping
	if err := s.cache.Set(ctx, data, rec); err != nil {
		s.logger.Warn("failed to persist recommendation to cache", "error", err)
	}

	return rec, nil
}
