package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dulina2004/ai-personal-budget-optimizer/internal/models"
)

// PlanSession tracks budget submissions and the async recommendation each
// one owns. A new submission supersedes interest in any still-pending prior
// recommendation: its context is canceled and a late result is discarded
// rather than allowed to overwrite newer state.
type PlanSession struct {
	logger          *slog.Logger
	recommendations *RecommendationService
	metrics         *Metrics
	historyLimit    int

	mu      sync.Mutex
	entries map[string]*submission
	order   []string
	latest  string
}

type submission struct {
	status models.RecommendationStatus
	result *models.Recommendation
	cancel context.CancelFunc
}

func NewPlanSession(logger *slog.Logger, recommendations *RecommendationService, metrics *Metrics, historyLimit int) *PlanSession {
	if historyLimit < 1 {
		historyLimit = 1
	}
	return &PlanSession{
		logger:          logger,
		recommendations: recommendations,
		metrics:         metrics,
		historyLimit:    historyLimit,
		entries:         make(map[string]*submission),
	}
}

// Submit runs the allocator synchronously and launches exactly one
// recommendation computation for the new submission. The returned id is the
// handle for polling the recommendation.
func (s *PlanSession) Submit(input models.BudgetInput) (string, models.BudgetResult) {
	result := Allocate(input)
	s.metrics.ObserveAllocation(result)

	id := uuid.NewString()
	data := models.NewBudgetData(input, result.TotalFixedExpenses)
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if prior, ok := s.entries[s.latest]; ok && prior.status == models.RecommendationPending {
		prior.status = models.RecommendationSuperseded
		prior.cancel()
		s.metrics.ObserveSuperseded()
		s.logger.Debug("superseded pending submission", "submission_id", s.latest)
	}

	s.entries[id] = &submission{status: models.RecommendationPending, cancel: cancel}
	s.order = append(s.order, id)
	s.latest = id
	s.evictLocked()
	s.mu.Unlock()

	go func() {
		rec := s.recommendations.GetRecommendation(ctx, data)
		cancel()

		s.mu.Lock()
		defer s.mu.Unlock()
		entry, ok := s.entries[id]
		if !ok || entry.status != models.RecommendationPending {
			// Superseded or evicted while we were waiting; drop the result
			return
		}
		entry.result = rec
		entry.status = models.RecommendationReady
	}()

	return id, result
}

// Recommendation reports the state of a submission's recommendation. The
// result is non-nil only when the status is ready. The boolean is false for
// unknown ids.
func (s *PlanSession) Recommendation(id string) (models.RecommendationStatus, *models.Recommendation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return "", nil, false
	}
	return entry.status, entry.result, true
}

// evictLocked drops the oldest submissions beyond the history limit. The
// caller holds the mutex.
func (s *PlanSession) evictLocked() {
	for len(s.order) > s.historyLimit {
		oldest := s.order[0]
		s.order = s.order[1:]
		if entry, ok := s.entries[oldest]; ok {
			if entry.status == models.RecommendationPending {
				entry.cancel()
			}
			delete(s.entries, oldest)
		}
	}
}
