package services

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/dulina2004/ai-personal-budget-optimizer/internal/models"
)

// Generic in-memory cache with type safety. A non-positive TTL disables the
// cache entirely: every Get misses and Set is a no-op.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]*cacheItem[V]
	ttl   time.Duration
}

type cacheItem[V any] struct {
	value      V
	expiration time.Time
}

func NewCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		items: make(map[K]*cacheItem[V]),
		ttl:   ttl,
	}

	if ttl > 0 {
		go c.cleanup()
	}

	return c
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || time.Now().After(item.expiration) {
		var zero V
		return zero, false
	}

	return item.value, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem[V]{
		value:      value,
		expiration: time.Now().Add(c.ttl),
	}
}

func (c *Cache[K, V]) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, item := range c.items {
			if now.After(item.expiration) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}

// RecommendationCache keeps model-generated recommendations in memory with
// an optional Firestore tier behind it. Locally synthesized fallbacks are
// never stored; callers decide what goes in.
type RecommendationCache struct {
	logger          *slog.Logger
	firestoreClient *firestore.Client
	memory          *Cache[string, *models.Recommendation]
	ttl             time.Duration
}

type storedRecommendation struct {
	Recommendation models.Recommendation `firestore:"recommendation"`
	StoredAt       time.Time             `firestore:"storedAt"`
}

const recommendationCollection = "recommendations"

// NewRecommendationCache initializes both tiers. A failed Firestore client
// (or an empty project id) degrades to in-memory only rather than failing.
func NewRecommendationCache(ctx context.Context, logger *slog.Logger, projectID string, ttl time.Duration) *RecommendationCache {
	var client *firestore.Client
	if projectID != "" && ttl > 0 {
		var err error
		client, err = firestore.NewClient(ctx, projectID)
		if err != nil {
			logger.Warn("firestore unavailable, caching in memory only", "error", err)
			client = nil
		}
	}

	return &RecommendationCache{
		logger:          logger,
		firestoreClient: client,
		memory:          NewCache[string, *models.Recommendation](ttl),
		ttl:             ttl,
	}
}

func (c *RecommendationCache) Get(ctx context.Context, data models.BudgetData) (*models.Recommendation, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	key := cacheKey(data)

	if rec, found := c.memory.Get(key); found {
		return rec, true
	}

	if c.firestoreClient != nil {
		doc, err := c.firestoreClient.Collection(recommendationCollection).Doc(key).Get(ctx)
		if err == nil {
			var stored storedRecommendation
			if err := doc.DataTo(&stored); err == nil {
				if time.Since(stored.StoredAt) < c.ttl {
					c.memory.Set(key, &stored.Recommendation)
					return &stored.Recommendation, true
				}
			}
		}
	}

	return nil, false
}

func (c *RecommendationCache) Set(ctx context.Context, data models.BudgetData, rec *models.Recommendation) error {
	if c.ttl <= 0 {
		return nil
	}

	key := cacheKey(data)
	c.memory.Set(key, rec)

	if c.firestoreClient != nil {
		_, err := c.firestoreClient.Collection(recommendationCollection).Doc(key).Set(ctx, storedRecommendation{
			Recommendation: *rec,
			StoredAt:       time.Now(),
		})
		return err
	}

	return nil
}

// Close closes the Firestore client
func (c *RecommendationCache) Close() error {
	if c.firestoreClient != nil {
		return c.firestoreClient.Close()
	}
	return nil
}

// cacheKey digests the budget snapshot. Marshaling is deterministic for a
// fixed struct definition, so equal inputs share a key.
func cacheKey(data models.BudgetData) string {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("%x", md5.Sum([]byte(fmt.Sprintf("%+v", data))))
	}
	return fmt.Sprintf("%x", md5.Sum(payload))
}
