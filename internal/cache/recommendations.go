// internal/cache/recommendations.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"job-recommender/internal/constants"
	"job-recommender/internal/models"

	"github.com/redis/go-redis/v9"
)

// Recommendations memoizes ranked lists per seeker. Entries are keyed by a
// generation counter, so bumping the generation orphans every cached list and
// the TTL reclaims them.
type Recommendations struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRecommendations(client redis.UniversalClient, ttl time.Duration) *Recommendations {
	return &Recommendations{client: client, ttl: ttl}
}

func ResultKey(seekerID string, generation int64) string {
	return fmt.Sprintf(constants.KeyRecommendationResult, seekerID, generation)
}

// Generation returns the current pool generation, zero if never bumped.
func (c *Recommendations) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, constants.KeyRecommendationGeneration).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read generation: %w", err)
	}
	return gen, nil
}

// Bump advances the generation and returns the new value.
func (c *Recommendations) Bump(ctx context.Context) (int64, error) {
	gen, err := c.client.Incr(ctx, constants.KeyRecommendationGeneration).Result()
	if err != nil {
		return 0, fmt.Errorf("bump generation: %w", err)
	}
	return gen, nil
}

// Get returns the cached list for seekerID at generation. A miss is
// (nil, false, nil).
func (c *Recommendations) Get(ctx context.Context, seekerID string, generation int64) ([]models.ScoredJob, bool, error) {
	raw, err := c.client.Get(ctx, ResultKey(seekerID, generation)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached recommendations: %w", err)
	}

	var results []models.ScoredJob
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false, fmt.Errorf("decode cached recommendations: %w", err)
	}
	return results, true, nil
}

func (c *Recommendations) Set(ctx context.Context, seekerID string, generation int64, results []models.ScoredJob) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	if err := c.client.Set(ctx, ResultKey(seekerID, generation), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write cached recommendations: %w", err)
	}
	return nil
}
