// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"job-recommender/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// NewRedis builds the client backing the recommendation cache. A failed ping
// is reported but the client is still returned; cache errors are soft.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return rdb, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}
