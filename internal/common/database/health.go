// internal/common/database/health.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
)

// HealthChecker reports readiness of the backing stores. Nil dependencies are
// skipped, so a postgres-only deployment never pings elasticsearch.
type HealthChecker struct {
	DB    *sql.DB
	Redis redis.UniversalClient
	ES    *elasticsearch.Client
}

// Check pings every configured dependency and returns one status per name.
func (h *HealthChecker) Check(ctx context.Context) map[string]error {
	status := make(map[string]error)
	if h.DB != nil {
		status["postgres"] = h.DB.PingContext(ctx)
	}
	if h.Redis != nil {
		status["redis"] = h.Redis.Ping(ctx).Err()
	}
	if h.ES != nil {
		status["elasticsearch"] = pingElasticsearch(ctx, h.ES)
	}
	return status
}

// Ready fails when postgres or elasticsearch is down. Redis only backs the
// cache, so it is reported but never fails readiness.
func (h *HealthChecker) Ready(ctx context.Context) error {
	status := h.Check(ctx)

	var failed []string
	for name, err := range status {
		if err != nil && name != "redis" {
			failed = append(failed, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	sort.Strings(failed)
	return fmt.Errorf("dependencies unavailable: %s", strings.Join(failed, "; "))
}
