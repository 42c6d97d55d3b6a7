// internal/workers/recommendation/invalidate-recommendations/config.go
package invalidaterecommendations

import (
	"time"

	"job-recommender/internal/common/camunda"
	"job-recommender/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	Retry   *camunda.RetryConfig
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Retry:   camunda.DefaultRetryConfig,
	}
}

func ConfigFromApp(cfg *config.Config) *Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if w, ok := cfg.Workers[TaskType]; ok && w.Timeout > 0 {
		c.Timeout = config.GetDuration(w.Timeout)
	}
	return c
}
