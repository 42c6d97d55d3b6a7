// internal/workers/recommendation/recommend-jobs/config.go
package recommendjobs

import (
	"time"

	"job-recommender/internal/common/camunda"
	"job-recommender/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	CacheTTL     time.Duration
	CacheEnabled bool
	Retry        *camunda.RetryConfig
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		CacheTTL:     2 * time.Minute,
		CacheEnabled: true,
		Retry:        camunda.DefaultRetryConfig,
	}
}

// ConfigFromApp derives the worker settings from the loaded application config.
func ConfigFromApp(cfg *config.Config) *Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if w := config.GetWorkerConfig(cfg, TaskType); w.Timeout > 0 {
		c.Timeout = config.GetDuration(w.Timeout)
	}
	if cfg.Recommendation.CacheTTL > 0 {
		c.CacheTTL = config.GetDuration(cfg.Recommendation.CacheTTL)
	}
	c.CacheEnabled = cfg.Recommendation.IsCacheEnabled()
	return c
}
