package stores

import "job-recommender/internal/common/logger"

// Option configures the posting stores.
type Option func(*options)

type options struct {
	log logger.Logger
}

// WithLogger sets the logger used to report a truncated posting pool.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: logger.NewNoOpLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func warnTruncated(log logger.Logger, source string, limit int) {
	log.Warn("open posting pool truncated at max_candidates", map[string]interface{}{
		"source": source,
		"limit":  limit,
	})
}
