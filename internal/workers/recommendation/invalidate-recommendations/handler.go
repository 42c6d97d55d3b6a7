// internal/workers/recommendation/invalidate-recommendations/handler.go
package invalidaterecommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"job-recommender/internal/cache"
	"job-recommender/internal/common/camunda"
	"job-recommender/internal/common/errors"
	"job-recommender/internal/common/logger"
	"job-recommender/internal/common/metrics"
	"job-recommender/internal/common/observability"
	"job-recommender/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "invalidate-recommendations"

// Handler bumps the cache generation whenever a posting is created, edited or
// closed. Lists cached under older generations are never read again.
type Handler struct {
	config    *Config
	cache     *cache.Recommendations
	validator *validation.Validator
	obs       *observability.Observability
	errors    *errors.ErrorHandler
	logger    logger.Logger
}

type HandlerOptions struct {
	Config        *Config
	Redis         redis.UniversalClient
	Validator     *validation.Validator
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) *Handler {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	// TTL is unused here; entries are only written by recommend-jobs.
	return &Handler{
		config:    cfg,
		cache:     cache.NewRecommendations(opts.Redis, 0),
		validator: opts.Validator,
		obs:       opts.Observability,
		errors:    errors.NewErrorHandler(log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	output, err := h.process(ctx, job)
	if err == nil {
		err = camunda.SendWithRetry(ctx, h.config.Retry, "complete "+TaskType, func(ctx context.Context) error {
			cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
			if err != nil {
				return err
			}
			_, err = cmd.Send(ctx)
			return err
		})
	}
	if err != nil {
		stdErr := h.errors.HandleJobError(ctx, client, job, err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.obs.RecordJobProcessed(ctx, TaskType, "failed")
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "success")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "success")
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	if err := h.validator.Validate(TaskType, job.Variables); err != nil {
		return nil, err
	}
	var input Input
	if vars := strings.TrimSpace(job.Variables); vars != "" {
		if err := json.Unmarshal([]byte(vars), &input); err != nil {
			return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
		}
	}
	return h.Execute(ctx, &input)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := h.obs.StartSpan(ctx, TaskType,
		attribute.String("job.id", input.JobID),
		attribute.String("job.event", input.Event),
	)
	defer span.End()

	generation, err := h.cache.Bump(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, errors.NewCacheUnavailableError(err)
	}

	h.logger.Info("recommendation cache invalidated", map[string]interface{}{
		"jobId":      input.JobID,
		"event":      input.Event,
		"generation": generation,
	})
	return &Output{Generation: generation}, nil
}
