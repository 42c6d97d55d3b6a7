// internal/workers/recommendation/recommend-jobs/handler.go
package recommendjobs

import (
	"context"
	"encoding/json"
	stderrors "errors"
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
	"job-recommender/internal/models"
	"job-recommender/internal/recommendation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "recommend-jobs"

// Recommender is the slice of the engine the worker needs.
type Recommender interface {
	Recommend(ctx context.Context, seekerID string) ([]models.ScoredJob, error)
}

type Handler struct {
	config    *Config
	engine    Recommender
	cache     *cache.Recommendations
	validator *validation.Validator
	obs       *observability.Observability
	errors    *errors.ErrorHandler
	logger    logger.Logger
}

type HandlerOptions struct {
	Config        *Config
	Engine        Recommender
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

	h := &Handler{
		config:    cfg,
		engine:    opts.Engine,
		validator: opts.Validator,
		obs:       opts.Observability,
		errors:    errors.NewErrorHandler(log),
		logger:    log,
	}
	if cfg.CacheEnabled && opts.Redis != nil {
		h.cache = cache.NewRecommendations(opts.Redis, cfg.CacheTTL)
	}
	return h
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
		err = h.completeJob(ctx, client, job, output)
	}
	if err != nil {
		stdErr := h.errors.HandleJobError(ctx, client, job, err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.obs.RecordJobProcessed(ctx, TaskType, "failed")
		h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "success")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "success")
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	input, err := h.parseInput(job)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	if err := h.validator.Validate(TaskType, job.Variables); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

// Execute returns recommendations for input.SeekerID, serving from the cache
// when a list exists for the current pool generation.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	seekerID := strings.TrimSpace(input.SeekerID)
	if seekerID == "" {
		return nil, errors.NewInvalidInputError("seekerId is required")
	}

	ctx, span := h.obs.StartSpan(ctx, TaskType,
		attribute.String("seeker.id", seekerID),
		attribute.Bool("cache.skip", input.SkipCache),
	)
	defer span.End()

	generation, cacheable := h.generation(ctx)
	if cacheable && !input.SkipCache {
		if results, ok := h.lookup(ctx, seekerID, generation); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return h.buildOutput(ctx, seekerID, results, true), nil
		}
	}

	results, err := h.engine.Recommend(ctx, seekerID)
	if err != nil {
		span.RecordError(err)
		if stderrors.Is(err, recommendation.ErrSeekerNotFound) {
			return nil, errors.NewSeekerNotFoundError(seekerID, err)
		}
		return nil, err
	}

	if cacheable {
		if err := h.cache.Set(ctx, seekerID, generation, results); err != nil {
			h.logger.Warn("failed to cache recommendations", map[string]interface{}{
				"seekerId": seekerID,
				"error":    err,
			})
		}
	}
	return h.buildOutput(ctx, seekerID, results, false), nil
}

// generation reports the current pool generation and whether the cache can
// be used for this request.
func (h *Handler) generation(ctx context.Context) (int64, bool) {
	if h.cache == nil {
		return 0, false
	}
	gen, err := h.cache.Generation(ctx)
	if err != nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		h.logger.Warn("recommendation cache unavailable, serving uncached", map[string]interface{}{
			"error": err,
		})
		return 0, false
	}
	return gen, true
}

func (h *Handler) lookup(ctx context.Context, seekerID string, generation int64) ([]models.ScoredJob, bool) {
	results, hit, err := h.cache.Get(ctx, seekerID, generation)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		h.logger.Warn("failed to read cached recommendations", map[string]interface{}{
			"seekerId": seekerID,
			"error":    err,
		})
		return nil, false
	case hit:
		metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
		return results, true
	default:
		metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
		return nil, false
	}
}

func (h *Handler) buildOutput(ctx context.Context, seekerID string, results []models.ScoredJob, cached bool) *Output {
	if results == nil {
		results = []models.ScoredJob{}
	}
	h.obs.RecordRecommendation(ctx, len(results), cached)

	out := &Output{
		SeekerID:        seekerID,
		BatchID:         uuid.NewString(),
		Recommendations: results,
		Count:           len(results),
		Cached:          cached,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	h.logger.Info("recommendations ready", map[string]interface{}{
		"seekerId": seekerID,
		"batchId":  out.BatchID,
		"count":    out.Count,
		"cached":   cached,
	})
	return out
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	return camunda.SendWithRetry(ctx, h.config.Retry, "complete "+TaskType, func(ctx context.Context) error {
		cmd, err := client.NewCompleteJobCommand().
			JobKey(job.Key).
			VariablesFromObject(output)
		if err != nil {
			return err
		}
		_, err = cmd.Send(ctx)
		return err
	})
}
