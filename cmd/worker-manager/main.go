// cmd/worker-manager/main.go
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"job-recommender/internal/common/camunda"
	"job-recommender/internal/common/config"
	"job-recommender/internal/common/database"
	"job-recommender/internal/common/logger"
	"job-recommender/internal/common/observability"
	"job-recommender/internal/common/validation"
	"job-recommender/internal/recommendation"
	"job-recommender/internal/stores"
	ir "job-recommender/internal/workers/recommendation/invalidate-recommendations"
	rj "job-recommender/internal/workers/recommendation/recommend-jobs"
	"job-recommender/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("jobSource", cfg.Recommendation.JobSource),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *sql.DB
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(ctx, cfg.Database.Postgres)
		return err
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch, only when it backs the posting pool ---
	var es *elasticsearch.Client
	if cfg.Recommendation.JobSource == config.JobSourceElasticsearch {
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
			if err != nil {
				return err
			}
			return (&database.HealthChecker{ES: es}).Ready(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Redis. The cache is optional, so a dead Redis is not fatal. ---
	var rdb *redis.Client
	err = retryWithBackoff(func() error {
		if rdb != nil {
			rdb.Close()
		}
		var err error
		rdb, err = database.NewRedis(ctx, cfg.Database.Redis)
		return err
	}, 3, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Warn("redis unavailable, recommendations will be served uncached", zap.Error(err))
	} else {
		zapLog.Info("Redis connected successfully")
	}
	defer rdb.Close()

	// --- Engine ---
	var jobStore recommendation.JobStore
	storeLog := stores.WithLogger(log.WithFields(map[string]interface{}{"component": "job-store"}))
	switch cfg.Recommendation.JobSource {
	case config.JobSourceElasticsearch:
		jobStore = stores.NewJobsElasticsearch(es, cfg.Recommendation.JobIndex, cfg.Recommendation.MaxCandidates, storeLog)
	default:
		jobStore = stores.NewJobsPostgres(pg, cfg.Recommendation.MaxCandidates, storeLog)
	}
	engine := recommendation.NewEngine(
		stores.NewSeekerPostgres(pg),
		jobStore,
		log.WithFields(map[string]interface{}{"component": "engine"}),
		recommendation.WithMaxResults(cfg.Recommendation.MaxResults),
	)

	// --- Input validation from the activity registry ---
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	validator, err := validation.NewValidator(reg.InputSchemas())
	if err != nil {
		zapLog.Fatal("input schema compile failed", zap.Error(err))
	}

	// --- Workers ---
	zeebeClient := camundaClient.GetClient()
	var workers []worker.JobWorker

	recommendHandler := rj.NewHandler(rj.HandlerOptions{
		Config:        rj.ConfigFromApp(cfg),
		Engine:        engine,
		Redis:         rdb,
		Validator:     validator,
		Observability: obs,
		Logger:        log,
	})
	if w := camunda.StartWorker(zeebeClient, rj.TaskType, config.GetWorkerConfig(cfg, rj.TaskType), recommendHandler.Handle, zapLog); w != nil {
		workers = append(workers, w)
	}

	invalidateHandler := ir.NewHandler(ir.HandlerOptions{
		Config:        ir.ConfigFromApp(cfg),
		Redis:         rdb,
		Validator:     validator,
		Observability: obs,
		Logger:        log,
	})
	if w := camunda.StartWorker(zeebeClient, ir.TaskType, config.GetWorkerConfig(cfg, ir.TaskType), invalidateHandler.Handle, zapLog); w != nil {
		workers = append(workers, w)
	}
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	health := &database.HealthChecker{DB: pg, Redis: rdb, ES: es}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		readyCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := camundaClient.HealthCheck(readyCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready", err)
			return
		}
		if err := health.Ready(readyCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready", err)
			return
		}
		writeStatus(w, http.StatusOK, "ready", nil)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string, err error) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if err != nil {
		body["error"] = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
