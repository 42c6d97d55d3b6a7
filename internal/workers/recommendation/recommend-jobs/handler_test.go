package recommendjobs

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"job-recommender/internal/cache"
	"job-recommender/internal/common/errors"
	"job-recommender/internal/common/logger"
	"job-recommender/internal/common/metrics"
	"job-recommender/internal/common/validation"
	"job-recommender/internal/models"
	"job-recommender/internal/recommendation"
	"job-recommender/pkg/registry"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecommender struct {
	mu      sync.Mutex
	calls   int
	results []models.ScoredJob
	err     error
}

func (f *fakeRecommender) Recommend(_ context.Context, _ string) ([]models.ScoredJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.results, f.err
}

func (f *fakeRecommender) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sampleResults() []models.ScoredJob {
	return []models.ScoredJob{
		{
			JobPosting:           models.JobPosting{ID: "j-1", Title: "Licensed Plumber", Category: "home_services", Visibility: "public", Status: "pending"},
			SimilarityScore:      0.71,
			SkillScore:           1,
			CategoryScore:        1,
			MatchedSkills:        []models.MatchedSkill{{SeekerSkill: "plumbing", JobSkill: "plumbing", MatchType: models.MatchExact}},
			ExactMatches:         1,
			RecommendationReason: "1 exact skill match",
		},
	}
}

func testConfig() *Config {
	c := DefaultConfig()
	c.CacheTTL = 5 * time.Minute
	return c
}

func newMiniredisHandler(t *testing.T, engine Recommender) (*Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	h := NewHandler(HandlerOptions{
		Config: testConfig(),
		Engine: engine,
		Redis:  client,
		Logger: logger.NewTestLogger(t),
	})
	return h, mr
}

func TestExecute_CachesResultsPerGeneration(t *testing.T) {
	engine := &fakeRecommender{results: sampleResults()}
	h, mr := newMiniredisHandler(t, engine)
	ctx := context.Background()

	hitsBefore := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(metrics.CacheHit))
	missesBefore := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(metrics.CacheMiss))

	first, err := h.Execute(ctx, &Input{SeekerID: "s-1"})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, first.Count)
	assert.True(t, mr.Exists(cache.ResultKey("s-1", 0)))
	assert.Equal(t, 5*time.Minute, mr.TTL(cache.ResultKey("s-1", 0)))

	second, err := h.Execute(ctx, &Input{SeekerID: "s-1"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Recommendations, second.Recommendations)
	assert.NotEqual(t, first.BatchID, second.BatchID)
	assert.Equal(t, 1, engine.Calls())

	assert.Equal(t, hitsBefore+1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(metrics.CacheHit)))
	assert.Equal(t, missesBefore+1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(metrics.CacheMiss)))

	// A pool change orphans the cached list.
	_, err = mr.Incr("recommend:jobs:generation", 1)
	require.NoError(t, err)

	third, err := h.Execute(ctx, &Input{SeekerID: "s-1"})
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, 2, engine.Calls())
	assert.True(t, mr.Exists(cache.ResultKey("s-1", 1)))
}

func TestExecute_SkipCacheRefreshesEntry(t *testing.T) {
	engine := &fakeRecommender{results: sampleResults()}
	h, mr := newMiniredisHandler(t, engine)
	ctx := context.Background()

	require.NoError(t, mr.Set(cache.ResultKey("s-2", 0), "[]"))

	out, err := h.Execute(ctx, &Input{SeekerID: "s-2", SkipCache: true})
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, 1, engine.Calls())

	stored, err := mr.Get(cache.ResultKey("s-2", 0))
	require.NoError(t, err)
	var cached []models.ScoredJob
	require.NoError(t, json.Unmarshal([]byte(stored), &cached))
	assert.Equal(t, sampleResults(), cached)
}

func TestExecute_OutputShape(t *testing.T) {
	h := NewHandler(HandlerOptions{Config: testConfig(), Engine: &fakeRecommender{}})

	out, err := h.Execute(context.Background(), &Input{SeekerID: "  s-3  "})
	require.NoError(t, err)

	assert.Equal(t, "s-3", out.SeekerID)
	assert.NotNil(t, out.Recommendations, "empty list serializes as []")
	assert.Equal(t, 0, out.Count)
	_, err = uuid.Parse(out.BatchID)
	assert.NoError(t, err)
	_, err = time.Parse(time.RFC3339, out.GeneratedAt)
	assert.NoError(t, err)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"recommendations":[]`)
}

func TestExecute_CacheDisabled(t *testing.T) {
	engine := &fakeRecommender{results: sampleResults()}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cfg := testConfig()
	cfg.CacheEnabled = false
	h := NewHandler(HandlerOptions{Config: cfg, Engine: engine, Redis: client})

	for i := 0; i < 2; i++ {
		out, err := h.Execute(context.Background(), &Input{SeekerID: "s-4"})
		require.NoError(t, err)
		assert.False(t, out.Cached)
	}
	assert.Equal(t, 2, engine.Calls())
	assert.Empty(t, mr.Keys())
}

func TestExecute_CacheFailureIsSoft(t *testing.T) {
	client, mock := redismock.NewClientMock()
	engine := &fakeRecommender{results: sampleResults()}
	h := NewHandler(HandlerOptions{Config: testConfig(), Engine: engine, Redis: client, Logger: logger.NewTestLogger(t)})

	errorsBefore := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(metrics.CacheError))
	mock.ExpectGet("recommend:jobs:generation").SetErr(fmt.Errorf("dial tcp: connection refused"))

	out, err := h.Execute(context.Background(), &Input{SeekerID: "s-5"})
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, errorsBefore+1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(metrics.CacheError)))
	assert.NoError(t, mock.ExpectationsWereMet(), "no write after a failed generation read")
}

func TestExecute_WritesWithConfiguredTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	engine := &fakeRecommender{results: sampleResults()}
	h := NewHandler(HandlerOptions{Config: testConfig(), Engine: engine, Redis: client})

	data, err := json.Marshal(sampleResults())
	require.NoError(t, err)

	mock.ExpectGet("recommend:jobs:generation").SetVal("4")
	mock.ExpectGet("recommend:jobs:s-6:g4").RedisNil()
	mock.ExpectSet("recommend:jobs:s-6:g4", data, 5*time.Minute).SetErr(fmt.Errorf("OOM command not allowed"))

	out, err := h.Execute(context.Background(), &Input{SeekerID: "s-6"})
	require.NoError(t, err, "a failed cache write does not fail the request")
	assert.Equal(t, 1, out.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_Errors(t *testing.T) {
	upstream := errors.NewJobStoreFailedError(fmt.Errorf("es: 503"))

	tests := []struct {
		name      string
		input     *Input
		engineErr error
		wantCode  errors.ErrorCode
	}{
		{"blank seeker id", &Input{SeekerID: "   "}, nil, errors.ErrCodeInvalidInput},
		{"unknown seeker", &Input{SeekerID: "ghost"}, fmt.Errorf("seeker ghost: %w", recommendation.ErrSeekerNotFound), errors.ErrCodeSeekerNotFound},
		{"job store failure", &Input{SeekerID: "s-7"}, upstream, errors.ErrCodeJobStoreFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(HandlerOptions{Config: testConfig(), Engine: &fakeRecommender{err: tt.engineErr}})

			out, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, out)

			var std *errors.StandardError
			require.True(t, stderrors.As(err, &std))
			assert.Equal(t, tt.wantCode, std.Code)
			if tt.engineErr != nil {
				assert.True(t, stderrors.Is(err, tt.engineErr) || stderrors.Is(err, recommendation.ErrSeekerNotFound))
			}
		})
	}
}

func TestParseInput(t *testing.T) {
	reg, err := registry.LoadRegistry("../../../../configs/activity-registry.json")
	require.NoError(t, err)
	v, err := validation.NewValidator(reg.InputSchemas())
	require.NoError(t, err)

	h := NewHandler(HandlerOptions{Config: testConfig(), Engine: &fakeRecommender{}, Validator: v})

	job := func(vars string) entities.Job {
		return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 17, Type: TaskType, Variables: vars}}
	}

	input, err := h.parseInput(job(`{"seekerId":"s-8","skipCache":true,"other":1}`))
	require.NoError(t, err)
	assert.Equal(t, &Input{SeekerID: "s-8", SkipCache: true}, input)

	for _, vars := range []string{`{}`, `{"seekerId":""}`, `{"seekerId":42}`, `{"seekerId":"s","skipCache":"yes"}`} {
		_, err := h.parseInput(job(vars))
		var std *errors.StandardError
		require.True(t, stderrors.As(err, &std), vars)
		assert.Equal(t, errors.ErrCodeInvalidInput, std.Code, vars)
	}
}

func TestConfigFromApp(t *testing.T) {
	assert.Equal(t, DefaultConfig(), ConfigFromApp(nil))
}
