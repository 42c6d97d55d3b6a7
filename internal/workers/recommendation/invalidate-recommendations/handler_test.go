package invalidaterecommendations

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"job-recommender/internal/common/errors"
	"job-recommender/internal/common/logger"
	"job-recommender/internal/common/validation"
	"job-recommender/pkg/registry"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_BumpsGeneration(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	h := NewHandler(HandlerOptions{Redis: client, Logger: logger.NewTestLogger(t)})
	ctx := context.Background()

	out, err := h.Execute(ctx, &Input{JobID: "j-1", Event: "created"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Generation)

	out, err = h.Execute(ctx, &Input{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Generation)

	stored, err := mr.Get("recommend:jobs:generation")
	require.NoError(t, err)
	assert.Equal(t, "2", stored)
}

func TestExecute_RedisDown(t *testing.T) {
	client, mock := redismock.NewClientMock()
	h := NewHandler(HandlerOptions{Redis: client})

	mock.ExpectIncr("recommend:jobs:generation").SetErr(fmt.Errorf("dial tcp: i/o timeout"))

	out, err := h.Execute(context.Background(), &Input{JobID: "j-2", Event: "closed"})
	assert.Nil(t, out)

	var std *errors.StandardError
	require.True(t, stderrors.As(err, &std))
	assert.Equal(t, errors.ErrCodeCacheUnavailable, std.Code)
	assert.True(t, std.Retryable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcess_ValidatesEvent(t *testing.T) {
	reg, err := registry.LoadRegistry("../../../../configs/activity-registry.json")
	require.NoError(t, err)
	v, err := validation.NewValidator(reg.InputSchemas())
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	h := NewHandler(HandlerOptions{Redis: client, Validator: v})
	job := func(vars string) entities.Job {
		return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 3, Type: TaskType, Variables: vars}}
	}

	out, err := h.process(context.Background(), job(`{"jobId":"j-3","event":"updated"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Generation)

	out, err = h.process(context.Background(), job(""))
	require.NoError(t, err, "no variables is a blanket invalidation")
	assert.Equal(t, int64(2), out.Generation)

	_, err = h.process(context.Background(), job(`{"event":"archived"}`))
	var std *errors.StandardError
	require.True(t, stderrors.As(err, &std))
	assert.Equal(t, errors.ErrCodeInvalidInput, std.Code)
}
