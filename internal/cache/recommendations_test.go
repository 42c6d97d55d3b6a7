package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"job-recommender/internal/constants"
	"job-recommender/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisCache(t *testing.T) (*Recommendations, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRecommendations(client, 2*time.Minute), mr
}

func sampleResults() []models.ScoredJob {
	return []models.ScoredJob{{
		JobPosting:           models.JobPosting{ID: "j-1", Title: "Plumber", RequiredSkills: []string{"plumbing"}},
		SimilarityScore:      0.7,
		SkillScore:           1,
		MatchedSkills:        []models.MatchedSkill{{SeekerSkill: "plumbing", JobSkill: "plumbing", MatchType: models.MatchExact}},
		ExactMatches:         1,
		RecommendationReason: "1 exact skill match",
	}}
}

func TestResultKey(t *testing.T) {
	assert.Equal(t, "recommend:jobs:s-1:g7", ResultKey("s-1", 7))
}

func TestRecommendations_RoundTripAndGeneration(t *testing.T) {
	c, mr := newMiniredisCache(t)
	ctx := context.Background()

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	_, hit, err := c.Get(ctx, "s-1", gen)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "s-1", gen, sampleResults()))
	got, hit, err := c.Get(ctx, "s-1", gen)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, sampleResults(), got)
	assert.Equal(t, 2*time.Minute, mr.TTL(ResultKey("s-1", gen)))

	next, err := c.Bump(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	_, hit, err = c.Get(ctx, "s-1", next)
	require.NoError(t, err)
	assert.False(t, hit, "new generation starts cold")
}

func TestRecommendations_CorruptEntry(t *testing.T) {
	c, mr := newMiniredisCache(t)
	require.NoError(t, mr.Set(ResultKey("s-1", 0), "{not json"))

	_, hit, err := c.Get(context.Background(), "s-1", 0)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestRecommendations_SetUsesTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRecommendations(client, 90*time.Second)

	data, err := json.Marshal(sampleResults())
	require.NoError(t, err)
	mock.ExpectSet("recommend:jobs:s-9:g3", data, 90*time.Second).SetVal("OK")

	require.NoError(t, c.Set(context.Background(), "s-9", 3, sampleResults()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendations_RedisErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRecommendations(client, time.Minute)
	ctx := context.Background()

	mock.ExpectGet(constants.KeyRecommendationGeneration).SetErr(fmt.Errorf("connection refused"))
	_, err := c.Generation(ctx)
	assert.ErrorContains(t, err, "read generation")

	mock.ExpectIncr(constants.KeyRecommendationGeneration).SetErr(fmt.Errorf("READONLY"))
	_, err = c.Bump(ctx)
	assert.ErrorContains(t, err, "bump generation")

	assert.NoError(t, mock.ExpectationsWereMet())
}
