package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecker_Ready(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	mock.ExpectPing()

	h := &HealthChecker{DB: db, Redis: rdb}
	require.NoError(t, h.Ready(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthChecker_PostgresDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(fmt.Errorf("connection refused"))

	h := &HealthChecker{DB: db}
	err = h.Ready(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: connection refused")
}

func TestHealthChecker_RedisDownStaysReady(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()
	mock.ExpectPing()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	h := &HealthChecker{DB: db, Redis: rdb}
	status := h.Check(context.Background())
	assert.NoError(t, status["postgres"])
	assert.Error(t, status["redis"])
	assert.NoError(t, h.Ready(context.Background()))
}
