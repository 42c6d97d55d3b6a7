package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
app:
  name: job-recommender
  version: 1.2.0
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: marketplace
    user: recommender
    password: ${TEST_RECOMMENDER_DB_PASSWORD}
  redis:
    address: localhost:6379
workers:
  recommend-jobs:
    enabled: true
    max_jobs_active: 8
  invalidate-recommendations:
    enabled: false
recommendation:
  cache_ttl: 60000
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_DefaultsAndExpansion(t *testing.T) {
	t.Setenv("TEST_RECOMMENDER_DB_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)

	assert.Equal(t, JobSourcePostgres, cfg.Recommendation.JobSource)
	assert.Equal(t, "job_postings", cfg.Recommendation.JobIndex)
	assert.Equal(t, 15, cfg.Recommendation.MaxResults)
	assert.Zero(t, cfg.Recommendation.MaxCandidates, "unbounded unless configured")
	assert.Equal(t, 60000, cfg.Recommendation.CacheTTL)
	assert.True(t, cfg.Recommendation.IsCacheEnabled())

	rec := GetWorkerConfig(cfg, "recommend-jobs")
	assert.True(t, rec.Enabled)
	assert.Equal(t, 8, rec.MaxJobsActive)
	assert.Equal(t, 30000, rec.Timeout)
	assert.Equal(t, 3, rec.MaxRetries)

	assert.False(t, IsWorkerEnabled(cfg, "invalidate-recommendations"))
	assert.True(t, IsWorkerEnabled(cfg, "unknown-worker"))
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing broker",
			yaml: `
database:
  postgres: {host: h, database: d, user: u}
  redis: {address: r:6379}
`,
			wantErr: "camunda.broker_address is required",
		},
		{
			name: "missing redis",
			yaml: `
camunda: {broker_address: z:26500}
database:
  postgres: {host: h, database: d, user: u}
`,
			wantErr: "database.redis.address is required",
		},
		{
			name: "elasticsearch source without addresses",
			yaml: `
camunda: {broker_address: z:26500}
database:
  postgres: {host: h, database: d, user: u}
  redis: {address: r:6379}
recommendation: {job_source: elasticsearch}
`,
			wantErr: "database.elasticsearch.addresses or url is required",
		},
		{
			name: "unknown job source",
			yaml: `
camunda: {broker_address: z:26500}
database:
  postgres: {host: h, database: d, user: u}
  redis: {address: r:6379}
recommendation: {job_source: mongo}
`,
			wantErr: "recommendation.job_source must be",
		},
		{
			name: "negative candidate cap",
			yaml: `
camunda: {broker_address: z:26500}
database:
  postgres: {host: h, database: d, user: u}
  redis: {address: r:6379}
recommendation: {max_candidates: -5}
`,
			wantErr: "recommendation.max_candidates must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ZEEBE_ADDRESS", "")
			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_ElasticsearchSource(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `
camunda: {broker_address: z:26500}
database:
  postgres: {host: h, database: d, user: u}
  redis: {address: r:6379}
  elasticsearch:
    url: http://es:9200
recommendation:
  job_source: elasticsearch
  cache_enabled: false
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://es:9200"}, cfg.Database.Elasticsearch.GetAddresses())
	assert.False(t, cfg.Recommendation.IsCacheEnabled())
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "m", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=m sslmode=disable", p.GetDSN())
}
