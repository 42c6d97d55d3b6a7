// internal/stores/jobs_postgres.go
package stores

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "job-recommender/internal/common/errors"
	"job-recommender/internal/common/logger"
	"job-recommender/internal/models"
)

const selectOpenJobsQuery = `
	SELECT id, title, COALESCE(category, ''), required_skills, COALESCE(description, ''), visibility, status
	FROM job_postings
	WHERE visibility = $1 AND status = $2
	ORDER BY created_at DESC, id`

const selectOpenJobsLimitQuery = selectOpenJobsQuery + `
	LIMIT $3`

// JobsPostgres returns the open postings snapshot from the marketplace
// database. A limit of zero or less loads every open posting.
type JobsPostgres struct {
	db    *sql.DB
	limit int
	log   logger.Logger
}

func NewJobsPostgres(db *sql.DB, limit int, opts ...Option) *JobsPostgres {
	if limit < 0 {
		limit = 0
	}
	o := buildOptions(opts)
	return &JobsPostgres{db: db, limit: limit, log: o.log}
}

func (s *JobsPostgres) FindActive(ctx context.Context) ([]models.JobPosting, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if s.limit > 0 {
		rows, err = s.db.QueryContext(ctx, selectOpenJobsLimitQuery, models.VisibilityPublic, models.StatusPending, s.limit)
	} else {
		rows, err = s.db.QueryContext(ctx, selectOpenJobsQuery, models.VisibilityPublic, models.StatusPending)
	}
	if err != nil {
		return nil, apperrors.NewJobStoreFailedError(fmt.Errorf("query open postings: %w", err))
	}
	defer rows.Close()

	jobs := make([]models.JobPosting, 0, 64)
	for rows.Next() {
		var (
			job    models.JobPosting
			skills []byte
		)
		if err := rows.Scan(&job.ID, &job.Title, &job.Category, &skills, &job.Description, &job.Visibility, &job.Status); err != nil {
			return nil, apperrors.NewJobStoreFailedError(fmt.Errorf("scan posting: %w", err))
		}
		if job.RequiredSkills, err = decodeSkills(skills); err != nil {
			return nil, apperrors.NewJobStoreFailedError(fmt.Errorf("decode skills for posting %s: %w", job.ID, err))
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewJobStoreFailedError(fmt.Errorf("iterate postings: %w", err))
	}
	if s.limit > 0 && len(jobs) == s.limit {
		warnTruncated(s.log, "postgres", s.limit)
	}
	return jobs, nil
}
