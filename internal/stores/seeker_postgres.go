// internal/stores/seeker_postgres.go
package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "job-recommender/internal/common/errors"
	"job-recommender/internal/models"
	"job-recommender/internal/recommendation"
)

const selectSeekerQuery = `
	SELECT id, COALESCE(profession, ''), skills, COALESCE(bio, '')
	FROM seekers
	WHERE id = $1`

// SeekerPostgres reads seeker profiles. Skills are stored as a JSON array.
type SeekerPostgres struct {
	db *sql.DB
}

func NewSeekerPostgres(db *sql.DB) *SeekerPostgres {
	return &SeekerPostgres{db: db}
}

func (s *SeekerPostgres) GetByID(ctx context.Context, id string) (*models.SeekerProfile, error) {
	var (
		profile models.SeekerProfile
		skills  []byte
	)
	err := s.db.QueryRowContext(ctx, selectSeekerQuery, id).
		Scan(&profile.ID, &profile.Profession, &skills, &profile.Bio)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("seeker %s: %w", id, recommendation.ErrSeekerNotFound)
	}
	if err != nil {
		return nil, apperrors.NewSeekerStoreFailedError(fmt.Errorf("query seeker %s: %w", id, err))
	}

	profile.Skills, err = decodeSkills(skills)
	if err != nil {
		return nil, apperrors.NewSeekerStoreFailedError(fmt.Errorf("decode skills for seeker %s: %w", id, err))
	}
	return &profile, nil
}

// decodeSkills accepts NULL or a JSON array of strings.
func decodeSkills(raw []byte) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}, nil
	}
	var skills []string
	if err := json.Unmarshal(raw, &skills); err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []string{}
	}
	return skills, nil
}
