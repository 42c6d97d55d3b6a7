// internal/workers/recommendation/recommend-jobs/models.go
package recommendjobs

import "job-recommender/internal/models"

type Input struct {
	SeekerID  string `json:"seekerId"`
	SkipCache bool   `json:"skipCache,omitempty"`
}

type Output struct {
	SeekerID        string             `json:"seekerId"`
	BatchID         string             `json:"batchId"`
	Recommendations []models.ScoredJob `json:"recommendations"`
	Count           int                `json:"count"`
	Cached          bool               `json:"cached"`
	GeneratedAt     string             `json:"generatedAt"`
}
