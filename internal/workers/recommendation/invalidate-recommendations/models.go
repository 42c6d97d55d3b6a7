// internal/workers/recommendation/invalidate-recommendations/models.go
package invalidaterecommendations

type Input struct {
	JobID string `json:"jobId,omitempty"`
	Event string `json:"event,omitempty"`
}

type Output struct {
	Generation int64 `json:"generation"`
}
