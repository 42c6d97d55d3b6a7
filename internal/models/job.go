// internal/models/job.go
package models

const (
	VisibilityPublic = "public"
	StatusPending    = "pending"
)

type JobPosting struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	RequiredSkills []string `json:"requiredSkills"`
	Description    string   `json:"description"`
	Visibility     string   `json:"visibility"`
	Status         string   `json:"status"`
}

// IsOpen reports whether the posting is eligible as a recommendation candidate.
func (j *JobPosting) IsOpen() bool {
	return j.Visibility == VisibilityPublic && j.Status == StatusPending
}
