// internal/models/seeker.go
package models

import "strings"

// SeekerProfile is the read-only view of a job seeker used for recommendations.
type SeekerProfile struct {
	ID         string   `json:"id"`
	Profession string   `json:"profession"`
	Skills     []string `json:"skills"`
	Bio        string   `json:"bio"`
}

// HasSkills reports whether at least one skill is more than whitespace.
func (s *SeekerProfile) HasSkills() bool {
	for _, skill := range s.Skills {
		if strings.TrimSpace(skill) != "" {
			return true
		}
	}
	return false
}
