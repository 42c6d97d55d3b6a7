// internal/recommendation/category.go
package recommendation

import (
	"strings"

	"job-recommender/internal/models"
)

// categoryKeywords is a small table of job category keys to words that hint
// at them in a seeker's skills or title.
var categoryKeywords = map[string][]string{
	"home_services":      {"cleaning", "cooking", "laundry"},
	"repairs":            {"repair", "fix", "maintenance"},
	"computer_it":        {"computer", "software", "programming"},
	"education_training": {"teaching", "tutoring", "training"},
	"gardening_farming":  {"gardening", "farming", "landscaping"},
}

// ScoreCategory rates how well a seeker's profession and skills line up with
// a posting's title and category. Rules are checked in order and the first
// hit wins.
func ScoreCategory(seeker *models.SeekerProfile, job *models.JobPosting) float64 {
	title := strings.ToLower(strings.TrimSpace(seeker.Profession))
	skills := lowerAll(seeker.Skills)
	if title == "" && len(skills) == 0 {
		return 0
	}

	jobTitle := strings.ToLower(strings.TrimSpace(job.Title))
	category := strings.ToLower(strings.TrimSpace(job.Category))

	if title != "" && (overlaps(title, jobTitle) || overlaps(title, category)) {
		return 1.0
	}

	if category != "" {
		for _, s := range skills {
			if s == category {
				return 0.9
			}
		}
	}

	keywords, ok := categoryKeywords[categoryKey(category)]
	if !ok {
		return 0
	}
	for _, s := range skills {
		for _, kw := range keywords {
			if overlaps(s, kw) {
				return 0.7
			}
		}
	}
	if title != "" {
		for _, kw := range keywords {
			if overlaps(title, kw) {
				return 0.6
			}
		}
	}
	return 0
}

// overlaps is substring containment in either direction on lowercased
// input. Empty strings never overlap.
func overlaps(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func categoryKey(category string) string {
	return strings.NewReplacer(" ", "_", "-", "_").Replace(category)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
