// internal/recommendation/skills.go
package recommendation

import (
	"math"

	"job-recommender/internal/models"
)

const (
	exactMatchWeight   = 1.0
	relatedMatchWeight = 0.7
)

// SkillMatchResult is the overlap between a seeker's skills and the skills a
// posting requires.
type SkillMatchResult struct {
	Score        float64
	Matches      []models.MatchedSkill
	ExactCount   int
	RelatedCount int
}

// ScoreSkills scores every related (seeker, job) skill pair once. The score
// is the weighted match count over the number of required skills, capped at 1.
func (o *Ontology) ScoreSkills(seekerSkills, jobSkills []string) SkillMatchResult {
	result := SkillMatchResult{Matches: []models.MatchedSkill{}}
	if len(seekerSkills) == 0 || len(jobSkills) == 0 {
		return result
	}

	seen := make(map[[2]string]struct{})
	for _, s := range seekerSkills {
		ns := NormalizeSkill(s)
		for _, j := range jobSkills {
			if !o.Related(s, j) {
				continue
			}
			nj := NormalizeSkill(j)
			pair := [2]string{ns, nj}
			if _, dup := seen[pair]; dup {
				continue
			}
			seen[pair] = struct{}{}

			matchType := models.MatchRelated
			if ns == nj {
				matchType = models.MatchExact
				result.ExactCount++
			} else {
				result.RelatedCount++
			}
			result.Matches = append(result.Matches, models.MatchedSkill{
				SeekerSkill: s,
				JobSkill:    j,
				MatchType:   matchType,
			})
		}
	}

	weighted := float64(result.ExactCount)*exactMatchWeight + float64(result.RelatedCount)*relatedMatchWeight
	result.Score = math.Min(weighted/float64(len(jobSkills)), 1.0)
	return result
}
