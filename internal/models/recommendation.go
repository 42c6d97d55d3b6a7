// internal/models/recommendation.go
package models

type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchRelated MatchType = "related"
)

type MatchedSkill struct {
	SeekerSkill string    `json:"seekerSkill"`
	JobSkill    string    `json:"jobSkill"`
	MatchType   MatchType `json:"matchType"`
}

// ScoredJob is a candidate posting annotated with its ranking signals.
// SimilarityScore is the fused score rounded to two decimals.
type ScoredJob struct {
	JobPosting

	SimilarityScore      float64        `json:"similarityScore"`
	SkillScore           float64        `json:"skillScore"`
	CategoryScore        float64        `json:"categoryScore"`
	TfidfScore           float64        `json:"tfidfScore"`
	MatchedSkills        []MatchedSkill `json:"matchedSkills"`
	ExactMatches         int            `json:"exactMatches"`
	RelatedMatches       int            `json:"relatedMatches"`
	RecommendationReason string         `json:"recommendationReason"`
}
