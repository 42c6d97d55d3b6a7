// internal/constants/redis_keys.go
package constants

// Redis keys follow {module}:{entity}:{id}.
const (
	RecommendModulePrefix = "recommend"
	EntityJobs            = "jobs"

	// KeyRecommendationResult caches one seeker's ranked list (STRING, JSON).
	// Format: recommend:jobs:{seekerID}:g{generation}
	KeyRecommendationResult = RecommendModulePrefix + ":" + EntityJobs + ":%s:g%d"

	// KeyRecommendationGeneration is bumped whenever the posting pool changes (STRING, INCR).
	// Format: recommend:jobs:generation
	KeyRecommendationGeneration = RecommendModulePrefix + ":" + EntityJobs + ":generation"
)
