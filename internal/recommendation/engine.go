// internal/recommendation/engine.go
package recommendation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"job-recommender/internal/common/logger"
	"job-recommender/internal/common/metrics"
	"job-recommender/internal/models"
)

const (
	skillWeight    = 0.5
	categoryWeight = 0.3
	textWeight     = 0.2

	minThreshold    = 0.2
	thresholdFactor = 0.4

	DefaultMaxResults = 15

	strongCategoryScore = 0.7
	strongTextScore     = 0.3
)

// ErrSeekerNotFound is returned by a SeekerStore when the id does not resolve.
var ErrSeekerNotFound = errors.New("seeker not found")

type SeekerStore interface {
	GetByID(ctx context.Context, id string) (*models.SeekerProfile, error)
}

// JobStore returns open postings. The engine filters out anything that is not
// public and pending, so a store may return a superset.
type JobStore interface {
	FindActive(ctx context.Context) ([]models.JobPosting, error)
}

type scoreFunc func(seeker *models.SeekerProfile, job *models.JobPosting, textScore float64) (models.ScoredJob, float64)

// Engine ranks open postings for a seeker. It keeps no state between calls
// and is safe for concurrent use.
type Engine struct {
	seekers    SeekerStore
	jobs       JobStore
	ontology   *Ontology
	logger     logger.Logger
	maxResults int

	scoreCandidate scoreFunc
}

type Option func(*Engine)

func WithOntology(o *Ontology) Option {
	return func(e *Engine) { e.ontology = o }
}

// WithMaxResults caps the result list. Values below 1 are ignored.
func WithMaxResults(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.maxResults = n
		}
	}
}

func NewEngine(seekers SeekerStore, jobs JobStore, log logger.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	e := &Engine{
		seekers:    seekers,
		jobs:       jobs,
		ontology:   DefaultOntology(),
		logger:     log,
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.scoreCandidate = e.scoreJob
	return e
}

// Recommend loads the seeker and the open postings and returns the ranked
// shortlist. Store errors are returned unchanged.
func (e *Engine) Recommend(ctx context.Context, seekerID string) ([]models.ScoredJob, error) {
	start := time.Now()
	defer func() { metrics.RecommendationDuration.Observe(time.Since(start).Seconds()) }()

	seeker, err := e.seekers.GetByID(ctx, seekerID)
	if err != nil {
		metrics.RecommendationRequests.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
	if !seeker.HasSkills() {
		e.logger.Warn("seeker has no skills, skipping recommendations", map[string]interface{}{
			"seekerId": seekerID,
		})
		metrics.RecommendationRequests.WithLabelValues(metrics.OutcomeInsufficient).Inc()
		return []models.ScoredJob{}, nil
	}

	candidates, err := e.jobs.FindActive(ctx)
	if err != nil {
		metrics.RecommendationRequests.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	results, outcome := e.rank(seeker, candidates)
	metrics.RecommendationRequests.WithLabelValues(outcome).Inc()
	return results, nil
}

// Rank scores candidates for seeker without touching the stores.
func (e *Engine) Rank(seeker *models.SeekerProfile, candidates []models.JobPosting) []models.ScoredJob {
	results, _ := e.rank(seeker, candidates)
	return results
}

type rankedCandidate struct {
	job      models.ScoredJob
	combined float64
}

func (e *Engine) rank(seeker *models.SeekerProfile, candidates []models.JobPosting) ([]models.ScoredJob, string) {
	start := time.Now()
	if seeker == nil || !seeker.HasSkills() {
		return []models.ScoredJob{}, metrics.OutcomeInsufficient
	}

	eligible := make([]models.JobPosting, 0, len(candidates))
	for i := range candidates {
		if candidates[i].IsOpen() {
			eligible = append(eligible, candidates[i])
		}
	}
	if len(eligible) == 0 {
		e.logger.Warn("no open postings to rank", map[string]interface{}{
			"seekerId":   seeker.ID,
			"candidates": len(candidates),
		})
		return []models.ScoredJob{}, metrics.OutcomeEmpty
	}

	textScores, ok := ScoreText(seeker, eligible)
	if !ok {
		e.logger.Warn("seeker profile has no usable text, text similarity is zero", map[string]interface{}{
			"seekerId": seeker.ID,
		})
	}

	ranked := make([]rankedCandidate, len(eligible))
	var total float64
	failures := 0
	for i := range eligible {
		job, combined, err := e.safeScore(seeker, &eligible[i], textScores[i])
		if err != nil {
			failures++
			e.logger.Error("failed to score candidate", map[string]interface{}{
				"seekerId": seeker.ID,
				"jobId":    eligible[i].ID,
				"error":    err,
			})
		}
		ranked[i] = rankedCandidate{job: job, combined: combined}
		total += combined
	}
	metrics.CandidatesScored.Add(float64(len(eligible)))
	if failures > 0 {
		metrics.CandidateFailures.Add(float64(failures))
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].combined > ranked[b].combined
	})

	// Mean is taken over every candidate, including those about to be cut.
	threshold := math.Max(minThreshold, total/float64(len(ranked))*thresholdFactor)

	results := make([]models.ScoredJob, 0, e.maxResults)
	for _, rc := range ranked {
		if rc.combined < threshold || len(results) == e.maxResults {
			break
		}
		scored := rc.job
		scored.SimilarityScore = math.Round(rc.combined*100) / 100
		scored.RecommendationReason = buildReason(&scored)
		results = append(results, scored)
	}

	e.logger.Info("recommendations ranked", map[string]interface{}{
		"seekerId":   seeker.ID,
		"candidates": len(eligible),
		"failures":   failures,
		"threshold":  threshold,
		"returned":   len(results),
		"durationMs": time.Since(start).Milliseconds(),
	})

	if len(results) == 0 {
		return results, metrics.OutcomeEmpty
	}
	return results, metrics.OutcomeServed
}

// safeScore isolates a single candidate. A panic while scoring yields a zero
// score for that posting only.
func (e *Engine) safeScore(seeker *models.SeekerProfile, job *models.JobPosting, textScore float64) (scored models.ScoredJob, combined float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			scored = zeroScored(job)
			combined = 0
			err = fmt.Errorf("scoring panicked: %v", r)
		}
	}()
	scored, combined = e.scoreCandidate(seeker, job, textScore)
	return scored, combined, nil
}

func (e *Engine) scoreJob(seeker *models.SeekerProfile, job *models.JobPosting, textScore float64) (models.ScoredJob, float64) {
	skills := e.ontology.ScoreSkills(seeker.Skills, job.RequiredSkills)
	category := ScoreCategory(seeker, job)

	combined := skills.Score*skillWeight +
		category*categoryWeight +
		math.Min(textScore, 1.0)*textWeight

	return models.ScoredJob{
		JobPosting:     *job,
		SkillScore:     skills.Score,
		CategoryScore:  category,
		TfidfScore:     textScore,
		MatchedSkills:  skills.Matches,
		ExactMatches:   skills.ExactCount,
		RelatedMatches: skills.RelatedCount,
	}, combined
}

func zeroScored(job *models.JobPosting) models.ScoredJob {
	return models.ScoredJob{
		JobPosting:    *job,
		MatchedSkills: []models.MatchedSkill{},
	}
}

func buildReason(s *models.ScoredJob) string {
	var reasons []string
	if s.ExactMatches > 0 {
		reasons = append(reasons, pluralize(s.ExactMatches, "exact skill match", "exact skill matches"))
	}
	if s.RelatedMatches > 0 {
		reasons = append(reasons, pluralize(s.RelatedMatches, "related skill", "related skills"))
	}
	if s.CategoryScore > strongCategoryScore {
		reasons = append(reasons, "title matches your profession")
	}
	if s.TfidfScore > strongTextScore {
		reasons = append(reasons, "strong profile similarity")
	}
	if len(reasons) == 0 {
		return "matches your interests"
	}
	return strings.Join(reasons, ", ")
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
