// internal/recommendation/tfidf.go
package recommendation

import (
	"math"

	"job-recommender/internal/models"
)

// corpus holds term statistics for one request. It is built, queried and
// dropped inside ScoreText and never shared.
type corpus struct {
	docs []map[string]int
	df   map[string]int
}

func newCorpus(capacity int) *corpus {
	return &corpus{
		docs: make([]map[string]int, 0, capacity),
		df:   make(map[string]int),
	}
}

func (c *corpus) add(terms []string) {
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	for t := range counts {
		c.df[t]++
	}
	c.docs = append(c.docs, counts)
}

// tfidf is raw term count times a smoothed idf of 1 + ln(N / (1 + df)).
// The idf stays positive for any corpus of two or more documents.
func (c *corpus) tfidf(term string, doc int) float64 {
	tf := c.docs[doc][term]
	if tf == 0 {
		return 0
	}
	idf := 1 + math.Log(float64(len(c.docs))/float64(1+c.df[term]))
	return float64(tf) * idf
}

func seekerDocument(seeker *models.SeekerProfile) []string {
	parts := make([]string, 0, len(seeker.Skills)+2)
	parts = append(parts, seeker.Profession)
	parts = append(parts, seeker.Skills...)
	parts = append(parts, seeker.Bio)
	return Normalize(parts...)
}

func jobDocument(job *models.JobPosting) []string {
	parts := make([]string, 0, len(job.RequiredSkills)+2)
	parts = append(parts, job.Title)
	parts = append(parts, job.RequiredSkills...)
	parts = append(parts, job.Description)
	return Normalize(parts...)
}

// ScoreText returns one text similarity score per job, aligned with jobs.
// ok is false when the seeker document has no usable terms, in which case
// every score is zero.
func ScoreText(seeker *models.SeekerProfile, jobs []models.JobPosting) (scores []float64, ok bool) {
	scores = make([]float64, len(jobs))

	query := seekerDocument(seeker)
	if len(query) == 0 {
		return scores, false
	}

	c := newCorpus(len(jobs) + 1)
	c.add(query)
	for i := range jobs {
		c.add(jobDocument(&jobs[i]))
	}

	for i := range jobs {
		var sum float64
		for _, t := range query {
			sum += c.tfidf(t, i+1)
		}
		scores[i] = sum / float64(len(query))
	}
	return scores, true
}
