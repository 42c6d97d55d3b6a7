// internal/stores/jobs_elasticsearch.go
package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	apperrors "job-recommender/internal/common/errors"
	"job-recommender/internal/common/logger"
	"job-recommender/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

type esJobDocument struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	RequiredSkills []string `json:"required_skills"`
	Description    string   `json:"description"`
	Visibility     string   `json:"visibility"`
	Status         string   `json:"status"`
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string            `json:"_id"`
			Source esJobDocument     `json:"_source"`
			Sort   []json.RawMessage `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
}

// esPageSize bounds one search request; the pool is read with search_after.
const esPageSize = 500

// JobsElasticsearch reads open postings from the search index. A limit of
// zero or less pages through every open posting.
type JobsElasticsearch struct {
	client   *elasticsearch.Client
	index    string
	limit    int
	pageSize int
	log      logger.Logger
}

func NewJobsElasticsearch(client *elasticsearch.Client, index string, limit int, opts ...Option) *JobsElasticsearch {
	if limit < 0 {
		limit = 0
	}
	o := buildOptions(opts)
	return &JobsElasticsearch{client: client, index: index, limit: limit, pageSize: esPageSize, log: o.log}
}

func buildOpenJobsQuery(size int, searchAfter []json.RawMessage) map[string]interface{} {
	query := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"visibility": models.VisibilityPublic}},
					map[string]interface{}{"term": map[string]interface{}{"status": models.StatusPending}},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"created_at": map[string]interface{}{"order": "desc", "unmapped_type": "date"}},
			map[string]interface{}{"id": map[string]interface{}{"order": "asc", "unmapped_type": "keyword"}},
		},
	}
	if len(searchAfter) > 0 {
		query["search_after"] = searchAfter
	}
	return query
}

func (s *JobsElasticsearch) FindActive(ctx context.Context) ([]models.JobPosting, error) {
	jobs := make([]models.JobPosting, 0, 64)
	var after []json.RawMessage

	for {
		size := s.pageSize
		if s.limit > 0 && s.limit-len(jobs) < size {
			size = s.limit - len(jobs)
		}

		page, err := s.search(ctx, buildOpenJobsQuery(size, after))
		if err != nil {
			return nil, err
		}

		for _, hit := range page.Hits.Hits {
			jobs = append(jobs, toPosting(hit.ID, hit.Source))
		}

		hits := page.Hits.Hits
		if len(hits) < size {
			return jobs, nil
		}
		if s.limit > 0 && len(jobs) >= s.limit {
			warnTruncated(s.log, "elasticsearch", s.limit)
			return jobs, nil
		}
		after = hits[len(hits)-1].Sort
		if len(after) == 0 {
			return nil, apperrors.NewJobStoreFailedError(fmt.Errorf("search %s: hit without sort values", s.index))
		}
	}
}

func (s *JobsElasticsearch) search(ctx context.Context, query map[string]interface{}) (*esSearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, apperrors.NewJobStoreFailedError(fmt.Errorf("encode search body: %w", err))
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, apperrors.NewJobStoreFailedError(fmt.Errorf("search %s: %w", s.index, err))
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, apperrors.NewJobStoreFailedError(fmt.Errorf("search %s: %s: %s", s.index, res.Status(), bytes.TrimSpace(msg)))
	}

	var parsed esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewJobStoreFailedError(fmt.Errorf("decode search response: %w", err))
	}
	return &parsed, nil
}

func toPosting(hitID string, doc esJobDocument) models.JobPosting {
	if doc.ID == "" {
		doc.ID = hitID
	}
	if doc.RequiredSkills == nil {
		doc.RequiredSkills = []string{}
	}
	return models.JobPosting{
		ID:             doc.ID,
		Title:          doc.Title,
		Category:       doc.Category,
		RequiredSkills: doc.RequiredSkills,
		Description:    doc.Description,
		Visibility:     doc.Visibility,
		Status:         doc.Status,
	}
}
