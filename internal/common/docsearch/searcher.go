// Package docsearch looks up Jira documentation snippets in Elasticsearch,
// caching result sets in Redis.
package docsearch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jira-assistant/internal/common/database"
	apperrors "jira-assistant/internal/common/errors"
	"jira-assistant/internal/common/logger"
	"jira-assistant/internal/common/metrics"
	"jira-assistant/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Index    string
	MaxHits  int
	CacheTTL time.Duration
}

type Searcher struct {
	config *Config
	es     *elasticsearch.Client
	cache  redis.Cmdable
	logger logger.Logger
}

// NewSearcher builds a searcher. cache may be nil to disable caching.
func NewSearcher(config *Config, es *elasticsearch.Client, cache redis.Cmdable, log logger.Logger) *Searcher {
	return &Searcher{
		config: config,
		es:     es,
		cache:  cache,
		logger: logger.ForComponent(log, "docsearch"),
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64 `json:"_score"`
			Source struct {
				Title   string `json:"title"`
				Content string `json:"content"`
				URL     string `json:"url"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search returns the best matching snippets. An empty slice is a valid result.
func (s *Searcher) Search(ctx context.Context, query string) ([]models.Snippet, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Snippet{}, nil
	}

	key := cacheKey(query)
	if snippets, ok := s.fromCache(ctx, key); ok {
		metrics.SearchRequests.WithLabelValues("cache_hit").Inc()
		return snippets, nil
	}

	snippets, err := s.execute(ctx, query)
	if err != nil {
		metrics.SearchRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	if len(snippets) == 0 {
		metrics.SearchRequests.WithLabelValues("empty").Inc()
	} else {
		metrics.SearchRequests.WithLabelValues("hit").Inc()
	}
	s.toCache(ctx, key, snippets)
	return snippets, nil
}

func (s *Searcher) execute(ctx context.Context, query string) ([]models.Snippet, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^2", "content"},
			},
		},
	})

	size := s.config.MaxHits
	req := esapi.SearchRequest{
		Index: []string{s.config.Index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.es)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, apperrors.NewSearchQueryFailedError(query, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		s.logger.Warn("documentation index missing", map[string]interface{}{"index": s.config.Index})
		return []models.Snippet{}, nil
	}
	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(query, fmt.Errorf("status %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(query, fmt.Errorf("decode error: %w", err))
	}

	snippets := make([]models.Snippet, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		if strings.TrimSpace(hit.Source.Content) == "" {
			continue
		}
		snippets = append(snippets, models.Snippet{
			Content: hit.Source.Content,
			Score:   hit.Score,
			Title:   hit.Source.Title,
			URL:     hit.Source.URL,
		})
	}
	return snippets, nil
}

func (s *Searcher) fromCache(ctx context.Context, key string) ([]models.Snippet, bool) {
	if s.cache == nil {
		return nil, false
	}
	val, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("search cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}
	var snippets []models.Snippet
	if err := json.Unmarshal([]byte(val), &snippets); err != nil {
		return nil, false
	}
	return snippets, true
}

func (s *Searcher) toCache(ctx context.Context, key string, snippets []models.Snippet) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(snippets)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL).Err(); err != nil {
		s.logger.Debug("search cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(query)))
	return database.Key("docs", hex.EncodeToString(sum[:]))
}
