package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"research-desk/models"
)

// AreaPaperService serves candidate papers for a research area through the lookup cache.
type AreaPaperService struct {
	source AreaPaperSource
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewAreaPaperService(source AreaPaperSource, cache Cache, ttl time.Duration, logger *zap.Logger) *AreaPaperService {
	return &AreaPaperService{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(zap.String("service", "area_papers")),
	}
}

// CacheKey is the lookup cache key for one tag and date range.
func CacheKey(tag, from, to string) string {
	return "area-papers:" + tag + "|" + from + "|" + to
}

// Papers returns the papers for tag between from and to (both optional, YYYY-MM-DD).
func (s *AreaPaperService) Papers(ctx context.Context, tag, from, to string) ([]models.TopicPaper, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, invalid("Tag is required")
	}
	if !s.source.Configured() {
		return nil, &NotConfiguredError{Resource: "n8n webhook"}
	}
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	key := CacheKey(tag, from, to)
	log := s.logger.With(zap.String("key", key))

	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached []models.TopicPaper
		if err := json.Unmarshal(raw, &cached); err == nil && cached != nil {
			log.Debug("Area papers served from cache", zap.Int("count", len(cached)))
			return cached, nil
		}
		log.Warn("Discarding unreadable cache entry")
	}

	papers, err := s.source.Papers(ctx, tag, from, to)
	if err != nil {
		return nil, &UpstreamError{Message: "Failed to fetch papers", Err: err}
	}
	if raw, err := json.Marshal(papers); err == nil {
		s.cache.Set(ctx, key, raw, s.ttl)
	}
	return papers, nil
}
