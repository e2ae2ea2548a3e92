package services

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"research-desk/models"
	"research-desk/providers"
)

const (
	defaultQueryLimit   = 20
	defaultKeywordLimit = 30
	maxSearchLimit      = 100
)

// SearchRequest is either a free-text query or a comma-separated keyword list.
type SearchRequest struct {
	Query    string
	Keywords string
	Limit    string
}

// SearchService runs paper searches against one provider.
type SearchService struct {
	provider providers.Provider
	logger   *zap.Logger
}

func NewSearchService(provider providers.Provider, logger *zap.Logger) *SearchService {
	return &SearchService{provider: provider, logger: logger.With(zap.String("provider", provider.Name()))}
}

// Search returns at most limit papers in the provider's order. Keywords are
// OR-ed together; an empty keyword list returns no papers without a request.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) ([]models.ArxivPaper, error) {
	var query string
	limit := defaultQueryLimit
	switch {
	case req.Keywords != "":
		limit = defaultKeywordLimit
		keywords := splitKeywords(req.Keywords)
		if len(keywords) == 0 {
			return []models.ArxivPaper{}, nil
		}
		query = "all:" + strings.Join(keywords, " OR ")
	case strings.TrimSpace(req.Query) != "":
		query = "all:" + strings.TrimSpace(req.Query)
	default:
		return nil, invalid("Query or keywords required")
	}
	limit = parseLimit(req.Limit, limit)

	papers, err := s.provider.Search(ctx, query, limit)
	if err != nil {
		return nil, &UpstreamError{Message: "Failed to search arXiv", Err: err}
	}
	if len(papers) > limit {
		papers = papers[:limit]
	}
	return papers, nil
}

func splitKeywords(csv string) []string {
	var out []string
	for _, k := range strings.Split(csv, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func parseLimit(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	if n > maxSearchLimit {
		return maxSearchLimit
	}
	return n
}
