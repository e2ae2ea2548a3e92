package arxiv

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"research-desk/config"
	"research-desk/models"
	"research-desk/providers"
)

// Fetcher queries the arXiv export API.
type Fetcher struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

var _ providers.Provider = (*Fetcher)(nil)

func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		baseURL: cfg.ArxivBaseURL,
		http:    providers.NewHTTPClient(cfg.HTTPTimeout),
		logger:  logger.With(zap.String("provider", "arxiv")),
	}
}

func (f *Fetcher) Name() string {
	return "arxiv"
}

// Search sends query as search_query, newest submissions first.
// An unparseable response body is logged and treated as zero results.
func (f *Fetcher) Search(ctx context.Context, query string, maxResults int) (papers []models.ArxivPaper, err error) {
	defer func() { providers.Observe(f.Name(), err) }()
	log := f.logger.With(zap.String("query", query))

	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/atom+xml")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned status %d", resp.StatusCode)
	}

	papers, perr := Translate(resp.Body)
	if perr != nil {
		log.Warn("Could not parse arXiv response", zap.Error(perr))
	}
	return papers, nil
}
