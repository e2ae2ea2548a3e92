package n8n

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"research-desk/config"
	"research-desk/models"
	"research-desk/providers"
)

// ErrNotConfigured is returned when no webhook URL is set.
var ErrNotConfigured = errors.New("n8n webhook not configured")

// item is one element of the webhook's JSON array.
type item struct {
	Title    string `json:"title"`
	Authors  any    `json:"authors"`
	Abstract string `json:"abstract"`
	Date     string `json:"date"`
	PDFURL   string `json:"pdf_url"`
}

// Fetcher calls the area-papers workflow webhook.
type Fetcher struct {
	webhookURL string
	http       *http.Client
	logger     *zap.Logger
}

func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		webhookURL: cfg.N8NWebhookURL,
		http:       providers.NewHTTPClient(cfg.HTTPTimeout),
		logger:     logger.With(zap.String("provider", "n8n")),
	}
}

// Configured reports whether a webhook URL is set.
func (f *Fetcher) Configured() bool {
	return f.webhookURL != ""
}

// Papers asks the workflow for papers matching tag. Each word of tag becomes
// tag1..tagN; from and to are forwarded only when set.
func (f *Fetcher) Papers(ctx context.Context, tag, from, to string) (papers []models.TopicPaper, err error) {
	if !f.Configured() {
		return nil, ErrNotConfigured
	}
	defer func() { providers.Observe("n8n", err) }()

	u, err := url.Parse(f.webhookURL)
	if err != nil {
		return nil, fmt.Errorf("parse webhook url: %w", err)
	}
	params := u.Query()
	for i, word := range strings.Fields(tag) {
		params.Set("tag"+strconv.Itoa(i+1), word)
	}
	if from != "" {
		params.Set("from", from)
	}
	if to != "" {
		params.Set("to", to)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("n8n request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("n8n returned status %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode n8n response: %w", err)
	}
	return transform(raw, f.logger), nil
}

// transform maps the webhook payload; anything but an array yields no papers.
func transform(raw json.RawMessage, logger *zap.Logger) []models.TopicPaper {
	var items []item
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warn("n8n payload is not an array of papers", zap.Error(err))
		return []models.TopicPaper{}
	}
	papers := make([]models.TopicPaper, 0, len(items))
	for _, it := range items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		papers = append(papers, models.TopicPaper{
			ID:          PaperID(title, it.PDFURL),
			Title:       title,
			Authors:     joinAuthors(it.Authors),
			Description: it.Abstract,
			Date:        it.Date,
			PDFLink:     it.PDFURL,
		})
	}
	return papers
}

// PaperID derives a stable id from title and PDF link.
func PaperID(title, pdfURL string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + pdfURL))
	return "n8n-" + hex.EncodeToString(sum[:])[:16]
}

// joinAuthors accepts either a string or a list of names.
func joinAuthors(v any) string {
	switch a := v.(type) {
	case string:
		return a
	case []any:
		names := make([]string, 0, len(a))
		for _, n := range a {
			if s, ok := n.(string); ok && s != "" {
				names = append(names, s)
			}
		}
		return strings.Join(names, ", ")
	}
	return ""
}
