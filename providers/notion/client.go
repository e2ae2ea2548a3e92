package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"research-desk/config"
	"research-desk/providers"
)

const upstream = "notion"

// Client talks to the Notion REST API with one integration token.
type Client struct {
	baseURL string
	token   string
	version string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a client from the Notion settings in cfg.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.NotionBaseURL, "/"),
		token:   cfg.NotionToken,
		version: cfg.NotionVersion,
		http:    providers.NewHTTPClient(cfg.HTTPTimeout),
		logger:  logger.With(zap.String("provider", upstream)),
	}
}

// QueryDatabase fetches one page of results.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, q Query) (*QueryResult, error) {
	if q.PageSize == 0 {
		q.PageSize = MaxPageSize
	}
	var res QueryResult
	if err := c.do(ctx, http.MethodPost, "/databases/"+url.PathEscape(databaseID)+"/query", q, &res); err != nil {
		return nil, fmt.Errorf("query database %s: %w", databaseID, err)
	}
	return &res, nil
}

// QueryAll follows next_cursor until the database is exhausted.
func (c *Client) QueryAll(ctx context.Context, databaseID string, q Query) ([]Page, error) {
	var pages []Page
	for {
		res, err := c.QueryDatabase(ctx, databaseID, q)
		if err != nil {
			return nil, err
		}
		pages = append(pages, res.Results...)
		if !res.HasMore || res.NextCursor == nil || *res.NextCursor == "" {
			return pages, nil
		}
		q.StartCursor = *res.NextCursor
	}
}

type createPageRequest struct {
	Parent     parent     `json:"parent"`
	Properties Properties `json:"properties"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

// CreatePage adds a row to a database and returns the created page.
func (c *Client) CreatePage(ctx context.Context, databaseID string, props Properties) (*Page, error) {
	var page Page
	body := createPageRequest{Parent: parent{DatabaseID: databaseID}, Properties: props}
	if err := c.do(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return nil, fmt.Errorf("create page in %s: %w", databaseID, err)
	}
	return &page, nil
}

// UpdatePage writes only the given properties.
func (c *Client) UpdatePage(ctx context.Context, pageID string, props Properties) error {
	body := map[string]any{"properties": props}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+url.PathEscape(pageID), body, nil); err != nil {
		return fmt.Errorf("update page %s: %w", pageID, err)
	}
	return nil
}

// ArchivePage soft-deletes a page.
func (c *Client) ArchivePage(ctx context.Context, pageID string) error {
	body := map[string]any{"archived": true}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+url.PathEscape(pageID), body, nil); err != nil {
		return fmt.Errorf("archive page %s: %w", pageID, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) (err error) {
	defer func() { providers.Observe(upstream, err) }()

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		apiErr.Status = resp.StatusCode
		c.logger.Debug("Notion request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code))
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
