package services

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/araddon/dateparse"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"research-desk/config"
	"research-desk/models"
	"research-desk/providers/notion"
)

// maxTextLength is the longest rich_text value written for authors and description.
const maxTextLength = 2000

// SavedPapers counts saved-paper writes by result.
var SavedPapers = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "research_desk_saved_papers_total",
		Help: "Saved-paper operations, by result.",
	},
	[]string{"result"},
)

// SavedService is the title-keyed list of saved papers.
type SavedService struct {
	db          resource
	locks       *keyedMutex
	concurrency int
	logger      *zap.Logger
}

// SaveResult reports whether Save created a page or found an existing one.
type SaveResult struct {
	ID           string
	AlreadySaved bool
}

// ClearResult summarises a clear-all run.
type ClearResult struct {
	Archived int `json:"archived"`
	Failed   int `json:"failed"`
}

func NewSavedService(cfg *config.Config, client NotionClient, logger *zap.Logger) *SavedService {
	concurrency := cfg.SavedClearConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &SavedService{
		db:          newResource(cfg, client, "Saved papers", cfg.SavedDatabaseID),
		locks:       newKeyedMutex(),
		concurrency: concurrency,
		logger:      logger.With(zap.String("resource", "saved")),
	}
}

// List returns the first page of saved papers, newest first.
func (s *SavedService) List(ctx context.Context) ([]models.Paper, error) {
	pages, err := s.db.query(ctx, notion.Query{
		Sorts: []notion.Sort{{Timestamp: "created_time", Direction: notion.Descending}},
	})
	if err != nil {
		return nil, err
	}
	return livePapers(pages), nil
}

// ListAll follows pagination and returns every saved paper, newest first.
func (s *SavedService) ListAll(ctx context.Context) ([]models.Paper, error) {
	if err := s.db.ready(); err != nil {
		return nil, err
	}
	pages, err := s.db.client.QueryAll(ctx, s.db.databaseID, notion.Query{
		Sorts:    []notion.Sort{{Timestamp: "created_time", Direction: notion.Descending}},
		PageSize: notion.MaxPageSize,
	})
	if err != nil {
		return nil, err
	}
	return livePapers(pages), nil
}

func livePapers(pages []notion.Page) []models.Paper {
	papers := make([]models.Paper, 0, len(pages))
	for _, pg := range pages {
		if pg.Archived {
			continue
		}
		papers = append(papers, models.Paper{
			ID:          pg.ID,
			Title:       pg.Text("Title"),
			Authors:     pg.Text("Authors"),
			Description: pg.Text("Description"),
			PDFLink:     pg.Properties["pdf Link"].URLString(),
			Date:        pg.Properties["Submission"].DateStart(),
		})
	}
	return papers
}

// Save stores p unless a live page with exactly the same title exists. Saves
// of one title are serialised within the process.
func (s *SavedService) Save(ctx context.Context, p models.Paper) (SaveResult, error) {
	if err := s.db.ready(); err != nil {
		return SaveResult{}, err
	}
	title := p.Title
	if strings.TrimSpace(title) == "" {
		return SaveResult{}, invalid("Title is required")
	}
	log := s.logger.With(zap.String("title", title))

	s.locks.Lock(title)
	defer s.locks.Unlock(title)

	existing, err := s.findByTitle(ctx, title)
	if err != nil {
		log.Warn("Duplicate check failed, saving anyway", zap.Error(err))
	} else if len(existing) > 0 {
		SavedPapers.WithLabelValues("duplicate").Inc()
		return SaveResult{ID: existing[0].ID, AlreadySaved: true}, nil
	}

	props := notion.Properties{"Title": notion.TitleValue(title)}
	if p.Authors != "" {
		props["Authors"] = notion.RichTextValue(truncate(p.Authors, maxTextLength))
	}
	if p.Description != "" {
		props["Description"] = notion.RichTextValue(truncate(p.Description, maxTextLength))
	}
	if p.PDFLink != "" {
		props["pdf Link"] = notion.URLValue(p.PDFLink)
	}
	if date := NormalizeDate(p.Date); date != "" {
		props["Submission"] = notion.DateValueOf(date)
	}

	id, err := s.db.create(ctx, props)
	if err != nil {
		SavedPapers.WithLabelValues("error").Inc()
		return SaveResult{}, &UpstreamError{Message: "Failed to save", Err: err}
	}
	SavedPapers.WithLabelValues("saved").Inc()
	return SaveResult{ID: id}, nil
}

// Remove archives the first live page titled title.
func (s *SavedService) Remove(ctx context.Context, title string) error {
	if err := s.db.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(title) == "" {
		return invalid("Title is required")
	}

	pages, err := s.findByTitle(ctx, title)
	if err != nil {
		return &UpstreamError{Message: "Failed to find paper", Err: err}
	}
	if len(pages) == 0 {
		return &NotFoundError{Message: "Paper not found"}
	}
	if err := s.db.client.ArchivePage(ctx, pages[0].ID); err != nil {
		return &UpstreamError{Message: "Failed to delete", Err: err}
	}
	SavedPapers.WithLabelValues("removed").Inc()
	return nil
}

// Clear archives every live page using at most concurrency parallel writes.
// Individual failures are logged and counted, not returned.
func (s *SavedService) Clear(ctx context.Context) (ClearResult, error) {
	if err := s.db.ready(); err != nil {
		return ClearResult{}, err
	}
	pages, err := s.db.client.QueryAll(ctx, s.db.databaseID, notion.Query{PageSize: notion.MaxPageSize})
	if err != nil {
		return ClearResult{}, &UpstreamError{Message: "Failed to fetch papers", Err: err}
	}

	var archived, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, pg := range pages {
		if pg.Archived {
			continue
		}
		g.Go(func() error {
			if err := s.db.client.ArchivePage(ctx, pg.ID); err != nil {
				s.logger.Error("Failed to archive saved paper", zap.String("page_id", pg.ID), zap.Error(err))
				failed.Add(1)
				return nil
			}
			archived.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res := ClearResult{Archived: int(archived.Load()), Failed: int(failed.Load())}
	SavedPapers.WithLabelValues("archived").Add(float64(res.Archived))
	s.logger.Info("Cleared saved papers", zap.Int("archived", res.Archived), zap.Int("failed", res.Failed))
	return res, nil
}

func (s *SavedService) findByTitle(ctx context.Context, title string) ([]notion.Page, error) {
	pages, err := s.db.query(ctx, notion.Query{Filter: notion.And(notion.TitleEquals("Title", title))})
	if err != nil {
		return nil, err
	}
	live := pages[:0]
	for _, pg := range pages {
		if !pg.Archived {
			live = append(live, pg)
		}
	}
	return live, nil
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2 January, 2006",
	"2 January 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// NormalizeDate returns raw as YYYY-MM-DD when it can be parsed, else raw unchanged.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t.Format(time.DateOnly)
	}
	return raw
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
