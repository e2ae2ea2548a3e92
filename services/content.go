package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"research-desk/config"
	"research-desk/models"
	"research-desk/providers/notion"
)

// ContentService manages generic research bookmarks.
type ContentService struct {
	db     resource
	logger *zap.Logger
	now    func() time.Time
}

func NewContentService(cfg *config.Config, client NotionClient, logger *zap.Logger) *ContentService {
	return &ContentService{
		db:     newResource(cfg, client, "Content", cfg.ContentDatabaseID),
		logger: logger.With(zap.String("resource", "content")),
		now:    time.Now,
	}
}

type ContentInput struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Type        string `json:"type"`
	Source      string `json:"source"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

type ContentQuery struct {
	Type   string
	Status string
	Source string
	Search string
}

func (s *ContentService) List(ctx context.Context, q ContentQuery) ([]models.ContentItem, models.ContentFilters, error) {
	filters := selectFilters("Type", q.Type, "Status", q.Status, "Source", q.Source)
	if search := strings.TrimSpace(q.Search); search != "" {
		filters = append(filters, notion.TitleContains("Name", search))
	}
	pages, err := s.db.query(ctx, notion.Query{
		Filter: notion.And(filters...),
		Sorts:  []notion.Sort{{Property: "Date Added", Direction: notion.Descending}},
	})
	if err != nil {
		return nil, models.ContentFilters{}, err
	}

	items := make([]models.ContentItem, 0, len(pages))
	var types, sources, statuses distinct
	for _, pg := range pages {
		item := contentFromPage(pg)
		types.addPtr(item.Type)
		sources.addPtr(item.Source)
		statuses.add(item.Status)
		items = append(items, item)
	}
	return items, models.ContentFilters{
		Types:    types.list(nil),
		Sources:  sources.list(nil),
		Statuses: statuses.list(nil),
	}, nil
}

func contentFromPage(pg notion.Page) models.ContentItem {
	item := models.ContentItem{
		ID:          pg.ID,
		Title:       pg.Text("Name", "Title"),
		URL:         pg.OptionalText("URL"),
		Status:      pg.Properties["Status"].SelectName(),
		DateAdded:   pg.Properties["Date Added"].DateStart(),
		Description: pg.OptionalText("Description"),
		Tags:        pg.Properties["Tags"].Names(),
		NotionURL:   pg.URL,
	}
	if v := pg.Properties["Type"].SelectName(); v != "" {
		item.Type = &v
	}
	if v := pg.Properties["Source"].SelectName(); v != "" {
		item.Source = &v
	}
	if item.Title == "" {
		item.Title = "Untitled"
	}
	if item.Status == "" {
		item.Status = models.DefaultContentStatus
	}
	if item.DateAdded == "" {
		item.DateAdded = pg.CreatedTime
	}
	return item
}

// Create adds a bookmark dated today (UTC).
func (s *ContentService) Create(ctx context.Context, in ContentInput) (string, error) {
	if err := s.db.ready(); err != nil {
		return "", err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "", invalid("Title is required")
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = models.DefaultContentStatus
	}

	props := notion.Properties{
		"Name":       notion.TitleValue(title),
		"Status":     notion.SelectValue(status),
		"Date Added": notion.DateValueOf(s.now().UTC().Format(time.DateOnly)),
	}
	if in.URL != "" {
		props["URL"] = notion.URLValue(in.URL)
	}
	if in.Type != "" {
		props["Type"] = notion.SelectValue(in.Type)
	}
	if in.Source != "" {
		props["Source"] = notion.SelectValue(in.Source)
	}
	if in.Description != "" {
		props["Description"] = notion.RichTextValue(in.Description)
	}
	return s.db.create(ctx, props)
}

func (s *ContentService) Delete(ctx context.Context, id string) error {
	return s.db.archive(ctx, id)
}
