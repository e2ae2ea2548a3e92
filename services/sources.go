package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"research-desk/config"
	"research-desk/models"
	"research-desk/providers/notion"
)

// SourceService manages the catalogue of external data sources.
type SourceService struct {
	db     resource
	logger *zap.Logger
}

func NewSourceService(cfg *config.Config, client NotionClient, logger *zap.Logger) *SourceService {
	return &SourceService{
		db:     newResource(cfg, client, "Sources", cfg.SourcesDatabaseID),
		logger: logger.With(zap.String("resource", "sources")),
	}
}

type SourceInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	URL         string   `json:"url"`
	DocsURL     string   `json:"docsUrl"`
	Auth        string   `json:"auth"`
	RateLimit   string   `json:"rateLimit"`
	Formats     []string `json:"formats"`
	IsFree      *bool    `json:"isFree"`
	Tags        []string `json:"tags"`
}

// SourceQuery holds the list filters. FreeOnly keeps sources with "Is Free" checked.
type SourceQuery struct {
	Category string
	Auth     string
	FreeOnly bool
}

func (s *SourceService) List(ctx context.Context, q SourceQuery) ([]models.Source, models.SourceFilters, error) {
	filters := selectFilters("Category", q.Category, "Auth", q.Auth)
	if q.FreeOnly {
		filters = append(filters, notion.CheckboxEquals("Is Free", true))
	}
	pages, err := s.db.query(ctx, notion.Query{
		Filter: notion.And(filters...),
		Sorts:  []notion.Sort{{Property: "Name", Direction: notion.Ascending}},
	})
	if err != nil {
		return nil, models.SourceFilters{}, err
	}

	items := make([]models.Source, 0, len(pages))
	var categories, auths distinct
	for _, pg := range pages {
		src := sourceFromPage(pg)
		categories.addPtr(src.Category)
		auths.add(src.Auth)
		items = append(items, src)
	}
	return items, models.SourceFilters{
		Categories:  categories.list(models.SourceCategories),
		AuthMethods: auths.list(models.SourceAuthMethods),
	}, nil
}

func sourceFromPage(pg notion.Page) models.Source {
	src := models.Source{
		ID:          pg.ID,
		Name:        pg.Text("Name"),
		Description: pg.OptionalText("Description"),
		URL:         pg.OptionalText("URL"),
		DocsURL:     pg.OptionalText("Docs URL"),
		Auth:        pg.Properties["Auth"].SelectName(),
		RateLimit:   pg.OptionalText("Rate Limit"),
		Formats:     pg.Properties["Formats"].Names(),
		Tags:        pg.Properties["Tags"].Names(),
		CreatedAt:   pg.CreatedTime,
		NotionURL:   pg.URL,
	}
	if c := pg.Properties["Category"].SelectName(); c != "" {
		src.Category = &c
	}
	src.IsFree, _ = pg.Properties["Is Free"].Checked()
	if src.Name == "" {
		src.Name = "Untitled"
	}
	if src.Auth == "" {
		src.Auth = models.AuthNone
	}
	return src
}

// Create adds a source. "Is Free" defaults to true.
func (s *SourceService) Create(ctx context.Context, in SourceInput) (string, error) {
	if err := s.db.ready(); err != nil {
		return "", err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", invalid("Name is required")
	}
	isFree := true
	if in.IsFree != nil {
		isFree = *in.IsFree
	}

	props := notion.Properties{
		"Name":    notion.TitleValue(name),
		"Is Free": notion.CheckboxValue(isFree),
	}
	if in.Description != "" {
		props["Description"] = notion.RichTextValue(in.Description)
	}
	if in.Category != "" {
		props["Category"] = notion.SelectValue(in.Category)
	}
	if in.URL != "" {
		props["URL"] = notion.URLValue(in.URL)
	}
	if in.DocsURL != "" {
		props["Docs URL"] = notion.URLValue(in.DocsURL)
	}
	if auth := strings.TrimSpace(in.Auth); auth != "" {
		if err := enumValue("Auth", auth, models.SourceAuthMethods); err != nil {
			return "", err
		}
		props["Auth"] = notion.SelectValue(auth)
	}
	if in.RateLimit != "" {
		props["Rate Limit"] = notion.RichTextValue(in.RateLimit)
	}
	if len(in.Formats) > 0 {
		props["Formats"] = notion.MultiSelectValue(in.Formats)
	}
	if len(in.Tags) > 0 {
		props["Tags"] = notion.MultiSelectValue(in.Tags)
	}
	return s.db.create(ctx, props)
}

func (s *SourceService) Delete(ctx context.Context, id string) error {
	return s.db.archive(ctx, id)
}
