package services

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"research-desk/config"
	"research-desk/models"
	"research-desk/providers/notion"
)

// builtinAreas is served when no areas database is configured.
var builtinAreas = []string{
	"Machine Learning", "ADHD", "Autism", "Psychology",
	"Neuroscience", "Deep Learning", "Computer Vision", "NLP",
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a topic name into a stable id: "Deep Learning" -> "deep-learning".
func Slug(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// TopicUpdate carries the fields present in a PATCH body.
type TopicUpdate struct {
	ID     string  `json:"id"`
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}

// topics is a database of named, toggleable topics. Its title property is
// written as "Title" and read from whatever property holds the title.
type topics struct {
	db    resource
	label string
}

func (t topics) list(ctx context.Context) ([]models.Area, error) {
	pages, err := t.db.query(ctx, notion.Query{})
	if err != nil {
		return nil, err
	}
	out := make([]models.Area, 0, len(pages))
	for _, pg := range pages {
		active := true
		for _, name := range []string{"Active", "active"} {
			if v, ok := pg.Properties[name].Checked(); ok {
				active = v
				break
			}
		}
		out = append(out, models.Area{ID: pg.ID, Name: pg.Title(), Active: active})
	}
	return out, nil
}

func (t topics) create(ctx context.Context, name string) (string, error) {
	if err := t.db.ready(); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("%s name is required", t.label)
	}
	return t.db.create(ctx, notion.Properties{
		"Title":  notion.TitleValue(name),
		"Active": notion.CheckboxValue(true),
	})
}

func (t topics) update(ctx context.Context, u TopicUpdate) error {
	if err := t.db.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(u.ID) == "" {
		return invalid("ID is required")
	}
	props := notion.Properties{}
	if u.Active != nil {
		props["Active"] = notion.CheckboxValue(*u.Active)
	}
	if u.Name != nil {
		name := ptrValue(u.Name)
		if name == "" {
			return invalid("Name cannot be empty")
		}
		props["Title"] = notion.TitleValue(name)
	}
	return t.db.update(ctx, u.ID, props)
}

// AreaService manages research areas.
type AreaService struct {
	topics
	logger *zap.Logger
}

func NewAreaService(cfg *config.Config, client NotionClient, logger *zap.Logger) *AreaService {
	return &AreaService{
		topics: topics{db: newResource(cfg, client, "Areas", cfg.AreasDatabaseID), label: "Area"},
		logger: logger.With(zap.String("resource", "areas")),
	}
}

// List returns the areas database, or the built-in catalogue when none is configured.
func (s *AreaService) List(ctx context.Context) ([]models.Area, error) {
	if !s.db.configured {
		areas := make([]models.Area, 0, len(builtinAreas))
		for _, name := range builtinAreas {
			areas = append(areas, models.Area{ID: Slug(name), Name: name, Active: true})
		}
		return areas, nil
	}
	return s.list(ctx)
}

func (s *AreaService) Create(ctx context.Context, name string) (string, error) {
	return s.create(ctx, name)
}

func (s *AreaService) Update(ctx context.Context, u TopicUpdate) error {
	return s.update(ctx, u)
}

func (s *AreaService) Delete(ctx context.Context, id string) error {
	return s.db.archive(ctx, id)
}

// KeywordService manages feed topics. Each topic may point at a Notion
// database of papers through FEED_TOPIC_DATABASES.
type KeywordService struct {
	topics
	databases map[string]string
	logger    *zap.Logger
}

func NewKeywordService(cfg *config.Config, client NotionClient, logger *zap.Logger) *KeywordService {
	return &KeywordService{
		topics:    topics{db: newResource(cfg, client, "Keywords", cfg.KeywordsDatabaseID), label: "Topic"},
		databases: cfg.FeedTopicDatabases,
		logger:    logger.With(zap.String("resource", "keywords")),
	}
}

func (s *KeywordService) List(ctx context.Context) ([]models.Keyword, error) {
	if !s.db.configured {
		names := make([]string, 0, len(s.databases))
		for name := range s.databases {
			names = append(names, name)
		}
		sort.Strings(names)
		keywords := make([]models.Keyword, 0, len(names))
		for _, name := range names {
			keywords = append(keywords, models.Keyword{ID: Slug(name), Name: name, DatabaseID: s.databases[name], Active: true})
		}
		return keywords, nil
	}

	found, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	keywords := make([]models.Keyword, 0, len(found))
	for _, t := range found {
		keywords = append(keywords, models.Keyword{ID: t.ID, Name: t.Name, DatabaseID: s.databases[t.Name], Active: t.Active})
	}
	return keywords, nil
}

func (s *KeywordService) Create(ctx context.Context, name string) (string, error) {
	return s.create(ctx, name)
}

func (s *KeywordService) Update(ctx context.Context, u TopicUpdate) error {
	return s.update(ctx, u)
}

func (s *KeywordService) Delete(ctx context.Context, id string) error {
	return s.db.archive(ctx, id)
}
