package services

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"research-desk/models"
	"research-desk/providers/notion"
)

// NotionClient is the subset of the Notion API the services use.
type NotionClient interface {
	QueryDatabase(ctx context.Context, databaseID string, q notion.Query) (*notion.QueryResult, error)
	QueryAll(ctx context.Context, databaseID string, q notion.Query) ([]notion.Page, error)
	CreatePage(ctx context.Context, databaseID string, props notion.Properties) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, props notion.Properties) error
	ArchivePage(ctx context.Context, pageID string) error
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// AreaPaperSource returns candidate papers for a research area.
type AreaPaperSource interface {
	Configured() bool
	Papers(ctx context.Context, tag, from, to string) ([]models.TopicPaper, error)
}
