package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting read from the environment.
type Config struct {
	HTTPPort    string        `envconfig:"HTTP_PORT" default:"3000"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	NotionToken   string `envconfig:"NOTION_TOKEN"`
	NotionBaseURL string `envconfig:"NOTION_BASE_URL" default:"https://api.notion.com/v1"`
	NotionVersion string `envconfig:"NOTION_VERSION" default:"2022-06-28"`

	// One database per Notion-backed resource.
	ContentDatabaseID     string `envconfig:"NOTION_DATABASE_ID"`
	AssumptionsDatabaseID string `envconfig:"NOTION_ASSUMPTIONS_DATABASE_ID"`
	SourcesDatabaseID     string `envconfig:"NOTION_SOURCES_DATABASE_ID"`
	SavedDatabaseID       string `envconfig:"NOTION_SAVED_DATABASE_ID"`
	AreasDatabaseID       string `envconfig:"NOTION_AREAS_DATABASE_ID"`
	KeywordsDatabaseID    string `envconfig:"NOTION_KEYWORDS_DATABASE_ID"`

	// FeedTopicDatabases maps a feed topic name to the Notion database holding its papers.
	FeedTopicDatabases map[string]string `envconfig:"FEED_TOPIC_DATABASES" default:"Machine Learning:2d958fe731b180d5a744d354f84db9fb"`

	N8NWebhookURL string `envconfig:"N8N_WEBHOOK_URL"`

	ArxivBaseURL string `envconfig:"ARXIV_BASE_URL" default:"http://export.arxiv.org/api/query"`

	SavedClearConcurrency int `envconfig:"SAVED_CLEAR_CONCURRENCY" default:"4"`

	// Lookup cache for n8n area papers: memory, redis, postgres or none.
	CacheBackend  string        `envconfig:"CACHE_BACKEND" default:"memory"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"24h"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheDSN      string        `envconfig:"CACHE_DSN"`

	// Optional S3-compatible bucket mirroring downloaded PDFs.
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
}

// NotionConfigured reports whether a resource backed by databaseID can reach Notion.
func (c *Config) NotionConfigured(databaseID string) bool {
	return c.NotionToken != "" && databaseID != ""
}

// S3Enabled reports whether the PDF mirror should be used.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
