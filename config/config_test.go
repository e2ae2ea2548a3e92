package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "https://api.notion.com/v1", cfg.NotionBaseURL)
	assert.Equal(t, "2022-06-28", cfg.NotionVersion)
	assert.Equal(t, "http://export.arxiv.org/api/query", cfg.ArxivBaseURL)
	assert.Equal(t, 4, cfg.SavedClearConcurrency)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "2d958fe731b180d5a744d354f84db9fb", cfg.FeedTopicDatabases["Machine Learning"])
}

func TestLoad_TopicMap(t *testing.T) {
	t.Setenv("FEED_TOPIC_DATABASES", "Machine Learning:db1,ADHD:db2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Machine Learning": "db1", "ADHD": "db2"}, cfg.FeedTopicDatabases)
}

func TestNotionConfigured(t *testing.T) {
	cfg := &Config{NotionToken: "secret"}
	assert.True(t, cfg.NotionConfigured("db"))
	assert.False(t, cfg.NotionConfigured(""))

	cfg.NotionToken = ""
	assert.False(t, cfg.NotionConfigured("db"))
}

func TestS3Enabled(t *testing.T) {
	cfg := &Config{S3Bucket: "pdfs"}
	assert.False(t, cfg.S3Enabled())

	cfg.S3AccessKey, cfg.S3SecretKey = "k", "s"
	assert.True(t, cfg.S3Enabled())
}
