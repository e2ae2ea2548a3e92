package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"research-desk/config"
	"research-desk/providers/notion"
	"research-desk/providers/notion/notiontest"
)

const (
	assumptionsDB = "db-assumptions"
	sourcesDB     = "db-sources"
	contentDB     = "db-content"
	savedDB       = "db-saved"
	areasDB       = "db-areas"
	keywordsDB    = "db-keywords"
	mlTopicDB     = "db-topic-ml"
)

// fakeNotion starts an in-memory Notion and a config with every database set.
func fakeNotion(t *testing.T) (*notion.Client, *notiontest.Server, *config.Config) {
	t.Helper()
	srv := notiontest.NewServer(t)
	cfg := srv.Config()
	cfg.AssumptionsDatabaseID = assumptionsDB
	cfg.SourcesDatabaseID = sourcesDB
	cfg.ContentDatabaseID = contentDB
	cfg.SavedDatabaseID = savedDB
	cfg.AreasDatabaseID = areasDB
	cfg.KeywordsDatabaseID = keywordsDB
	cfg.FeedTopicDatabases = map[string]string{"Machine Learning": mlTopicDB}
	cfg.SavedClearConcurrency = 4
	return notion.NewClient(cfg, zap.NewNop()), srv, cfg
}

func requireValidation(t *testing.T, err error, msg string) {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
	assert.Equal(t, msg, ve.Message)
}

func requireNotConfigured(t *testing.T, err error, msg string) {
	t.Helper()
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, msg, err.Error())
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
