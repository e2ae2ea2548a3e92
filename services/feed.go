package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"research-desk/config"
	"research-desk/models"
	"research-desk/providers/notion"
)

// FeedService reads the per-topic paper databases.
type FeedService struct {
	client    NotionClient
	token     bool
	databases map[string]string
	logger    *zap.Logger
}

func NewFeedService(cfg *config.Config, client NotionClient, logger *zap.Logger) *FeedService {
	return &FeedService{
		client:    client,
		token:     cfg.NotionToken != "",
		databases: cfg.FeedTopicDatabases,
		logger:    logger.With(zap.String("resource", "feed")),
	}
}

// Papers lists the titled papers of the database mapped to topic.
func (s *FeedService) Papers(ctx context.Context, topic string) ([]models.TopicPaper, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, invalid("Topic is required")
	}
	databaseID, ok := s.databases[topic]
	if !ok || databaseID == "" {
		return nil, &NotFoundError{Message: "Unknown topic"}
	}
	if !s.token {
		return nil, &NotConfiguredError{Resource: "Feed database"}
	}

	res, err := s.client.QueryDatabase(ctx, databaseID, notion.Query{PageSize: notion.MaxPageSize})
	if err != nil {
		return nil, err
	}

	papers := make([]models.TopicPaper, 0, len(res.Results))
	for _, pg := range res.Results {
		title := pg.Title()
		if title == "" {
			continue
		}
		papers = append(papers, models.TopicPaper{
			ID:          pg.ID,
			Title:       title,
			Description: pg.Text("Description", "Content"),
			Authors:     pg.Text("Authors"),
			PDFLink:     pg.Text("pdf Link", "pdfLink"),
			Subject:     pg.Text("Subject"),
			NotionURL:   pg.URL,
			CreatedAt:   pg.CreatedTime,
		})
	}
	return papers, nil
}
