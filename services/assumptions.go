package services

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"research-desk/config"
	"research-desk/models"
	"research-desk/providers/notion"
)

// AssumptionService manages research hypotheses in the assumptions database.
type AssumptionService struct {
	db     resource
	logger *zap.Logger
}

func NewAssumptionService(cfg *config.Config, client NotionClient, logger *zap.Logger) *AssumptionService {
	return &AssumptionService{
		db:     newResource(cfg, client, "Assumptions", cfg.AssumptionsDatabaseID),
		logger: logger.With(zap.String("resource", "assumptions")),
	}
}

type AssumptionInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Confidence  string `json:"confidence"`
	Evidence    string `json:"evidence"`
}

// AssumptionUpdate carries only the fields present in the request body.
type AssumptionUpdate struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Confidence  *string `json:"confidence"`
	Evidence    *string `json:"evidence"`
}

// List returns assumptions matching status and confidence ("all" or "" matches any).
func (s *AssumptionService) List(ctx context.Context, status, confidence string) ([]models.Assumption, models.AssumptionFilters, error) {
	pages, err := s.db.query(ctx, notion.Query{
		Filter: notion.And(selectFilters("Status", status, "Confidence", confidence)...),
		Sorts:  []notion.Sort{{Timestamp: "created_time", Direction: notion.Descending}},
	})
	if err != nil {
		return nil, models.AssumptionFilters{}, err
	}

	items := make([]models.Assumption, 0, len(pages))
	var statuses, confidences distinct
	for _, pg := range pages {
		a := assumptionFromPage(pg)
		statuses.add(a.Status)
		confidences.add(a.Confidence)
		items = append(items, a)
	}
	return items, models.AssumptionFilters{
		Statuses:    statuses.list(models.AssumptionStatuses),
		Confidences: confidences.list(models.AssumptionConfidences),
	}, nil
}

func assumptionFromPage(pg notion.Page) models.Assumption {
	a := models.Assumption{
		ID:          pg.ID,
		Title:       pg.Text("Name"),
		Description: pg.OptionalText("Description"),
		Status:      pg.Properties["Status"].SelectName(),
		Confidence:  pg.Properties["Confidence"].SelectName(),
		Evidence:    pg.OptionalText("Evidence"),
		CreatedAt:   pg.CreatedTime,
		NotionURL:   pg.URL,
	}
	if a.Title == "" {
		a.Title = "Untitled"
	}
	if a.Status == "" {
		a.Status = models.StatusPending
	}
	if a.Confidence == "" {
		a.Confidence = models.ConfidenceMedium
	}
	return a
}

// Create adds an assumption and returns its page id.
func (s *AssumptionService) Create(ctx context.Context, in AssumptionInput) (string, error) {
	if err := s.db.ready(); err != nil {
		return "", err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "", invalid("Title is required")
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = models.StatusPending
	}
	confidence := strings.TrimSpace(in.Confidence)
	if confidence == "" {
		confidence = models.ConfidenceMedium
	}
	if err := validateAssumptionEnums(status, confidence); err != nil {
		return "", err
	}

	props := notion.Properties{
		"Name":       notion.TitleValue(title),
		"Status":     notion.SelectValue(status),
		"Confidence": notion.SelectValue(confidence),
	}
	if in.Description != "" {
		props["Description"] = notion.RichTextValue(in.Description)
	}
	if in.Evidence != "" {
		props["Evidence"] = notion.RichTextValue(in.Evidence)
	}
	return s.db.create(ctx, props)
}

// Update writes the present fields. Empty description or evidence clears it;
// empty title, status or confidence is rejected.
func (s *AssumptionService) Update(ctx context.Context, u AssumptionUpdate) error {
	if err := s.db.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(u.ID) == "" {
		return invalid("ID is required")
	}

	props := notion.Properties{}
	if u.Title != nil {
		if ptrValue(u.Title) == "" {
			return invalid("Title cannot be empty")
		}
		props["Name"] = notion.TitleValue(ptrValue(u.Title))
	}
	if u.Status != nil {
		if err := enumValue("Status", ptrValue(u.Status), models.AssumptionStatuses); err != nil {
			return err
		}
		props["Status"] = notion.SelectValue(ptrValue(u.Status))
	}
	if u.Confidence != nil {
		if err := enumValue("Confidence", ptrValue(u.Confidence), models.AssumptionConfidences); err != nil {
			return err
		}
		props["Confidence"] = notion.SelectValue(ptrValue(u.Confidence))
	}
	if u.Description != nil {
		props["Description"] = notion.RichTextValue(*u.Description)
	}
	if u.Evidence != nil {
		props["Evidence"] = notion.RichTextValue(*u.Evidence)
	}
	return s.db.update(ctx, u.ID, props)
}

func (s *AssumptionService) Delete(ctx context.Context, id string) error {
	return s.db.archive(ctx, id)
}

func validateAssumptionEnums(status, confidence string) error {
	if err := enumValue("Status", status, models.AssumptionStatuses); err != nil {
		return err
	}
	return enumValue("Confidence", confidence, models.AssumptionConfidences)
}

// enumValue rejects an empty value or one outside allowed.
func enumValue(field, v string, allowed []string) error {
	if v == "" {
		return invalid("%s cannot be empty", field)
	}
	if !slices.Contains(allowed, v) {
		return invalid("Invalid %s %q", strings.ToLower(field), v)
	}
	return nil
}
