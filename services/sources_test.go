package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"research-desk/models"
	"research-desk/providers/notion"
)

func TestSources_List(t *testing.T) {
	client, srv, cfg := fakeNotion(t)
	svc := NewSourceService(cfg, client, zap.NewNop())
	ctx := context.Background()

	srv.Seed(sourcesDB, notion.Properties{
		"Name":       notion.TitleValue("Open Weather"),
		"Category":   notion.SelectValue("Weather"),
		"Auth":       notion.SelectValue("API Key"),
		"Is Free":    notion.CheckboxValue(true),
		"Formats":    notion.MultiSelectValue([]string{"json", "xml"}),
		"Docs URL":   notion.URLValue("https://docs.example.org"),
		"Rate Limit": notion.RichTextValue("60/min"),
	})
	srv.Seed(sourcesDB, notion.Properties{
		"Name":    notion.TitleValue("Census"),
		"Is Free": notion.CheckboxValue(false),
	})

	items, filters, err := svc.List(ctx, SourceQuery{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	weather := items[0]
	assert.Equal(t, "Open Weather", weather.Name)
	require.NotNil(t, weather.Category)
	assert.Equal(t, "Weather", *weather.Category)
	assert.Equal(t, "API Key", weather.Auth)
	assert.True(t, weather.IsFree)
	assert.Equal(t, []string{"json", "xml"}, weather.Formats)
	assert.Equal(t, "https://docs.example.org", *weather.DocsURL)
	assert.Equal(t, "60/min", *weather.RateLimit)

	census := items[1]
	assert.Nil(t, census.Category)
	assert.Equal(t, models.AuthNone, census.Auth)
	assert.False(t, census.IsFree)
	assert.Equal(t, []string{}, census.Tags)

	assert.Equal(t, []string{"Weather"}, filters.Categories)
	assert.Equal(t, []string{"API Key", "None"}, filters.AuthMethods)

	q := srv.Queries()[0].Query
	assert.Equal(t, []notion.Sort{{Property: "Name", Direction: notion.Ascending}}, q.Sorts)

	items, _, err = svc.List(ctx, SourceQuery{FreeOnly: true, Category: "all"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Open Weather", items[0].Name)
}

func TestSources_EmptyListUsesFallbackFilters(t *testing.T) {
	client, _, cfg := fakeNotion(t)
	svc := NewSourceService(cfg, client, zap.NewNop())

	_, filters, err := svc.List(context.Background(), SourceQuery{Auth: "OAuth"})
	require.NoError(t, err)
	assert.Equal(t, models.SourceCategories, filters.Categories)
	assert.Equal(t, models.SourceAuthMethods, filters.AuthMethods)
}

func TestSources_Create(t *testing.T) {
	client, srv, cfg := fakeNotion(t)
	svc := NewSourceService(cfg, client, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, SourceInput{})
	requireValidation(t, err, "Name is required")
	_, err = svc.Create(ctx, SourceInput{Name: "x", Auth: "Password"})
	requireValidation(t, err, `Invalid auth "Password"`)
	assert.Zero(t, srv.Requests())

	id, err := svc.Create(ctx, SourceInput{Name: "arXiv", URL: "https://arxiv.org", Auth: "None", Tags: []string{"papers"}})
	require.NoError(t, err)
	page, _ := srv.Page(id)
	free, ok := page.Properties["Is Free"].Checked()
	assert.True(t, ok)
	assert.True(t, free)
	assert.Equal(t, "https://arxiv.org", page.Text("URL"))
	assert.Equal(t, []string{"papers"}, page.Properties["Tags"].Names())
	_, hasFormats := page.Properties["Formats"]
	assert.False(t, hasFormats)

	id, err = svc.Create(ctx, SourceInput{Name: "Paid API", IsFree: boolPtr(false)})
	require.NoError(t, err)
	page, _ = srv.Page(id)
	free, _ = page.Properties["Is Free"].Checked()
	assert.False(t, free)
}
