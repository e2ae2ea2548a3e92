package services

import (
	"context"
	"strings"

	"research-desk/config"
	"research-desk/providers/notion"
)

// resource is one Notion database exposed over HTTP.
type resource struct {
	name       string
	client     NotionClient
	databaseID string
	configured bool
}

func newResource(cfg *config.Config, client NotionClient, name, databaseID string) resource {
	return resource{
		name:       name,
		client:     client,
		databaseID: databaseID,
		configured: cfg.NotionConfigured(databaseID),
	}
}

func (r resource) ready() error {
	if !r.configured {
		return &NotConfiguredError{Resource: r.name + " database"}
	}
	return nil
}

func (r resource) query(ctx context.Context, q notion.Query) ([]notion.Page, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if q.PageSize == 0 {
		q.PageSize = notion.MaxPageSize
	}
	res, err := r.client.QueryDatabase(ctx, r.databaseID, q)
	if err != nil {
		return nil, err
	}
	return res.Results, nil
}

func (r resource) create(ctx context.Context, props notion.Properties) (string, error) {
	if err := r.ready(); err != nil {
		return "", err
	}
	page, err := r.client.CreatePage(ctx, r.databaseID, props)
	if err != nil {
		return "", err
	}
	return page.ID, nil
}

func (r resource) update(ctx context.Context, id string, props notion.Properties) error {
	if err := r.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return invalid("ID is required")
	}
	if len(props) == 0 {
		return invalid("No updatable fields provided")
	}
	return r.client.UpdatePage(ctx, id, props)
}

func (r resource) archive(ctx context.Context, id string) error {
	if err := r.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return invalid("ID is required")
	}
	return r.client.ArchivePage(ctx, id)
}

// selected returns the filter value, or "" for an empty value or the "all" sentinel.
func selected(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == "all" {
		return ""
	}
	return v
}

// selectFilters builds select conditions for every non-empty selection, in order.
func selectFilters(pairs ...string) []notion.Filter {
	var filters []notion.Filter
	for i := 0; i+1 < len(pairs); i += 2 {
		if v := selected(pairs[i+1]); v != "" {
			filters = append(filters, notion.SelectEquals(pairs[i], v))
		}
	}
	return filters
}

// distinct collects non-empty values in first-seen order.
type distinct struct {
	seen   map[string]struct{}
	values []string
}

func (d *distinct) add(v string) {
	if v == "" {
		return
	}
	if d.seen == nil {
		d.seen = map[string]struct{}{}
	}
	if _, ok := d.seen[v]; ok {
		return
	}
	d.seen[v] = struct{}{}
	d.values = append(d.values, v)
}

func (d *distinct) addPtr(v *string) {
	if v != nil {
		d.add(*v)
	}
}

// list returns the collected values, or fallback when none were seen.
func (d *distinct) list(fallback []string) []string {
	if len(d.values) > 0 {
		return d.values
	}
	if fallback != nil {
		return append([]string(nil), fallback...)
	}
	return []string{}
}

func ptrValue(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
