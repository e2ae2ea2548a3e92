package models

// DefaultContentStatus is used when a content item has no status.
const DefaultContentStatus = "To Review"

// ContentItem is a generic research bookmark.
type ContentItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         *string  `json:"url"`
	Type        *string  `json:"type"`
	Source      *string  `json:"source"`
	Status      string   `json:"status"`
	DateAdded   string   `json:"dateAdded"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	NotionURL   string   `json:"notionUrl"`
}

// ContentFilters lists the distinct values seen in the current page of items.
type ContentFilters struct {
	Types    []string `json:"types"`
	Sources  []string `json:"sources"`
	Statuses []string `json:"statuses"`
}
