package models

// Area is a research topic used to tag and look up papers.
type Area struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Keyword is a feed topic; DatabaseID points at the Notion database holding its papers.
type Keyword struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DatabaseID string `json:"databaseId,omitempty"`
	Active     bool   `json:"active"`
}
