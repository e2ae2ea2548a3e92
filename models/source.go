package models

// Source auth methods.
const (
	AuthNone   = "None"
	AuthAPIKey = "API Key"
	AuthOAuth  = "OAuth"
	AuthToken  = "Token"
)

var (
	SourceAuthMethods = []string{AuthNone, AuthAPIKey, AuthOAuth, AuthToken}
	SourceCategories  = []string{"Government", "Academic", "Finance", "Health", "Weather", "Geographic", "Social", "Scientific"}
)

// Source is an external data source worth remembering.
type Source struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	URL         *string  `json:"url"`
	DocsURL     *string  `json:"docsUrl"`
	Auth        string   `json:"auth"`
	RateLimit   *string  `json:"rateLimit"`
	Formats     []string `json:"formats"`
	IsFree      bool     `json:"isFree"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"createdAt"`
	NotionURL   string   `json:"notionUrl"`
}

// SourceFilters lists the values offered in the category and auth dropdowns.
type SourceFilters struct {
	Categories  []string `json:"categories"`
	AuthMethods []string `json:"authMethods"`
}
