package models

// Paper is a saved paper. The title is the key clients use to save and remove it.
type Paper struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Authors     string `json:"authors"`
	Description string `json:"description"`
	PDFLink     string `json:"pdfLink"`
	Date        string `json:"date"`
}

// ArxivPaper is one entry of an arXiv search response.
type ArxivPaper struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Authors    []string `json:"authors"`
	Published  string   `json:"published"`
	Updated    string   `json:"updated"`
	Link       string   `json:"link"`
	PDFLink    string   `json:"pdfLink"`
	Categories []string `json:"categories"`
}

// TopicPaper is a candidate paper delivered either by the n8n workflow or by a
// per-topic Notion database.
type TopicPaper struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Authors     string `json:"authors"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
	PDFLink     string `json:"pdfLink"`
	Subject     string `json:"subject,omitempty"`
	NotionURL   string `json:"notionUrl,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}
