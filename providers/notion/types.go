package notion

import (
	"fmt"
)

// Property types understood by this package.
const (
	TypeTitle       = "title"
	TypeRichText    = "rich_text"
	TypeSelect      = "select"
	TypeMultiSelect = "multi_select"
	TypeURL         = "url"
	TypeCheckbox    = "checkbox"
	TypeDate        = "date"
)

// RichText is one segment of a title or rich_text value.
type RichText struct {
	PlainText string       `json:"plain_text,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
}

type TextContent struct {
	Content string `json:"content"`
}

type SelectOption struct {
	Name string `json:"name"`
}

type DateValue struct {
	Start string `json:"start"`
}

// Property is a page property value as returned by the query endpoint.
// Only the field matching Type is meaningful.
type Property struct {
	Type        string         `json:"type"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	URL         *string        `json:"url,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
}

// Properties maps a property name to its value.
type Properties map[string]Property

// Page is a database row.
type Page struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	CreatedTime string     `json:"created_time"`
	Archived    bool       `json:"archived"`
	Properties  Properties `json:"properties"`
}

// Filter is a database query filter. Set exactly one condition, or And.
type Filter struct {
	Property string          `json:"property,omitempty"`
	Select   *SelectFilter   `json:"select,omitempty"`
	Title    *TextFilter     `json:"title,omitempty"`
	Checkbox *CheckboxFilter `json:"checkbox,omitempty"`
	And      []Filter        `json:"and,omitempty"`
}

type SelectFilter struct {
	Equals string `json:"equals"`
}

type TextFilter struct {
	Equals   string `json:"equals,omitempty"`
	Contains string `json:"contains,omitempty"`
}

type CheckboxFilter struct {
	Equals bool `json:"equals"`
}

// Sort orders query results by a property or by a page timestamp.
type Sort struct {
	Property  string `json:"property,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Direction string `json:"direction"`
}

const (
	Ascending  = "ascending"
	Descending = "descending"

	// MaxPageSize is the largest page the query endpoint returns.
	MaxPageSize = 100
)

// Query is the body of POST /databases/{id}/query.
type Query struct {
	Filter      *Filter `json:"filter,omitempty"`
	Sorts       []Sort  `json:"sorts,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
}

// QueryResult is one page of query results.
type QueryResult struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// APIError is the error object returned on non-2xx responses.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: %d %s: %s", e.Status, e.Code, e.Message)
}

// SelectEquals builds a select equality condition.
func SelectEquals(property, value string) Filter {
	return Filter{Property: property, Select: &SelectFilter{Equals: value}}
}

// TitleEquals builds a title equality condition.
func TitleEquals(property, value string) Filter {
	return Filter{Property: property, Title: &TextFilter{Equals: value}}
}

// TitleContains builds a title substring condition.
func TitleContains(property, value string) Filter {
	return Filter{Property: property, Title: &TextFilter{Contains: value}}
}

// CheckboxEquals builds a checkbox condition.
func CheckboxEquals(property string, value bool) Filter {
	return Filter{Property: property, Checkbox: &CheckboxFilter{Equals: value}}
}

// And combines conditions. It returns nil when there is nothing to filter on.
func And(filters ...Filter) *Filter {
	if len(filters) == 0 {
		return nil
	}
	return &Filter{And: filters}
}
