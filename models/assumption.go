package models

// Assumption statuses.
const (
	StatusPending     = "Pending"
	StatusTesting     = "Testing"
	StatusValidated   = "Validated"
	StatusInvalidated = "Invalidated"
)

// Assumption confidence levels.
const (
	ConfidenceLow    = "Low"
	ConfidenceMedium = "Medium"
	ConfidenceHigh   = "High"
)

var (
	AssumptionStatuses    = []string{StatusPending, StatusTesting, StatusValidated, StatusInvalidated}
	AssumptionConfidences = []string{ConfidenceLow, ConfidenceMedium, ConfidenceHigh}
)

// Assumption is a research hypothesis under test.
type Assumption struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Confidence  string  `json:"confidence"`
	Evidence    *string `json:"evidence"`
	CreatedAt   string  `json:"createdAt"`
	NotionURL   string  `json:"notionUrl"`
}

// AssumptionFilters lists the values offered in the status and confidence dropdowns.
type AssumptionFilters struct {
	Statuses    []string `json:"statuses"`
	Confidences []string `json:"confidences"`
}
