package sonar

import "fmt"

// Issue is a single record from the issues search endpoint.
// Component, Message and Type are required by the report; they are pointers so
// that an absent field can be told apart from an empty one.
type Issue struct {
	Key       string  `json:"key,omitempty"`
	Rule      string  `json:"rule,omitempty"`
	Severity  string  `json:"severity,omitempty"`
	Status    string  `json:"status,omitempty"`
	Component *string `json:"component,omitempty"`
	Line      *int    `json:"line,omitempty"`
	Message   *string `json:"message,omitempty"`
	Type      *string `json:"type,omitempty"`
}

// Paging describes the position of a search page
type Paging struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
	Total     int `json:"total"`
}

// SearchResponse is the body of GET /api/issues/search
type SearchResponse struct {
	Total  int     `json:"total"`
	Paging Paging  `json:"paging"`
	Issues []Issue `json:"issues"`
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sonar API error %d: %s", e.StatusCode, e.Body)
}
