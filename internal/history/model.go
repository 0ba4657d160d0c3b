// Package history records completed export runs
package history

import "time"

// Run is one completed export
type Run struct {
	ID          string
	ProjectKey  string
	ServerURL   string
	ProjectRoot string
	OutputRoot  string
	ReportPath  string
	IssueCount  int
	RowCount    int
	CreatedAt   time.Time
}
