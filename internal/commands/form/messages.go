package form

import "github.com/tildaslashalef/sonarshift/internal/export"

// Message types used within the export form
type (
	// ExportDoneMsg is sent when an export run has finished, successfully or not
	ExportDoneMsg struct {
		Result *export.Result
		Error  error
	}
)
