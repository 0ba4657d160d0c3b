// Package report turns SonarQube issues into relocation rows and serializes them as CSV
package report

import "errors"

// ErrMissingField is returned when an issue lacks a component, message or type
var ErrMissingField = errors.New("issue is missing a required field")

// NotAvailable is written in the line column of issues without a line
const NotAvailable = "N/A"

// Header is the fixed column order of the CSV report
var Header = []string{
	"file_Location",
	"file_name",
	"line",
	"message",
	"type",
	"output_location",
	"test_location",
	"test_file_name",
}

// Row is one fully resolved issue
type Row struct {
	OriginalLocation string
	FileName         string
	Line             string // line number or NotAvailable
	Message          string
	Type             string
	OutputLocation   string
	TestLocation     string // empty when the file has no test convention
	TestFileName     string
}

// Record returns the row's fields in Header order
func (r Row) Record() []string {
	return []string{
		r.OriginalLocation,
		r.FileName,
		r.Line,
		r.Message,
		r.Type,
		r.OutputLocation,
		r.TestLocation,
		r.TestFileName,
	}
}

// Testable reports whether a test location was derived for the row
func (r Row) Testable() bool {
	return r.TestLocation != ""
}
