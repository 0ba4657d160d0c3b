package report

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/tildaslashalef/sonarshift/internal/loggy"
	"github.com/tildaslashalef/sonarshift/internal/pathmap"
	"github.com/tildaslashalef/sonarshift/internal/sonar"
)

// BuildOptions carries the roots issues are resolved against
type BuildOptions struct {
	ProjectKey    string
	ProjectRoot   string
	NewOutputRoot string
}

// Builder turns raw issues into sorted report rows
type Builder struct {
	logger *loggy.Logger
}

// NewBuilder creates a new report builder
func NewBuilder(logger *loggy.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build resolves every issue in input order and returns the rows sorted by original location.
// Duplicate issues yield duplicate rows. An issue without a component, message or type fails the whole build.
func (b *Builder) Build(issues []sonar.Issue, opts BuildOptions) ([]Row, error) {
	rows := make([]Row, 0, len(issues))
	untestable := 0

	for i, issue := range issues {
		row, err := buildRow(issue, opts)
		if err != nil {
			return nil, fmt.Errorf("issue %d: %w", i, err)
		}
		if !row.Testable() {
			untestable++
			b.logger.Debug("No test location for file", "path", row.OutputLocation)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].OriginalLocation < rows[j].OriginalLocation
	})

	b.logger.Debug("Built report rows", "issues", len(issues), "rows", len(rows), "untestable", untestable)
	return rows, nil
}

func buildRow(issue sonar.Issue, opts BuildOptions) (Row, error) {
	switch {
	case issue.Component == nil:
		return Row{}, fmt.Errorf("component: %w", ErrMissingField)
	case issue.Message == nil:
		return Row{}, fmt.Errorf("message: %w", ErrMissingField)
	case issue.Type == nil:
		return Row{}, fmt.Errorf("type: %w", ErrMissingField)
	}

	component := *issue.Component
	original := pathmap.ResolveComponentPath(component, opts.ProjectKey, opts.ProjectRoot)
	output := pathmap.RewriteRoot(original, opts.ProjectRoot, opts.NewOutputRoot)

	var testLocation, testFileName string
	if pathmap.IsTestable(output) {
		testLocation, testFileName = pathmap.ResolveTestLocation(output)
	}

	line := NotAvailable
	if issue.Line != nil {
		line = strconv.Itoa(*issue.Line)
	}

	return Row{
		OriginalLocation: original,
		FileName:         pathmap.FileName(component),
		Line:             line,
		Message:          *issue.Message,
		Type:             *issue.Type,
		OutputLocation:   output,
		TestLocation:     testLocation,
		TestFileName:     testFileName,
	}, nil
}
