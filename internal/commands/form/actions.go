package form

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tildaslashalef/sonarshift/internal/export"
	"github.com/tildaslashalef/sonarshift/internal/loggy"
	"github.com/tildaslashalef/sonarshift/internal/report"
)

// runExport creates a command that runs the export in the background
func runExport(ctx context.Context, runner Runner, opts export.Options) tea.Cmd {
	return func() tea.Msg {
		loggy.Debug("Export started from form", "project", opts.ProjectKey)

		result, err := runner.Run(ctx, opts)
		if err != nil {
			loggy.Error("Export from form failed", "project", opts.ProjectKey, "error", err)
			return ExportDoneMsg{Error: err}
		}
		return ExportDoneMsg{Result: result}
	}
}

// summaryMarkdown describes a finished export for the success view
func summaryMarkdown(result *export.Result) string {
	var b strings.Builder

	b.WriteString("# Issues extracted\n\n")
	fmt.Fprintf(&b, "Report saved to `%s`.\n\n", result.ReportPath)
	fmt.Fprintf(&b, "- **Issues:** %d\n", result.IssueCount)
	fmt.Fprintf(&b, "- **Files:** %d\n", result.Summary.Files)
	fmt.Fprintf(&b, "- **With test location:** %d\n", result.Summary.Testable)
	if result.RunID != "" {
		fmt.Fprintf(&b, "- **Run:** `%s`\n", result.RunID)
	}

	writeCounts(&b, "By type", "Type", result.Summary.ByType)
	writeCounts(&b, "By language", "Language", result.Summary.ByLanguage)

	return b.String()
}

func writeCounts(b *strings.Builder, title, label string, counts []report.Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n| %s | Count |\n|---|---|\n", title, label)
	for _, c := range counts {
		fmt.Fprintf(b, "| %s | %d |\n", c.Label, c.Count)
	}
}
