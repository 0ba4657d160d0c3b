package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/sonarshift/internal/app"
	"github.com/tildaslashalef/sonarshift/internal/config"
	"github.com/tildaslashalef/sonarshift/internal/export"
	"github.com/tildaslashalef/sonarshift/internal/report"
	"github.com/tildaslashalef/sonarshift/internal/utils"
)

// ExportFlags are shared by the export command and the default action
func ExportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "url",
			Aliases: []string{"u"},
			Usage:   "SonarQube server URL (default: configured server)",
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "SonarQube API token (default: linked account token)",
		},
		&cli.StringFlag{
			Name:    "project-key",
			Aliases: []string{"k"},
			Usage:   "SonarQube project key",
		},
		&cli.StringFlag{
			Name:    "project-root",
			Aliases: []string{"r"},
			Usage:   "Local checkout the issues refer to (default: git root of the current directory)",
		},
		&cli.StringFlag{
			Name:    "output-root",
			Aliases: []string{"o"},
			Usage:   "Root the files are relocated to",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "CSV report destination (default: ./<project-key>-issues.csv)",
		},
	}
}

// ExportCommand returns the CLI command for exporting issues
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export open SonarQube issues to a CSV report",
		Description: "Fetches every unresolved issue of a project, maps each file to its location " +
			"under the new output root together with a conventional test location, and writes " +
			"the result as a CSV report.",
		Flags:  ExportFlags(),
		Action: exportAction,
	}
}

func exportAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	flags := export.Options{
		ServerURL:     c.String("url"),
		APIToken:      c.String("token"),
		ProjectKey:    c.String("project-key"),
		ProjectRoot:   c.String("project-root"),
		NewOutputRoot: c.String("output-root"),
		ReportPath:    c.String("report"),
	}
	opts := exportOptions(flags, application.Config, cwd, application.Git.DetectProjectRoot)

	utils.PrintHeading("Exporting SonarQube issues")
	utils.PrintInfo("Project: " + color.YellowString("%s", opts.ProjectKey))
	utils.PrintInfo("Server: " + color.YellowString("%s", opts.ServerURL))
	if warning := projectRootWarning(opts.ProjectRoot, application.Git.HasGitRepo); warning != "" {
		utils.PrintWarning(warning)
	}

	result, err := application.Export.Run(c.Context, opts)
	if err != nil {
		utils.PrintError(fmt.Sprintf("Export failed: %s", err))
		return err
	}

	printExportResult(result)
	return nil
}

// exportOptions fills every option the flags leave empty from the configuration.
// A missing project root falls back to the git worktree containing cwd.
func exportOptions(flags export.Options, cfg *config.Config, cwd string, detectRoot func(string) (string, error)) export.Options {
	opts := export.Options{
		ServerURL:     firstNonEmpty(flags.ServerURL, cfg.Sonar.URL),
		APIToken:      firstNonEmpty(flags.APIToken, cfg.Sonar.Token),
		ProjectKey:    firstNonEmpty(flags.ProjectKey, cfg.Paths.ProjectKey),
		ProjectRoot:   firstNonEmpty(flags.ProjectRoot, cfg.Paths.ProjectRoot),
		NewOutputRoot: firstNonEmpty(flags.NewOutputRoot, cfg.Paths.OutputRoot),
		ReportPath:    firstNonEmpty(flags.ReportPath, cfg.Paths.ReportPath),
	}

	if opts.ProjectRoot == "" && detectRoot != nil {
		if root, err := detectRoot(cwd); err == nil {
			opts.ProjectRoot = root
		}
	}

	if opts.ReportPath == "" && opts.ProjectKey != "" {
		opts.ReportPath = utils.DefaultReportPath(cwd, opts.ProjectKey)
	}

	return opts
}

// projectRootWarning flags a project root that is not the root of a git repository
func projectRootWarning(root string, isRepoRoot func(string) bool) string {
	if root == "" || isRepoRoot == nil || isRepoRoot(root) {
		return ""
	}
	return fmt.Sprintf("%s is not a git repository root; component paths may not resolve", root)
}

func printExportResult(result *export.Result) {
	utils.PrintSuccess(fmt.Sprintf("✓ Extracted %d issue(s) to %s", result.IssueCount, result.ReportPath))
	if result.RunID != "" {
		utils.PrintKeyValue("Run", result.RunID)
	}
	utils.PrintKeyValue("Files", strconv.Itoa(result.Summary.Files))
	utils.PrintKeyValue("With test location", strconv.Itoa(result.Summary.Testable))

	if len(result.Summary.ByType) > 0 {
		fmt.Println()
		utils.PrintTable("Issues by type", []string{"Type", "Count"}, countRows(result.Summary.ByType))
	}
	if len(result.Summary.ByLanguage) > 0 {
		fmt.Println()
		utils.PrintTable("Issues by language", []string{"Language", "Count"}, countRows(result.Summary.ByLanguage))
	}
}

func countRows(counts []report.Count) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Label, strconv.Itoa(c.Count)})
	}
	return rows
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
