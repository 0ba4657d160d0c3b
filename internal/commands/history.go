package commands

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/sonarshift/internal/app"
	"github.com/tildaslashalef/sonarshift/internal/history"
	"github.com/tildaslashalef/sonarshift/internal/utils"
)

// HistoryCommand returns the CLI command for browsing past export runs
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded export runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Number of runs to show",
				Value:   history.DefaultListLimit,
			},
		},
		Subcommands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show a single export run",
				ArgsUsage: "<run-id>",
				Action:    historyShowAction,
			},
		},
		Action: historyListAction,
	}
}

func historyListAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	runs, err := application.History.List(c.Context, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("listing export runs: %w", err)
	}

	if len(runs) == 0 {
		utils.PrintInfo("No export runs recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.ProjectKey,
			strconv.Itoa(run.IssueCount),
			utils.Truncate(run.ReportPath, 48),
			run.CreatedAt.Local().Format("Jan 02 15:04:05"),
		})
	}

	utils.PrintTable("Export Runs", []string{"ID", "Project", "Issues", "Report", "Created"}, rows)
	return nil
}

func historyShowAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("run id is required")
	}

	run, err := application.History.Get(c.Context, id)
	if errors.Is(err, history.ErrRunNotFound) {
		utils.PrintError(fmt.Sprintf("No export run with id %s", id))
		return err
	}
	if err != nil {
		return fmt.Errorf("getting export run: %w", err)
	}

	utils.PrintHeading("Export Run " + run.ID)
	utils.PrintKeyValue("Project", run.ProjectKey)
	utils.PrintKeyValue("Server", run.ServerURL)
	utils.PrintKeyValue("Project root", run.ProjectRoot)
	utils.PrintKeyValue("Output root", run.OutputRoot)
	utils.PrintKeyValue("Report", run.ReportPath)
	utils.PrintKeyValue("Issues", strconv.Itoa(run.IssueCount))
	utils.PrintKeyValue("Rows", strconv.Itoa(run.RowCount))
	utils.PrintKeyValue("Created", run.CreatedAt.Local().Format(time.RFC1123))
	return nil
}
