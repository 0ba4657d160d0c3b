package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/sonarshift/internal/app"
	"github.com/tildaslashalef/sonarshift/internal/scaffold"
	"github.com/tildaslashalef/sonarshift/internal/utils"
)

// ScaffoldCommand returns the CLI command that creates the directories a report refers to
func ScaffoldCommand() *cli.Command {
	return &cli.Command{
		Name:      "scaffold",
		Usage:     "Create the test and output directories listed in a report",
		ArgsUsage: "<report.csv>",
		Action:    scaffoldAction,
	}
}

func scaffoldAction(c *cli.Context) error {
	reportPath := c.Args().First()
	if reportPath == "" {
		application, err := app.FromContext(c)
		if err != nil {
			return err
		}
		reportPath = application.Config.Paths.ReportPath
	}
	if reportPath == "" {
		return fmt.Errorf("report path is required")
	}

	created, err := scaffold.FromReport(reportPath)
	for _, dir := range created {
		fmt.Println(dir.String())
	}
	if err != nil {
		utils.PrintError(fmt.Sprintf("Failed to create directories: %s", err))
		return err
	}

	return nil
}
