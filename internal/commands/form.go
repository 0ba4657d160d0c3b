package commands

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/sonarshift/internal/app"
	"github.com/tildaslashalef/sonarshift/internal/commands/form"
	"github.com/tildaslashalef/sonarshift/internal/export"
	"github.com/tildaslashalef/sonarshift/internal/loggy"
)

// FormCommand returns the CLI command for the interactive export form
func FormCommand() *cli.Command {
	return &cli.Command{
		Name:        "form",
		Usage:       "Fill in the export settings interactively",
		Description: "Opens a terminal form prefilled from the configuration. Errors are shown in the form so the export can be retried.",
		Action:      formAction,
	}
}

func formAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	defaults := exportOptions(export.Options{}, application.Config, cwd, application.Git.DetectProjectRoot)

	loggy.Info("Opening export form")
	p := tea.NewProgram(form.NewModel(c.Context, application.Export, defaults))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running form UI: %w", err)
	}

	return nil
}
