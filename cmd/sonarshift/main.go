package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/sonarshift/internal/app"
	"github.com/tildaslashalef/sonarshift/internal/commands"
)

// Version information - populated at build time
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "unknown"
	Author     = "unknown"
	Email      = "unknown"
)

func main() {
	cliApp := &cli.App{
		Name:  "sonarshift",
		Usage: "Export SonarQube issues and map them onto a relocated project",
		Description: "sonarshift fetches the open issues of a SonarQube project and writes a CSV report that maps\n" +
			"every affected file to its location under a new output root along with a conventional test location.\n\n" +
			"When run without subcommands, sonarshift performs an export (default action).",
		Version: Version,
		Compiled: func() time.Time {
			t, err := time.Parse(time.RFC3339, BuildTime)
			if err != nil {
				return time.Now()
			}
			return t
		}(),
		Authors: []*cli.Author{
			{
				Name:  Author,
				Email: Email,
			},
		},
		Flags: commands.ExportFlags(),
		Before: func(c *cli.Context) error {
			application, err := app.New()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			c.App.Metadata = map[string]interface{}{
				"app": application,
			}

			return nil
		},
		After: func(c *cli.Context) error {
			if app, ok := c.App.Metadata["app"].(*app.App); ok {
				return app.Shutdown()
			}
			return nil
		},
		Commands: []*cli.Command{
			commands.ExportCommand(),
			commands.FormCommand(),
			commands.ScaffoldCommand(),
			commands.TreeCommand(),
			commands.HistoryCommand(),
			commands.AccountCommand(),
			commands.InitCommand(),
			commands.MigrateCommand(),
		},
		Action: func(c *cli.Context) error {
			// Default action is to run the export command
			return commands.ExportCommand().Action(c)
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
