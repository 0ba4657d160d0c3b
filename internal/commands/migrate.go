package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/sonarshift/internal/database"
	"github.com/tildaslashalef/sonarshift/internal/utils"
)

// MigrateCommand returns the CLI command for database migrations
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Manage the settings and export history schema",
		Hidden: true,
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Create or upgrade the settings and export_runs tables",
				Action: func(c *cli.Context) error {
					utils.PrintInfo("Applying embedded migrations for the settings and export_runs tables")

					migrationsApplied, err := database.RunMigrations()
					if err != nil {
						utils.PrintError(fmt.Sprintf("Failed to apply migrations: %s", err))
						return fmt.Errorf("failed to apply migrations: %w", err)
					}

					if migrationsApplied > 0 {
						utils.PrintSuccess(fmt.Sprintf("Applied %d migration(s) successfully!", migrationsApplied))
					} else {
						utils.PrintSuccess("Database schema is already up-to-date")
					}
					utils.PrintInfo("Stored account settings and export history are ready")
					return nil
				},
			},
			{
				Name:  "down",
				Usage: "Revert the latest schema changes (the first step drops export history)",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "steps",
						Usage: "Number of migrations to revert",
						Value: 1,
					},
				},
				Action: func(c *cli.Context) error {
					steps := c.Int("steps")
					utils.PrintWarning(fmt.Sprintf("Reverting %d embedded migration(s)", steps))
					if steps >= 2 {
						utils.PrintWarning("This also removes the stored account settings")
					}

					if err := database.RevertMigrations(steps); err != nil {
						utils.PrintError(fmt.Sprintf("Failed to revert migrations: %s", err))
						return fmt.Errorf("failed to revert migrations: %w", err)
					}

					utils.PrintSuccess("Migration(s) reverted successfully!")
					utils.PrintInfo("Run " + color.CyanString("sonarshift migrate up") + " to restore the export_runs and settings tables")
					return nil
				},
			},
		},
	}
}
