package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/sonarshift/internal/config"
	"github.com/tildaslashalef/sonarshift/internal/database"
	"github.com/tildaslashalef/sonarshift/internal/utils"
)

// InitCommand returns the CLI command for initializing sonarshift
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize or update the sonarshift environment",
		Description: "Sets up the configuration directory and the database with the necessary tables. " +
			"Use this command for first-time setup or to update the database schema after upgrading.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-backup",
				Usage: "Overwrite an existing .env without keeping a dated backup",
			},
		},
		Action: func(c *cli.Context) error {
			utils.PrintHeading("Initializing sonarshift")

			configDir, err := config.DefaultConfigDir()
			if err != nil {
				utils.PrintError(err.Error())
				return err
			}
			utils.PrintInfo("Configuration directory: " + color.YellowString("%s", configDir))

			// Extract the default environment file, backing up an existing one
			utils.PrintInfo("Extracting default configuration file")
			configFilePath, err := config.SetupConfigDirectory(configDir, !c.Bool("no-backup"))
			if err != nil {
				utils.PrintError(fmt.Sprintf("Failed to set up configuration files: %s", err))
				return fmt.Errorf("failed to set up configuration files: %w", err)
			}

			cfg, err := config.LoadFromEnv(configDir, configFilePath, true)
			if err != nil {
				utils.PrintError(fmt.Sprintf("Failed to load configuration: %s", err))
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			utils.PrintInfo("Initializing database...")
			if err := database.InitDB(cfg); err != nil {
				utils.PrintError(fmt.Sprintf("Failed to initialize database: %s", err))
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			utils.PrintInfo("Applying database migrations...")
			migrationsApplied, err := database.RunMigrations()
			if err != nil {
				utils.PrintError(fmt.Sprintf("Failed to apply migrations: %s", err))
				return fmt.Errorf("failed to apply migrations: %w", err)
			}

			utils.PrintSuccess("✓ sonarshift initialized successfully!")

			if migrationsApplied > 0 {
				utils.PrintSuccess(fmt.Sprintf("Applied %d new migration(s)", migrationsApplied))
			} else {
				utils.PrintInfo("Database schema is already up-to-date")
			}

			utils.PrintInfo("Configuration file: " + color.YellowString("%s", configFilePath))
			utils.PrintInfo("Database location: " + color.YellowString("%s", cfg.Database.Path))
			utils.PrintInfo("Log file location: " + color.YellowString("%s", cfg.Logging.Output))
			fmt.Println("")
			utils.PrintInfo("Link your server with " + color.CyanString("sonarshift account link --url <url> --token <token>") +
				" and run " + color.CyanString("sonarshift") + " to export issues.")

			return nil
		},
	}
}
