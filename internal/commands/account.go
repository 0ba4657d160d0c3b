package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/sonarshift/internal/app"
	"github.com/tildaslashalef/sonarshift/internal/utils"
)

// AccountCommand returns the CLI command for managing the stored SonarQube credentials
func AccountCommand() *cli.Command {
	return &cli.Command{
		Name:        "account",
		Usage:       "Manage the SonarQube server connection",
		Description: "Store or remove the server URL and API token used when no flags are given",
		Subcommands: []*cli.Command{
			{
				Name:  "link",
				Usage: "Store a server URL and API token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "SonarQube server URL",
					},
					&cli.StringFlag{
						Name:     "token",
						Usage:    "SonarQube API token",
						Required: true,
					},
				},
				Action: linkAccountAction,
			},
			{
				Name:   "unlink",
				Usage:  "Remove the stored server URL and API token",
				Action: unlinkAccountAction,
			},
			{
				Name:   "status",
				Usage:  "Show the stored connection",
				Action: accountStatusAction,
			},
		},
	}
}

func linkAccountAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	token := c.String("token")
	if token == "" {
		return fmt.Errorf("token is required")
	}

	if err := application.Settings.LinkAccount(c.Context, c.String("url"), token); err != nil {
		utils.PrintError(fmt.Sprintf("Failed to link account: %s", err))
		return err
	}

	utils.PrintSuccess("✓ Linked to " + application.Config.Sonar.URL)
	return nil
}

func unlinkAccountAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	if err := application.Settings.UnlinkAccount(c.Context); err != nil {
		utils.PrintError(fmt.Sprintf("Failed to unlink account: %s", err))
		return err
	}

	utils.PrintSuccess("Stored SonarQube credentials removed")
	return nil
}

func accountStatusAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	serverURL, hasToken, err := application.Settings.AccountStatus(c.Context)
	if err != nil {
		return fmt.Errorf("reading account settings: %w", err)
	}

	if serverURL == "" && !hasToken {
		utils.PrintWarning("No SonarQube account linked")
		return nil
	}

	utils.PrintHeading("SonarQube Account")
	utils.PrintKeyValue("Server URL", serverURL)
	if hasToken {
		utils.PrintKeyValue("Token", "stored")
	} else {
		utils.PrintKeyValue("Token", "missing")
	}
	return nil
}
