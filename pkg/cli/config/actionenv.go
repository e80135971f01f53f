package config

import "github.com/urfave/cli/v3"

// ActionEnv holds the invocation context a CI workflow provides
type ActionEnv struct {
	Repository string
	EventPath  string
	OutputPath string
	Number     int
}

// Flags returns CLI flags for the workflow invocation context
func (c *ActionEnv) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository",
			Usage:       "Target repository in owner/repo form",
			Destination: &c.Repository,
			Sources:     cli.EnvVars("GITHUB_REPOSITORY"),
		},
		&cli.StringFlag{
			Name:        "event-path",
			Usage:       "Path to the webhook event payload JSON",
			Destination: &c.EventPath,
			Sources:     cli.EnvVars("GITHUB_EVENT_PATH"),
		},
		&cli.StringFlag{
			Name:        "output-path",
			Usage:       "File to append workflow step outputs to",
			Destination: &c.OutputPath,
			Sources:     cli.EnvVars("GITHUB_OUTPUT"),
		},
		&cli.IntFlag{
			Name:        "number",
			Usage:       "Pull request number (overrides the event payload)",
			Destination: &c.Number,
			Sources:     cli.EnvVars("WARDEN_PR_NUMBER"),
		},
	}
}
