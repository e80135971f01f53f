package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/warden/pkg/domain/types"
)

// GitHub holds repository provider configuration for token-based runs
type GitHub struct {
	Token             string `masq:"secret"`
	GuidelinesFile    string
	SkipAuthors       string
	CommentIdentifier string
	StatusContext     string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token used for PR data, comments and commit statuses",
			Destination: &c.Token,
			Sources:     cli.EnvVars("INPUT_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "guidelines-file",
			Usage:       "Path to the contribution guidelines file",
			Value:       "CONTRIBUTING.md",
			Destination: &c.GuidelinesFile,
			Sources:     cli.EnvVars("INPUT_GUIDELINES_FILE", "WARDEN_GUIDELINES_FILE"),
		},
		&cli.StringFlag{
			Name:        "skip-authors",
			Usage:       "Comma-separated author logins excluded from validation",
			Destination: &c.SkipAuthors,
			Sources:     cli.EnvVars("INPUT_SKIP_AUTHORS", "WARDEN_SKIP_AUTHORS"),
		},
		&cli.StringFlag{
			Name:        "comment-identifier",
			Usage:       "Hidden marker distinguishing this validator's comment",
			Value:       types.DefaultCommentIdentifier,
			Destination: &c.CommentIdentifier,
			Sources:     cli.EnvVars("INPUT_COMMENT_IDENTIFIER", "WARDEN_COMMENT_IDENTIFIER"),
		},
		&cli.StringFlag{
			Name:        "status-context",
			Usage:       "Commit status context label",
			Value:       types.DefaultStatusContext,
			Destination: &c.StatusContext,
			Sources:     cli.EnvVars("INPUT_STATUS_CONTEXT", "WARDEN_STATUS_CONTEXT"),
		},
	}
}
