package config

import "github.com/urfave/cli/v3"

// Claude holds LLM configuration
type Claude struct {
	APIKey string `masq:"secret"`
	Model  string
}

// Flags returns CLI flags for Claude configuration
func (c *Claude) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-key",
			Usage:       "Anthropic API key for the verdict model",
			Destination: &c.APIKey,
			Sources:     cli.EnvVars("INPUT_API_KEY", "ANTHROPIC_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "model",
			Usage:       "Model to use for validation",
			Value:       "claude-sonnet-4-20250514",
			Destination: &c.Model,
			Sources:     cli.EnvVars("INPUT_MODEL", "WARDEN_MODEL"),
		},
	}
}
