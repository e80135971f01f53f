package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/warden/pkg/cli/config"
	"github.com/m-mizutani/warden/pkg/controller/action"
	"github.com/m-mizutani/warden/pkg/domain/interfaces"
	"github.com/m-mizutani/warden/pkg/domain/model"
	"github.com/m-mizutani/warden/pkg/domain/types"
	githubinfra "github.com/m-mizutani/warden/pkg/infra/github"
	"github.com/m-mizutani/warden/pkg/usecase"
)

func cmdValidate() *cli.Command {
	var (
		githubCfg config.GitHub
		claudeCfg config.Claude
		actionCfg config.ActionEnv
	)

	flags := append(githubCfg.Flags(), claudeCfg.Flags()...)
	flags = append(flags, actionCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate one pull request and publish the result as a comment",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			target, err := action.ResolveTarget(actionCfg.Repository, actionCfg.Number, actionCfg.EventPath)
			if err != nil {
				return err
			}

			logger.Info("Starting validation run",
				"owner", target.Owner,
				"repo", target.Repo,
				"number", target.Number,
				"github", githubCfg,
				"claude", claudeCfg,
			)

			var repoClient interfaces.RepositoryClient
			if githubCfg.Token != "" {
				client, err := githubinfra.NewClient(githubCfg.Token)
				if err != nil {
					return err
				}
				repoClient = client
			} else {
				logger.Warn("No GitHub token configured, running without a repository provider")
			}

			var verdictClient interfaces.VerdictClient
			var guidelines string
			if claudeCfg.APIKey != "" {
				llmClient, err := claude.New(ctx, claudeCfg.APIKey, claude.WithModel(claudeCfg.Model))
				if err != nil {
					return goerr.Wrap(err, "failed to create LLM client")
				}
				verdictClient, err = usecase.NewVerdictClient(llmClient)
				if err != nil {
					return err
				}

				raw, err := os.ReadFile(githubCfg.GuidelinesFile)
				if err != nil {
					return goerr.Wrap(err, "failed to read guidelines file",
						goerr.T(types.ErrTagInvalidArgument),
						goerr.V("path", githubCfg.GuidelinesFile))
				}
				guidelines = string(raw)
			} else {
				logger.Warn("No API key configured, running without a verdict client")
			}

			runner := usecase.NewRunner(repoClient, verdictClient, usecase.RunnerConfig{
				Guidelines:        guidelines,
				SkipAuthors:       githubCfg.SkipAuthors,
				CommentIdentifier: githubCfg.CommentIdentifier,
				StatusContext:     githubCfg.StatusContext,
			})

			result, err := runner.Run(ctx, target.Owner, target.Repo, target.Number)
			if err != nil {
				return err
			}

			printSummary(result)

			if actionCfg.OutputPath != "" {
				if err := action.WriteOutputs(actionCfg.OutputPath, result); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

var statusColors = map[model.VerdictStatus]*color.Color{
	model.StatusPass:     color.New(color.FgGreen, color.Bold),
	model.StatusWarnings: color.New(color.FgYellow, color.Bold),
	model.StatusFail:     color.New(color.FgRed, color.Bold),
}

func printSummary(result *model.RunResult) {
	verdict := result.Verdict

	c, ok := statusColors[verdict.Status]
	if !ok {
		c = color.New(color.Bold)
	}
	fmt.Printf("Validation result: %s\n", c.Sprint(string(verdict.Status)))

	for _, issue := range verdict.Issues {
		fmt.Printf("  - %s\n", issue)
	}
	if result.CommentURL != "" {
		fmt.Printf("Comment: %s\n", result.CommentURL)
	}
	if verdict.TokenUsage.TotalTokens > 0 {
		fmt.Printf("Tokens: %d prompt + %d completion\n",
			verdict.TokenUsage.PromptTokens, verdict.TokenUsage.CompletionTokens)
	}
}
