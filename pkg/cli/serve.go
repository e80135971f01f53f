package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/warden/pkg/cli/config"
	controller "github.com/m-mizutani/warden/pkg/controller/http"
	"github.com/m-mizutani/warden/pkg/domain/types"
	githubinfra "github.com/m-mizutani/warden/pkg/infra/github"
	"github.com/m-mizutani/warden/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		githubCfg config.GitHub
		appCfg    config.GitHubApp
		claudeCfg config.Claude
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, claudeCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server receiving GitHub webhooks",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if claudeCfg.APIKey == "" {
				return goerr.New("API key is required in serve mode", goerr.T(types.ErrTagInvalidArgument))
			}

			logger.Info("Starting warden server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("github", githubCfg),
				slog.Any("app", appCfg),
				slog.Any("claude", claudeCfg),
			)

			privateKey, err := appCfg.LoadPrivateKey()
			if err != nil {
				return err
			}

			repoClient, err := githubinfra.NewAppClient(appCfg.AppID, appCfg.InstallationID, privateKey)
			if err != nil {
				return err
			}

			llmClient, err := claude.New(ctx, claudeCfg.APIKey, claude.WithModel(claudeCfg.Model))
			if err != nil {
				return goerr.Wrap(err, "failed to create LLM client")
			}
			verdictClient, err := usecase.NewVerdictClient(llmClient)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(githubCfg.GuidelinesFile)
			if err != nil {
				return goerr.Wrap(err, "failed to read guidelines file",
					goerr.T(types.ErrTagInvalidArgument),
					goerr.V("path", githubCfg.GuidelinesFile))
			}

			runner := usecase.NewRunner(repoClient, verdictClient, usecase.RunnerConfig{
				Guidelines:        string(raw),
				SkipAuthors:       githubCfg.SkipAuthors,
				CommentIdentifier: githubCfg.CommentIdentifier,
				StatusContext:     githubCfg.StatusContext,
			})

			server, err := controller.NewServer(
				ctx,
				runner,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(appCfg.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(ctx, serverCfg.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
