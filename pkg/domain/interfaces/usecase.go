package interfaces

import (
	"context"

	"github.com/m-mizutani/warden/pkg/domain/model"
)

// VerdictClient builds validation prompts and invokes the language model.
type VerdictClient interface {
	// BuildPrompt renders the deterministic validation prompt from the
	// snapshot and the guidelines text. The prompt is text-format-only: it
	// excludes diff metrics so results stay reproducible regardless of PR
	// size.
	BuildPrompt(snapshot *model.PullRequestSnapshot, guidelines string) (string, error)

	// Invoke sends the prompt to the model and returns a structured
	// verdict. It never fails: provider errors and malformed responses
	// degrade into a fallback verdict.
	Invoke(ctx context.Context, prompt string) *model.ValidationVerdict
}

// ValidatorUseCase runs the validation pipeline for one pull request.
type ValidatorUseCase interface {
	// Validate fetches the snapshot, applies bot exclusion, and produces
	// the run's verdict under the global timeout.
	Validate(ctx context.Context, owner, repo string, number int) (*model.ValidationVerdict, *model.PullRequestSnapshot, error)
}

// CommentPublisher owns the tracked comment lifecycle on a PR.
type CommentPublisher interface {
	// Publish updates the existing tracked comment or creates a new one.
	// It degrades to "always create" rather than failing the run over
	// comment bookkeeping.
	Publish(ctx context.Context, owner, repo string, number int, body, identifier string) (*model.TrackedComment, error)
}

// ValidationRunner executes the full job for one PR: validate, render,
// publish, and report commit statuses.
type ValidationRunner interface {
	Run(ctx context.Context, owner, repo string, number int) (*model.RunResult, error)
}
