package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/warden/pkg/domain/interfaces"
	"github.com/m-mizutani/warden/pkg/domain/model"
	"github.com/m-mizutani/warden/pkg/domain/types"
)

type validator struct {
	repoClient    interfaces.RepositoryClient
	verdictClient interfaces.VerdictClient
	guidelines    string
	skipAuthors   []string
	timeout       time.Duration
	onSnapshot    func(ctx context.Context, owner, repo string, snapshot *model.PullRequestSnapshot)
}

// ValidatorOption configures the validator
type ValidatorOption func(*validator)

// WithGuidelines sets the contribution guidelines text embedded in prompts.
func WithGuidelines(text string) ValidatorOption {
	return func(v *validator) {
		v.guidelines = text
	}
}

// WithSkipAuthors sets the comma-separated author logins excluded from
// validation. Entries are trimmed; matching is exact.
func WithSkipAuthors(list string) ValidatorOption {
	return func(v *validator) {
		v.skipAuthors = nil
		for _, author := range strings.Split(list, ",") {
			if trimmed := strings.TrimSpace(author); trimmed != "" {
				v.skipAuthors = append(v.skipAuthors, trimmed)
			}
		}
	}
}

// WithTimeout overrides the validation span deadline. Intended for tests.
func WithTimeout(d time.Duration) ValidatorOption {
	return func(v *validator) {
		v.timeout = d
	}
}

// WithSnapshotObserver registers a hook called once after a successful
// fetch, before the timed validation span. The runner uses it to publish
// the pending commit status.
func WithSnapshotObserver(fn func(ctx context.Context, owner, repo string, snapshot *model.PullRequestSnapshot)) ValidatorOption {
	return func(v *validator) {
		v.onSnapshot = fn
	}
}

// NewValidator creates the validation pipeline orchestrator. Either client
// may be nil; the pipeline then degrades to a default PASS verdict so the
// system can be exercised in configuration-only environments.
func NewValidator(repoClient interfaces.RepositoryClient, verdictClient interfaces.VerdictClient, opts ...ValidatorOption) interfaces.ValidatorUseCase {
	v := &validator{
		repoClient:    repoClient,
		verdictClient: verdictClient,
		timeout:       types.ValidationTimeout,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs the pipeline for one PR: fetch, bot exclusion, model
// invocation. A fetch failure is fatal. Everything after the fetch races a
// wall-clock deadline; when the deadline wins, partial work is discarded
// and the run fails with a timeout error.
func (v *validator) Validate(ctx context.Context, owner, repo string, number int) (*model.ValidationVerdict, *model.PullRequestSnapshot, error) {
	logger := ctxlog.From(ctx)

	if v.repoClient == nil {
		logger.Warn("Repository client not configured, returning default verdict")
		return model.DefaultPassVerdict(), nil, nil
	}

	snapshot, err := v.repoClient.FetchPullRequest(ctx, owner, repo, number)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Fetched pull request snapshot",
		"owner", owner,
		"repo", repo,
		"number", number,
		"author", snapshot.Author,
		"commits", len(snapshot.Commits),
		"files_changed", snapshot.Stats.FilesChanged,
	)

	if v.onSnapshot != nil {
		v.onSnapshot(ctx, owner, repo, snapshot)
	}

	if v.verdictClient == nil {
		logger.Warn("Verdict client not configured, returning default verdict")
		return model.DefaultPassVerdict(), snapshot, nil
	}

	spanCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	verdictCh := make(chan *model.ValidationVerdict, 1)
	go func() {
		verdictCh <- v.decide(spanCtx, snapshot)
	}()

	select {
	case verdict := <-verdictCh:
		verdict.Normalize()
		return verdict, snapshot, nil
	case <-spanCtx.Done():
		// No partial verdict; the snapshot is still returned so the caller
		// can mark the head commit as errored.
		return nil, snapshot, goerr.New("validation timed out",
			goerr.T(types.ErrTagTimeout),
			goerr.V("timeout", v.timeout),
			goerr.V("number", number),
		)
	}
}

// decide runs the skip check and the model invocation. It always returns a
// verdict; model failures are absorbed by the verdict client.
func (v *validator) decide(ctx context.Context, snapshot *model.PullRequestSnapshot) *model.ValidationVerdict {
	logger := ctxlog.From(ctx)

	for _, author := range v.skipAuthors {
		if snapshot.Author == author {
			logger.Info("Skipping validation for excluded author", "author", author)
			return model.SkippedVerdict(author)
		}
	}

	prompt, err := v.verdictClient.BuildPrompt(snapshot, v.guidelines)
	if err != nil {
		logger.Warn("Failed to build prompt, using fallback verdict", "error", err)
		return model.FallbackVerdict()
	}

	return v.verdictClient.Invoke(ctx, prompt)
}
