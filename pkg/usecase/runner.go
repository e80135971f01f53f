package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/warden/pkg/domain/interfaces"
	"github.com/m-mizutani/warden/pkg/domain/model"
	"github.com/m-mizutani/warden/pkg/domain/types"
	"github.com/m-mizutani/warden/pkg/report"
)

// RunnerConfig carries everything a full validation job needs beyond the
// two provider clients.
type RunnerConfig struct {
	Guidelines        string
	SkipAuthors       string
	CommentIdentifier string
	StatusContext     string
	// Timeout overrides the validation span deadline when positive.
	Timeout time.Duration
}

type runner struct {
	repoClient interfaces.RepositoryClient
	validator  interfaces.ValidatorUseCase
	publisher  interfaces.CommentPublisher
	identifier string
	statusCtx  string
}

// NewRunner wires the orchestrator, the comment lifecycle manager and the
// commit status reporting into one job. The verdict client may be nil; the
// repository client may also be nil, in which case the job degrades to a
// default verdict without publication.
func NewRunner(repoClient interfaces.RepositoryClient, verdictClient interfaces.VerdictClient, cfg RunnerConfig) interfaces.ValidationRunner {
	r := &runner{
		repoClient: repoClient,
		identifier: cfg.CommentIdentifier,
		statusCtx:  cfg.StatusContext,
	}
	if r.identifier == "" {
		r.identifier = types.DefaultCommentIdentifier
	}
	if r.statusCtx == "" {
		r.statusCtx = types.DefaultStatusContext
	}

	validatorOpts := []ValidatorOption{
		WithGuidelines(cfg.Guidelines),
		WithSkipAuthors(cfg.SkipAuthors),
		WithSnapshotObserver(r.reportPending),
	}
	if cfg.Timeout > 0 {
		validatorOpts = append(validatorOpts, WithTimeout(cfg.Timeout))
	}
	r.validator = NewValidator(repoClient, verdictClient, validatorOpts...)
	if repoClient != nil {
		r.publisher = NewCommentManager(repoClient)
	}

	return r
}

// Run executes the full job: validate, render the report, publish the
// tracked comment, and report the final commit status. Publication and
// status failures are absorbed; only fetch failures and timeouts are fatal.
func (r *runner) Run(ctx context.Context, owner, repo string, number int) (*model.RunResult, error) {
	logger := ctxlog.From(ctx)

	verdict, snapshot, err := r.validator.Validate(ctx, owner, repo, number)
	if err != nil {
		if snapshot != nil {
			r.reportError(ctx, owner, repo, snapshot.HeadSHA)
		}
		return nil, err
	}

	result := &model.RunResult{
		Verdict:  verdict,
		Snapshot: snapshot,
	}

	// Degraded mode: no provider means nothing to publish to.
	if snapshot == nil || r.publisher == nil {
		return result, nil
	}

	body := report.Render(verdict)
	comment, err := r.publisher.Publish(ctx, owner, repo, number, body, r.identifier)
	if err != nil {
		logger.Error("Failed to publish validation comment", "error", err)
	} else {
		result.CommentURL = model.CommentURL(owner, repo, number, comment.ID)
	}

	r.reportFinal(ctx, owner, repo, snapshot.HeadSHA, verdict, result.CommentURL)

	return result, nil
}

// reportPending marks the head commit while validation is in flight.
func (r *runner) reportPending(ctx context.Context, owner, repo string, snapshot *model.PullRequestSnapshot) {
	if r.repoClient == nil || snapshot.HeadSHA == "" {
		return
	}

	status := &model.CommitStatus{
		State:       model.StatePending,
		Description: "AI validation in progress",
		Context:     r.statusCtx,
	}
	if err := r.repoClient.SetCommitStatus(ctx, owner, repo, snapshot.HeadSHA, status); err != nil {
		ctxlog.From(ctx).Warn("Failed to set pending commit status", "error", err)
	}
}

// reportError resolves a pending status when the run dies after the fetch,
// so the head commit is not left pending forever.
func (r *runner) reportError(ctx context.Context, owner, repo, sha string) {
	if r.repoClient == nil || sha == "" {
		return
	}

	status := &model.CommitStatus{
		State:       model.StateError,
		Description: "AI validation did not complete",
		Context:     r.statusCtx,
	}
	if err := r.repoClient.SetCommitStatus(ctx, owner, repo, sha, status); err != nil {
		ctxlog.From(ctx).Warn("Failed to set error commit status", "error", err)
	}
}

func (r *runner) reportFinal(ctx context.Context, owner, repo, sha string, verdict *model.ValidationVerdict, targetURL string) {
	if sha == "" {
		return
	}

	state := model.CommitStateForVerdict(verdict)
	description := fmt.Sprintf("AI validation: %s", verdict.Status)
	if verdict.Skipped {
		description = "AI validation skipped"
	}

	status := &model.CommitStatus{
		State:       state,
		Description: description,
		Context:     r.statusCtx,
		TargetURL:   targetURL,
	}
	if err := r.repoClient.SetCommitStatus(ctx, owner, repo, sha, status); err != nil {
		ctxlog.From(ctx).Warn("Failed to set final commit status", "error", err, "state", state)
	}
}
