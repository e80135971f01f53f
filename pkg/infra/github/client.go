package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/m-mizutani/warden/pkg/domain/interfaces"
	"github.com/m-mizutani/warden/pkg/domain/model"
	"github.com/m-mizutani/warden/pkg/domain/types"
)

var _ interfaces.RepositoryClient = (*Client)(nil)

// Client implements the repository data provider on top of the GitHub REST
// API. Raw go-github types never leak past this package.
type Client struct {
	gh    *github.Client
	retry RetryPolicy
}

// NewClient creates a client authenticated with a personal access token.
// The transport stack layers the secondary rate limit middleware under the
// go-github client, following the usual PAT setup.
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, goerr.New("repository token is required", goerr.T(types.ErrTagInvalidArgument))
	}

	httpClient := github_ratelimit.NewClient(nil)
	return &Client{
		gh:    github.NewClient(httpClient).WithAuthToken(token),
		retry: DefaultRetryPolicy(),
	}, nil
}

// NewAppClient creates a client authenticated as a GitHub App installation.
// Used by serve mode, where the validator acts on webhook deliveries.
func NewAppClient(appID, installationID int64, privateKey []byte) (*Client, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	return &Client{
		gh:    github.NewClient(&http.Client{Transport: itr}),
		retry: DefaultRetryPolicy(),
	}, nil
}

// NewClientWithHTTPClient creates a Client against a custom base URL. This
// constructor is intended for testing against an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, retry RetryPolicy) (*Client, error) {
	gh := github.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse base URL", goerr.V("url", baseURL))
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	gh.BaseURL = u

	return &Client{gh: gh, retry: retry}, nil
}

func validateTarget(owner, repo string, number int) error {
	if owner == "" {
		return goerr.New("owner must be a non-empty string", goerr.T(types.ErrTagInvalidArgument))
	}
	if repo == "" {
		return goerr.New("repo must be a non-empty string", goerr.T(types.ErrTagInvalidArgument))
	}
	if number <= 0 {
		return goerr.New("pull request number must be positive", goerr.T(types.ErrTagInvalidArgument), goerr.V("number", number))
	}
	return nil
}

// FetchPullRequest reads PR metadata, the commit list and the file list in
// parallel and combines them into an immutable snapshot. DiffStats is
// derived from the file list, never fetched.
func (c *Client) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*model.PullRequestSnapshot, error) {
	if err := validateTarget(owner, repo, number); err != nil {
		return nil, err
	}

	var (
		pr      *github.PullRequest
		commits []*github.RepositoryCommit
		files   []*github.CommitFile
	)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		fetched, _, err := c.gh.PullRequests.Get(egCtx, owner, repo, number)
		if err != nil {
			return mapMetadataError(err, owner, repo, number)
		}
		pr = fetched
		return nil
	})

	eg.Go(func() error {
		opts := &github.ListOptions{PerPage: 100}
		for {
			page, resp, err := c.gh.PullRequests.ListCommits(egCtx, owner, repo, number, opts)
			if err != nil {
				return goerr.Wrap(err, "failed to list pull request commits", goerr.T(types.ErrTagProvider))
			}
			commits = append(commits, page...)
			if resp.NextPage == 0 {
				return nil
			}
			opts.Page = resp.NextPage
		}
	})

	eg.Go(func() error {
		opts := &github.ListOptions{PerPage: 100}
		for {
			page, resp, err := c.gh.PullRequests.ListFiles(egCtx, owner, repo, number, opts)
			if err != nil {
				return goerr.Wrap(err, "failed to list pull request files", goerr.T(types.ErrTagProvider))
			}
			files = append(files, page...)
			if resp.NextPage == 0 {
				return nil
			}
			opts.Page = resp.NextPage
		}
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return buildSnapshot(pr, commits, files), nil
}

func buildSnapshot(pr *github.PullRequest, commits []*github.RepositoryCommit, files []*github.CommitFile) *model.PullRequestSnapshot {
	snapshot := &model.PullRequestSnapshot{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		Body:    pr.GetBody(),
		Author:  pr.GetUser().GetLogin(),
		HeadSHA: pr.GetHead().GetSHA(),
		Commits: make([]model.Commit, 0, len(commits)),
		Files:   make([]model.FileChange, 0, len(files)),
	}

	for _, commit := range commits {
		snapshot.Commits = append(snapshot.Commits, model.Commit{
			SHA:     commit.GetSHA(),
			Message: commit.GetCommit().GetMessage(),
			Author: model.CommitAuthor{
				Name:  commit.GetCommit().GetAuthor().GetName(),
				Email: commit.GetCommit().GetAuthor().GetEmail(),
				Date:  commit.GetCommit().GetAuthor().GetDate().Time,
			},
		})
	}

	for _, file := range files {
		snapshot.Files = append(snapshot.Files, model.FileChange{
			Filename:  file.GetFilename(),
			Status:    file.GetStatus(),
			Additions: file.GetAdditions(),
			Deletions: file.GetDeletions(),
			Patch:     file.GetPatch(),
		})
	}

	snapshot.Stats = model.ComputeDiffStats(snapshot.Files)
	return snapshot
}

// mapMetadataError translates the PR metadata call's failure into the error
// taxonomy. A 404 is ambiguous between a missing repository and a missing
// PR; the provider's message content is the only signal available.
func mapMetadataError(err error, owner, repo string, number int) error {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return goerr.Wrap(err, "failed to fetch pull request metadata", goerr.T(types.ErrTagProvider))
	}

	switch errResp.Response.StatusCode {
	case http.StatusNotFound:
		if strings.Contains(strings.ToLower(errResp.Message), "pull") {
			return goerr.Wrap(err, fmt.Sprintf("pull request #%d not found in %s/%s", number, owner, repo),
				goerr.T(types.ErrTagNotFound))
		}
		return goerr.Wrap(err, fmt.Sprintf("repository %s/%s not found or no access", owner, repo),
			goerr.T(types.ErrTagNotFound))
	case http.StatusForbidden:
		return goerr.Wrap(err, fmt.Sprintf("insufficient permissions for %s/%s", owner, repo),
			goerr.T(types.ErrTagPermissionDenied))
	default:
		return goerr.Wrap(err, "failed to fetch pull request metadata", goerr.T(types.ErrTagProvider))
	}
}

// FindTrackedComment lists all PR comments and returns the first whose body
// contains the marker for the identifier, or nil if none matches.
func (c *Client) FindTrackedComment(ctx context.Context, owner, repo string, number int, identifier string) (*model.TrackedComment, error) {
	if err := validateTarget(owner, repo, number); err != nil {
		return nil, err
	}

	marker := model.CommentMarker(identifier)
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list pull request comments", goerr.T(types.ErrTagProvider))
		}

		for _, comment := range comments {
			if strings.Contains(comment.GetBody(), marker) {
				return toTrackedComment(comment), nil
			}
		}

		if resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}

// CreateComment creates a new tracked comment, prepending the marker so the
// next run can find it.
func (c *Client) CreateComment(ctx context.Context, owner, repo string, number int, body, identifier string) (*model.TrackedComment, error) {
	if err := validateTarget(owner, repo, number); err != nil {
		return nil, err
	}

	created, _, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.Ptr(markedBody(body, identifier)),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create comment", goerr.T(types.ErrTagProvider))
	}

	return toTrackedComment(created), nil
}

// UpdateComment replaces an existing tracked comment's body.
func (c *Client) UpdateComment(ctx context.Context, owner, repo string, commentID int64, body, identifier string) (*model.TrackedComment, error) {
	if owner == "" || repo == "" {
		return nil, goerr.New("owner and repo must be non-empty strings", goerr.T(types.ErrTagInvalidArgument))
	}

	updated, _, err := c.gh.Issues.EditComment(ctx, owner, repo, commentID, &github.IssueComment{
		Body: github.Ptr(markedBody(body, identifier)),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update comment", goerr.T(types.ErrTagProvider), goerr.V("comment_id", commentID))
	}

	return toTrackedComment(updated), nil
}

// SetCommitStatus publishes a commit status. Rate-limited responses (403 or
// 429, keyed on status code rather than message content) are retried with
// the provider's backoff schedule.
func (c *Client) SetCommitStatus(ctx context.Context, owner, repo, sha string, status *model.CommitStatus) error {
	if owner == "" || repo == "" || sha == "" {
		return goerr.New("owner, repo and sha must be non-empty strings", goerr.T(types.ErrTagInvalidArgument))
	}

	repoStatus := &github.RepoStatus{
		State:       github.Ptr(string(status.State)),
		Description: github.Ptr(status.Description),
		Context:     github.Ptr(status.Context),
	}
	if status.TargetURL != "" {
		repoStatus.TargetURL = github.Ptr(status.TargetURL)
	}

	_, err := withRetry(ctx, c.retry, "set commit status", isRateLimitError, func() (*github.RepoStatus, error) {
		created, _, err := c.gh.Repositories.CreateStatus(ctx, owner, repo, sha, repoStatus)
		return created, err
	})
	if err != nil {
		return err
	}
	return nil
}

func markedBody(body, identifier string) string {
	return model.CommentMarker(identifier) + "\n\n" + body
}

func toTrackedComment(comment *github.IssueComment) *model.TrackedComment {
	return &model.TrackedComment{
		ID:        comment.GetID(),
		Body:      comment.GetBody(),
		CreatedAt: comment.GetCreatedAt().Time,
		UpdatedAt: comment.GetUpdatedAt().Time,
	}
}
