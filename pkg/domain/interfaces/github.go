package interfaces

import (
	"context"

	"github.com/m-mizutani/warden/pkg/domain/model"
)

// RepositoryClient defines operations against the repository data provider.
// Implementations map raw SDK responses into domain types at the boundary;
// unvalidated external shapes never flow past the adapter layer.
type RepositoryClient interface {
	// FetchPullRequest extracts an immutable snapshot of the PR. Metadata,
	// commit list and file list are read concurrently; DiffStats is derived.
	FetchPullRequest(ctx context.Context, owner, repo string, number int) (*model.PullRequestSnapshot, error)

	// FindTrackedComment returns the first comment whose body contains the
	// marker for the given identifier, or nil if none matches.
	FindTrackedComment(ctx context.Context, owner, repo string, number int, identifier string) (*model.TrackedComment, error)

	// CreateComment creates a new comment with the marker prepended to body.
	CreateComment(ctx context.Context, owner, repo string, number int, body, identifier string) (*model.TrackedComment, error)

	// UpdateComment replaces an existing comment's body, marker included.
	UpdateComment(ctx context.Context, owner, repo string, commentID int64, body, identifier string) (*model.TrackedComment, error)

	// SetCommitStatus publishes a commit status, retrying rate-limited
	// responses before giving up.
	SetCommitStatus(ctx context.Context, owner, repo, sha string, status *model.CommitStatus) error
}
