package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/warden/pkg/domain/interfaces"
	"github.com/m-mizutani/warden/pkg/domain/model"
)

type commentManager struct {
	repoClient interfaces.RepositoryClient
}

// NewCommentManager creates the tracked comment lifecycle manager.
func NewCommentManager(repoClient interfaces.RepositoryClient) interfaces.CommentPublisher {
	return &commentManager{repoClient: repoClient}
}

// Publish updates the existing tracked comment for (PR, identifier) or
// creates a new one. Both a failed lookup and a failed update (the comment
// may have been deleted concurrently) fall back to creating, so publication
// succeeds whenever the provider is reachable.
func (m *commentManager) Publish(ctx context.Context, owner, repo string, number int, body, identifier string) (*model.TrackedComment, error) {
	logger := ctxlog.From(ctx)

	existing, err := m.repoClient.FindTrackedComment(ctx, owner, repo, number, identifier)
	if err != nil {
		logger.Warn("Failed to look up tracked comment, creating a new one",
			"error", err,
			"identifier", identifier,
		)
		existing = nil
	}

	if existing != nil {
		updated, err := m.repoClient.UpdateComment(ctx, owner, repo, existing.ID, body, identifier)
		if err == nil {
			logger.Info("Updated tracked comment", "comment_id", updated.ID, "identifier", identifier)
			return updated, nil
		}
		logger.Warn("Failed to update tracked comment, creating a new one",
			"error", err,
			"comment_id", existing.ID,
		)
	}

	created, err := m.repoClient.CreateComment(ctx, owner, repo, number, body, identifier)
	if err != nil {
		return nil, err
	}

	logger.Info("Created tracked comment", "comment_id", created.ID, "identifier", identifier)
	return created, nil
}
