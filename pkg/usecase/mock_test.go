package usecase_test

import (
	"context"
	"errors"

	"github.com/m-mizutani/warden/pkg/domain/model"
)

// mockRepoClient implements interfaces.RepositoryClient with overridable
// function fields. Unset fields return zero values.
type mockRepoClient struct {
	fetchFunc  func(ctx context.Context, owner, repo string, number int) (*model.PullRequestSnapshot, error)
	findFunc   func(ctx context.Context, owner, repo string, number int, identifier string) (*model.TrackedComment, error)
	createFunc func(ctx context.Context, owner, repo string, number int, body, identifier string) (*model.TrackedComment, error)
	updateFunc func(ctx context.Context, owner, repo string, commentID int64, body, identifier string) (*model.TrackedComment, error)
	statusFunc func(ctx context.Context, owner, repo, sha string, status *model.CommitStatus) error
}

func (m *mockRepoClient) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*model.PullRequestSnapshot, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, owner, repo, number)
	}
	return &model.PullRequestSnapshot{Number: number}, nil
}

func (m *mockRepoClient) FindTrackedComment(ctx context.Context, owner, repo string, number int, identifier string) (*model.TrackedComment, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, owner, repo, number, identifier)
	}
	return nil, nil
}

func (m *mockRepoClient) CreateComment(ctx context.Context, owner, repo string, number int, body, identifier string) (*model.TrackedComment, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, owner, repo, number, body, identifier)
	}
	return &model.TrackedComment{ID: 1, Body: body}, nil
}

func (m *mockRepoClient) UpdateComment(ctx context.Context, owner, repo string, commentID int64, body, identifier string) (*model.TrackedComment, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, owner, repo, commentID, body, identifier)
	}
	return &model.TrackedComment{ID: commentID, Body: body}, nil
}

func (m *mockRepoClient) SetCommitStatus(ctx context.Context, owner, repo, sha string, status *model.CommitStatus) error {
	if m.statusFunc != nil {
		return m.statusFunc(ctx, owner, repo, sha, status)
	}
	return nil
}

// mockVerdictClient implements interfaces.VerdictClient.
type mockVerdictClient struct {
	buildPromptFunc func(snapshot *model.PullRequestSnapshot, guidelines string) (string, error)
	invokeFunc      func(ctx context.Context, prompt string) *model.ValidationVerdict
}

func (m *mockVerdictClient) BuildPrompt(snapshot *model.PullRequestSnapshot, guidelines string) (string, error) {
	if m.buildPromptFunc != nil {
		return m.buildPromptFunc(snapshot, guidelines)
	}
	return "prompt", nil
}

func (m *mockVerdictClient) Invoke(ctx context.Context, prompt string) *model.ValidationVerdict {
	if m.invokeFunc != nil {
		return m.invokeFunc(ctx, prompt)
	}
	return &model.ValidationVerdict{Status: model.StatusPass, Issues: []string{}}
}

var errMock = errors.New("mock failure")
