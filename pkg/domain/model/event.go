package model

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/warden/pkg/domain/types"
)

// prEventPayload covers the two payload shapes the provider emits: webhook
// style events nest the number under pull_request, workflow_dispatch style
// payloads put it at the top level.
type prEventPayload struct {
	PullRequest *struct {
		Number int `json:"number"`
	} `json:"pull_request"`
	Number int `json:"number"`
}

// PullRequestNumberFromEvent extracts the PR number from a raw event
// payload, accepting both `pull_request.number` and a top-level `number`.
func PullRequestNumberFromEvent(raw []byte) (int, error) {
	var payload prEventPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, goerr.Wrap(err, "failed to parse event payload", goerr.T(types.ErrTagInvalidArgument))
	}

	if payload.PullRequest != nil && payload.PullRequest.Number > 0 {
		return payload.PullRequest.Number, nil
	}
	if payload.Number > 0 {
		return payload.Number, nil
	}

	return 0, goerr.New("event payload has no pull request number", goerr.T(types.ErrTagInvalidArgument))
}
