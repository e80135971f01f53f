package model

import "time"

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypePullRequest WebhookEventType = "pull_request"
	EventTypeUnknown     WebhookEventType = "unknown"
)

// WebhookEvent represents a webhook event received from GitHub
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	Action     string           // Event action (e.g., opened, synchronize)
	Repository string           // Repository full name
	Sender     string           // Sender username
	ReceivedAt time.Time        // Time when the event was received
	RawPayload []byte           // Raw JSON payload
}

// triggerActions are the pull_request actions that re-run validation.
// Synchronize covers every push, including force-pushes, which is why
// comment publication must be idempotent.
var triggerActions = map[string]bool{
	"opened":      true,
	"reopened":    true,
	"edited":      true,
	"synchronize": true,
}

// ShouldValidate checks whether the event triggers a validation run
func (e *WebhookEvent) ShouldValidate() bool {
	return e.Type == EventTypePullRequest && triggerActions[e.Action]
}
