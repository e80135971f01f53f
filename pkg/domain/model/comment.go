package model

import (
	"fmt"
	"time"
)

// TrackedComment is a pull request comment carrying a hidden identifier
// marker. At most one tracked comment per (PR, identifier) pair is treated
// as canonical; the system never deletes one.
type TrackedComment struct {
	ID        int64
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommentMarker returns the hidden HTML comment that makes publication
// idempotent per (PR, identifier). Multiple identifiers let independent
// validators coexist on the same PR.
func CommentMarker(identifier string) string {
	return fmt.Sprintf("<!-- %s -->", identifier)
}

// CommentURL derives the user-facing address of a published comment.
func CommentURL(owner, repo string, number int, commentID int64) string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d#issuecomment-%d", owner, repo, number, commentID)
}
