package model

// RunResult is what a full validation job hands back to its caller.
type RunResult struct {
	Verdict    *ValidationVerdict
	Snapshot   *PullRequestSnapshot
	CommentURL string
}
