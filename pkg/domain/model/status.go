package model

// CommitState is a commit status state accepted by the repository provider.
type CommitState string

const (
	StatePending CommitState = "pending"
	StateSuccess CommitState = "success"
	StateFailure CommitState = "failure"
	StateError   CommitState = "error"
)

// CommitStatus describes a commit status to publish on the PR head.
type CommitStatus struct {
	State       CommitState
	Description string
	Context     string
	TargetURL   string
}

// CommitStateForVerdict maps a verdict to the commit state reported to the
// repository provider. WARNINGS does not block merges, so it maps to success.
func CommitStateForVerdict(v *ValidationVerdict) CommitState {
	if v == nil {
		return StateError
	}
	if v.Status == StatusFail {
		return StateFailure
	}
	return StateSuccess
}
