package model

import "fmt"

// VerdictStatus is the overall outcome of a validation run.
type VerdictStatus string

const (
	StatusPass     VerdictStatus = "PASS"
	StatusFail     VerdictStatus = "FAIL"
	StatusWarnings VerdictStatus = "WARNINGS"
)

// IsValid reports whether the status is one of the known values.
func (s VerdictStatus) IsValid() bool {
	switch s {
	case StatusPass, StatusFail, StatusWarnings:
		return true
	}
	return false
}

// TokenUsage records model token consumption for a single invocation.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ValidationVerdict is the structured outcome of AI analysis. It is produced
// exactly once per run, either by the verdict client or by the orchestrator
// on the skip/fallback paths, and is immutable once returned.
type ValidationVerdict struct {
	Status                VerdictStatus `json:"status"`
	Issues                []string      `json:"issues"`
	ImprovedTitle         string        `json:"improved_title"`
	ImprovedCommitMessage string        `json:"improved_commit_message"`
	ImprovedDescription   string        `json:"improved_description"`
	TokenUsage            TokenUsage    `json:"token_usage"`
	Skipped               bool          `json:"skipped,omitempty"`
}

// FallbackVerdict is returned when the model is unreachable or its response
// cannot be parsed. A down AI provider never aborts the pipeline; the
// published comment communicates the degraded state instead.
func FallbackVerdict() *ValidationVerdict {
	return &ValidationVerdict{
		Status: StatusFail,
		Issues: []string{"AI validation unavailable - please review manually"},
	}
}

// SkippedVerdict is the cost-control short-circuit for excluded authors.
// A skipped verdict is always PASS with exactly one explanatory issue.
func SkippedVerdict(author string) *ValidationVerdict {
	return &ValidationVerdict{
		Status:  StatusPass,
		Issues:  []string{fmt.Sprintf("Validation skipped for automated PR by %s", author)},
		Skipped: true,
	}
}

// DefaultPassVerdict lets the pipeline complete in configuration-only or
// minimal environments where a provider is not wired up at all.
func DefaultPassVerdict() *ValidationVerdict {
	return &ValidationVerdict{
		Status: StatusPass,
		Issues: []string{},
	}
}

// Normalize fills nil collections so every verdict serializes with all
// required fields present. A PASS status with non-empty issues is allowed
// through unchanged; only the skip path guarantees the single-issue shape.
func (v *ValidationVerdict) Normalize() {
	if v.Issues == nil {
		v.Issues = []string{}
	}
}
