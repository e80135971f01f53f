// Package report renders a validation verdict as a markdown comment body.
// Rendering is a pure function of the verdict; the hidden identifier marker
// is prepended by the repository provider, not here.
package report

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/warden/pkg/domain/model"
)

// maxItemLength caps individual issue/suggestion strings before rendering.
const maxItemLength = 1000

var statusHeaders = map[model.VerdictStatus]string{
	model.StatusPass:     "## ✅ Contribution Check: PASS",
	model.StatusWarnings: "## ⚠️ Contribution Check: WARNINGS",
	model.StatusFail:     "## ❌ Contribution Check: FAIL",
}

// improvementHeaders pick the section wording by status: suggestions on a
// passing PR are optional, on a failing one they are required.
var improvementHeaders = map[model.VerdictStatus]string{
	model.StatusPass:     "### Optional Enhancements",
	model.StatusWarnings: "### Suggested Improvements",
	model.StatusFail:     "### Required Improvements",
}

// Render formats the verdict as a markdown report.
func Render(verdict *model.ValidationVerdict) string {
	var sb strings.Builder

	header, ok := statusHeaders[verdict.Status]
	if !ok {
		header = fmt.Sprintf("## Contribution Check: %s", verdict.Status)
	}
	sb.WriteString(header)
	sb.WriteString("\n\n")

	sb.WriteString("### Issues Found\n\n")
	if len(verdict.Issues) == 0 {
		sb.WriteString("No issues found.\n")
	} else {
		for _, issue := range verdict.Issues {
			sb.WriteString(fmt.Sprintf("- %s\n", truncate(issue)))
		}
	}

	renderImprovements(&sb, verdict)

	return sb.String()
}

func renderImprovements(sb *strings.Builder, verdict *model.ValidationVerdict) {
	type suggestion struct {
		label string
		text  string
	}
	suggestions := []suggestion{
		{"Title", verdict.ImprovedTitle},
		{"Commit Message", verdict.ImprovedCommitMessage},
		{"Description", verdict.ImprovedDescription},
	}

	wroteHeader := false
	for _, s := range suggestions {
		if s.text == "" {
			continue
		}
		if !wroteHeader {
			header, ok := improvementHeaders[verdict.Status]
			if !ok {
				header = "### Suggested Improvements"
			}
			sb.WriteString("\n")
			sb.WriteString(header)
			sb.WriteString("\n")
			wroteHeader = true
		}
		sb.WriteString(fmt.Sprintf("\n**%s**:\n\n%s\n", s.label, truncate(s.text)))
	}
}

// truncate caps s at maxItemLength characters, not bytes, so multibyte
// text is never cut mid-rune.
func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxItemLength {
		return s
	}
	return string(r[:maxItemLength]) + "..."
}
