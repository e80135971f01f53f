// Package action adapts a GitHub Actions invocation context: it resolves
// the validation target from the workflow environment and writes step
// outputs back for downstream jobs.
package action

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/warden/pkg/domain/model"
	"github.com/m-mizutani/warden/pkg/domain/types"
)

// Target identifies the pull request a run validates.
type Target struct {
	Owner  string
	Repo   string
	Number int
}

// ResolveTarget combines the `owner/repo` repository identifier with the
// event payload. An explicit number wins over the payload, which lets the
// CLI run outside a workflow.
func ResolveTarget(repository string, number int, eventPath string) (*Target, error) {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return nil, err
	}

	if number <= 0 {
		if eventPath == "" {
			return nil, goerr.New("pull request number is required: pass --number or set the event payload path",
				goerr.T(types.ErrTagInvalidArgument))
		}
		raw, err := os.ReadFile(eventPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read event payload",
				goerr.T(types.ErrTagInvalidArgument), goerr.V("path", eventPath))
		}
		number, err = model.PullRequestNumberFromEvent(raw)
		if err != nil {
			return nil, err
		}
	}

	return &Target{Owner: owner, Repo: repo, Number: number}, nil
}

func splitRepository(repository string) (string, string, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", goerr.New("repository must be in owner/repo form",
			goerr.T(types.ErrTagInvalidArgument), goerr.V("repository", repository))
	}
	return owner, repo, nil
}

// outputDelimiter frames the multiline summary value in the output file.
const outputDelimiter = "WARDEN_OUTPUT"

// WriteOutputs appends the run's outputs to the workflow output file in the
// `key=value` / heredoc format the runner expects.
func WriteOutputs(path string, result *model.RunResult) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return goerr.Wrap(err, "failed to open output file", goerr.V("path", path))
	}
	defer f.Close()

	summary, err := json.Marshal(result.Verdict)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal verdict summary")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "validation-status=%s\n", result.Verdict.Status)
	fmt.Fprintf(&sb, "comment-url=%s\n", result.CommentURL)
	fmt.Fprintf(&sb, "summary<<%s\n%s\n%s\n", outputDelimiter, summary, outputDelimiter)

	if _, err := f.WriteString(sb.String()); err != nil {
		return goerr.Wrap(err, "failed to write outputs", goerr.V("path", path))
	}
	return nil
}
