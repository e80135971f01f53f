package action_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/warden/pkg/controller/action"
	"github.com/m-mizutani/warden/pkg/domain/model"
	"github.com/m-mizutani/warden/pkg/domain/types"
)

func TestResolveTarget(t *testing.T) {
	t.Run("explicit number wins over event payload", func(t *testing.T) {
		eventPath := filepath.Join(t.TempDir(), "event.json")
		gt.NoError(t, os.WriteFile(eventPath, []byte(`{"pull_request":{"number":99}}`), 0644))

		target, err := action.ResolveTarget("acme/widgets", 12, eventPath)
		gt.NoError(t, err)
		gt.Value(t, target.Owner).Equal("acme")
		gt.Value(t, target.Repo).Equal("widgets")
		gt.Value(t, target.Number).Equal(12)
	})

	t.Run("number from webhook event payload", func(t *testing.T) {
		eventPath := filepath.Join(t.TempDir(), "event.json")
		gt.NoError(t, os.WriteFile(eventPath, []byte(`{"action":"opened","pull_request":{"number":42}}`), 0644))

		target, err := action.ResolveTarget("acme/widgets", 0, eventPath)
		gt.NoError(t, err)
		gt.Value(t, target.Number).Equal(42)
	})

	t.Run("number from dispatch payload", func(t *testing.T) {
		eventPath := filepath.Join(t.TempDir(), "event.json")
		gt.NoError(t, os.WriteFile(eventPath, []byte(`{"number":7}`), 0644))

		target, err := action.ResolveTarget("acme/widgets", 0, eventPath)
		gt.NoError(t, err)
		gt.Value(t, target.Number).Equal(7)
	})

	t.Run("missing number and event path", func(t *testing.T) {
		_, err := action.ResolveTarget("acme/widgets", 0, "")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagInvalidArgument))
	})

	t.Run("unreadable event path", func(t *testing.T) {
		_, err := action.ResolveTarget("acme/widgets", 0, filepath.Join(t.TempDir(), "missing.json"))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagInvalidArgument))
	})

	t.Run("malformed repository", func(t *testing.T) {
		tests := []string{"", "acme", "/widgets", "acme/"}
		for _, repository := range tests {
			_, err := action.ResolveTarget(repository, 12, "")
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, types.ErrTagInvalidArgument))
		}
	})
}

func TestWriteOutputs(t *testing.T) {
	t.Run("appends outputs in workflow format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "output")

		result := &model.RunResult{
			Verdict: &model.ValidationVerdict{
				Status: model.StatusWarnings,
				Issues: []string{"vague title"},
			},
			CommentURL: "https://github.com/acme/widgets/pull/12#issuecomment-200",
		}
		gt.NoError(t, action.WriteOutputs(path, result))

		raw, err := os.ReadFile(path)
		gt.NoError(t, err)
		content := string(raw)

		gt.True(t, strings.Contains(content, "validation-status=WARNINGS\n"))
		gt.True(t, strings.Contains(content, "comment-url=https://github.com/acme/widgets/pull/12#issuecomment-200\n"))
		gt.True(t, strings.Contains(content, "summary<<WARDEN_OUTPUT\n"))
		gt.True(t, strings.Contains(content, `"status":"WARNINGS"`))
		gt.True(t, strings.HasSuffix(content, "WARDEN_OUTPUT\n"))
	})

	t.Run("appends to existing content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "output")
		gt.NoError(t, os.WriteFile(path, []byte("existing=1\n"), 0644))

		result := &model.RunResult{
			Verdict: &model.ValidationVerdict{Status: model.StatusPass, Issues: []string{}},
		}
		gt.NoError(t, action.WriteOutputs(path, result))

		raw, err := os.ReadFile(path)
		gt.NoError(t, err)
		gt.True(t, strings.HasPrefix(string(raw), "existing=1\n"))
		gt.True(t, strings.Contains(string(raw), "validation-status=PASS\n"))
	})
}
