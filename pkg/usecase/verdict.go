package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/m-mizutani/warden/pkg/domain/interfaces"
	"github.com/m-mizutani/warden/pkg/domain/model"
)

//go:embed prompts/validation_system.md
var systemPrompt string

//go:embed prompts/validation_user.md
var userPromptTemplate string

const noDescriptionPlaceholder = "(no description provided)"

type verdictClient struct {
	llmClient    gollem.LLMClient
	userTemplate *template.Template
}

// NewVerdictClient creates a verdict client on top of a gollem LLM client.
func NewVerdictClient(llmClient gollem.LLMClient) (interfaces.VerdictClient, error) {
	tmpl, err := template.New("validation_user").Parse(userPromptTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse user prompt template")
	}

	return &verdictClient{
		llmClient:    llmClient,
		userTemplate: tmpl,
	}, nil
}

type promptCommit struct {
	Message    string
	AuthorName string
}

type promptData struct {
	Guidelines  string
	Title       string
	Description string
	Commits     []promptCommit
}

// BuildPrompt renders the deterministic validation prompt. The prompt is
// text-only: no filenames, line counts or patches, so validation stays
// scoped to title/description/commit-message quality and prompt cost does
// not grow with PR size.
func (c *verdictClient) BuildPrompt(snapshot *model.PullRequestSnapshot, guidelines string) (string, error) {
	data := promptData{
		Guidelines:  guidelines,
		Title:       snapshot.Title,
		Description: snapshot.Body,
		Commits:     make([]promptCommit, 0, len(snapshot.Commits)),
	}
	if data.Description == "" {
		data.Description = noDescriptionPlaceholder
	}
	for _, commit := range snapshot.Commits {
		data.Commits = append(data.Commits, promptCommit{
			Message:    commit.Message,
			AuthorName: commit.Author.Name,
		})
	}

	var buf bytes.Buffer
	if err := c.userTemplate.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render validation prompt")
	}
	return buf.String(), nil
}

// Invoke sends the prompt to the model and parses the structured response.
// It never returns an error: any failure degrades into the fallback verdict
// so a down model provider cannot abort the pipeline.
func (c *verdictClient) Invoke(ctx context.Context, prompt string) *model.ValidationVerdict {
	logger := ctxlog.From(ctx)

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		logger.Warn("Failed to create LLM session, using fallback verdict", "error", err)
		return model.FallbackVerdict()
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		logger.Warn("LLM invocation failed, using fallback verdict", "error", err)
		return model.FallbackVerdict()
	}
	if len(resp.Texts) == 0 {
		logger.Warn("LLM returned no content, using fallback verdict")
		return model.FallbackVerdict()
	}

	verdict, err := parseVerdict(resp.Texts[0])
	if err != nil {
		logger.Warn("Failed to parse LLM response, using fallback verdict",
			"error", err, "response", resp.Texts[0])
		return model.FallbackVerdict()
	}

	verdict.TokenUsage = model.TokenUsage{
		PromptTokens:     resp.InputToken,
		CompletionTokens: resp.OutputToken,
		TotalTokens:      resp.InputToken + resp.OutputToken,
	}
	return verdict
}

// parseVerdict maps the raw model response into a verdict. Absent fields
// default to empty string/array; an unknown status is treated as malformed.
func parseVerdict(raw string) (*model.ValidationVerdict, error) {
	var verdict model.ValidationVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return nil, goerr.Wrap(err, "response is not valid JSON")
	}

	verdict.Status = model.VerdictStatus(strings.ToUpper(strings.TrimSpace(string(verdict.Status))))
	if !verdict.Status.IsValid() {
		return nil, goerr.New("response has unknown status", goerr.V("status", verdict.Status))
	}

	verdict.Normalize()
	return &verdict, nil
}
