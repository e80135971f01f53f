package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/warden/pkg/domain/interfaces"
	"github.com/m-mizutani/warden/pkg/domain/model"
	"github.com/m-mizutani/warden/pkg/utils/async"
)

// WebhookHandler handles GitHub webhooks and dispatches validation runs
type WebhookHandler struct {
	secret string
	runner interfaces.ValidationRunner
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret string, runner interfaces.ValidationRunner) *WebhookHandler {
	return &WebhookHandler{
		secret: secret,
		runner: runner,
	}
}

// Handle processes webhook requests. Validation runs are dispatched
// asynchronously; the delivery is acknowledged as soon as the event is
// accepted so GitHub does not retry slow runs.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Hub-Signature-256")
	if !h.verifySignature(body, signature) {
		logger.Warn("Invalid webhook signature")
		writeError(ctx, w, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	payload, err := github.ParseWebHook(eventType, body)
	if err != nil {
		logger.Error("Failed to parse webhook payload", "error", err)
		writeError(ctx, w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	event := &model.WebhookEvent{
		ID:         r.Header.Get("X-GitHub-Delivery"),
		Type:       model.WebhookEventType(eventType),
		ReceivedAt: time.Now(),
		RawPayload: body,
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	prEvent, ok := payload.(*github.PullRequestEvent)
	if !ok {
		event.Type = model.EventTypeUnknown
	} else {
		event.Action = prEvent.GetAction()
		event.Repository = prEvent.GetRepo().GetFullName()
		event.Sender = prEvent.GetSender().GetLogin()
	}

	if !event.ShouldValidate() {
		logger.Info("Ignoring event",
			"id", event.ID,
			"type", event.Type,
			"action", event.Action,
		)
		writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	owner := prEvent.GetRepo().GetOwner().GetLogin()
	repo := prEvent.GetRepo().GetName()
	number := prEvent.GetPullRequest().GetNumber()
	if owner == "" || repo == "" || number <= 0 {
		logger.Warn("Pull request event missing required fields",
			"owner", owner, "repo", repo, "number", number)
		writeError(ctx, w, goerr.New("pull request event missing required fields"), http.StatusBadRequest)
		return
	}

	logger.Info("Dispatching validation run",
		"id", event.ID,
		"owner", owner,
		"repo", repo,
		"number", number,
		"action", event.Action,
		"sender", event.Sender,
	)

	async.Dispatch(ctx, "validate "+event.ID, func(ctx context.Context) error {
		_, err := h.runner.Run(ctx, owner, repo, number)
		return err
	})

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "accepted"})
}

// verifySignature verifies the webhook signature
func (h *WebhookHandler) verifySignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}

	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(payload)
	expectedMAC := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expectedMAC))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}
