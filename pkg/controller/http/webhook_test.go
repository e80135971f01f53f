package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"

	controller "github.com/m-mizutani/warden/pkg/controller/http"
	"github.com/m-mizutani/warden/pkg/domain/model"
)

// mockRunner records dispatched validation runs.
type mockRunner struct {
	runs chan [2]string
}

func newMockRunner() *mockRunner {
	return &mockRunner{runs: make(chan [2]string, 1)}
}

func (m *mockRunner) Run(ctx context.Context, owner, repo string, number int) (*model.RunResult, error) {
	m.runs <- [2]string{owner, repo}
	return &model.RunResult{Verdict: model.DefaultPassVerdict()}, nil
}

// generateSignature generates HMAC-SHA256 signature for testing
func generateSignature(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func openedPRPayload() []byte {
	payload := map[string]any{
		"action": "opened",
		"pull_request": map[string]any{
			"number": 12,
		},
		"repository": map[string]any{
			"name":      "widgets",
			"full_name": "acme/widgets",
			"owner":     map[string]any{"login": "acme"},
		},
		"sender": map[string]any{"login": "alice"},
	}
	raw, _ := json.Marshal(payload)
	return raw
}

func postWebhook(handler *controller.WebhookHandler, eventType string, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/hooks/github/app", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-GitHub-Delivery", "test-delivery")
	req.Header.Set("X-Hub-Signature-256", signature)

	w := httptest.NewRecorder()
	handler.Handle(w, req)
	return w
}

func TestWebhookHandler_SignatureVerification(t *testing.T) {
	secret := "test-secret"
	handler := controller.NewWebhookHandler(secret, newMockRunner())

	tests := []struct {
		name           string
		payload        []byte
		signature      string
		wantStatusCode int
	}{
		{
			name:           "Valid signature",
			payload:        openedPRPayload(),
			signature:      generateSignature(secret, openedPRPayload()),
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "Invalid signature",
			payload:        openedPRPayload(),
			signature:      "sha256=invalid",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "Missing signature",
			payload:        openedPRPayload(),
			signature:      "",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "Signature from wrong secret",
			payload:        openedPRPayload(),
			signature:      generateSignature("other-secret", openedPRPayload()),
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postWebhook(handler, "pull_request", tt.payload, tt.signature)
			if w.Code != tt.wantStatusCode {
				t.Errorf("Handle() status = %v, want %v", w.Code, tt.wantStatusCode)
			}
		})
	}
}

func TestWebhookHandler_DispatchesValidation(t *testing.T) {
	secret := "test-secret"
	runner := newMockRunner()
	handler := controller.NewWebhookHandler(secret, runner)

	payload := openedPRPayload()
	w := postWebhook(handler, "pull_request", payload, generateSignature(secret, payload))

	if w.Code != http.StatusOK {
		t.Fatalf("Handle() status = %v, want %v", w.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "accepted" {
		t.Errorf("status = %v, want accepted", body["status"])
	}

	select {
	case run := <-runner.runs:
		if run[0] != "acme" || run[1] != "widgets" {
			t.Errorf("Run() target = %v, want acme/widgets", run)
		}
	case <-time.After(time.Second):
		t.Fatal("validation run was not dispatched")
	}
}

func TestWebhookHandler_EventFiltering(t *testing.T) {
	secret := "test-secret"

	tests := []struct {
		name       string
		eventType  string
		payload    map[string]any
		wantStatus string
	}{
		{
			name:      "closed action is ignored",
			eventType: "pull_request",
			payload: map[string]any{
				"action":       "closed",
				"pull_request": map[string]any{"number": 12},
				"repository": map[string]any{
					"name":  "widgets",
					"owner": map[string]any{"login": "acme"},
				},
			},
			wantStatus: "ignored",
		},
		{
			name:      "issues event is ignored",
			eventType: "issues",
			payload: map[string]any{
				"action": "opened",
				"issue":  map[string]any{"number": 3},
			},
			wantStatus: "ignored",
		},
		{
			name:      "synchronize action is accepted",
			eventType: "pull_request",
			payload: map[string]any{
				"action":       "synchronize",
				"pull_request": map[string]any{"number": 12},
				"repository": map[string]any{
					"name":  "widgets",
					"owner": map[string]any{"login": "acme"},
				},
			},
			wantStatus: "accepted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := controller.NewWebhookHandler(secret, newMockRunner())

			raw, err := json.Marshal(tt.payload)
			if err != nil {
				t.Fatalf("Failed to marshal payload: %v", err)
			}

			w := postWebhook(handler, tt.eventType, raw, generateSignature(secret, raw))
			if w.Code != http.StatusOK {
				t.Fatalf("Handle() status = %v, want %v", w.Code, http.StatusOK)
			}

			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %v", body["status"], tt.wantStatus)
			}
		})
	}
}

func TestWebhookHandler_MissingFields(t *testing.T) {
	secret := "test-secret"
	handler := controller.NewWebhookHandler(secret, newMockRunner())

	payload := map[string]any{
		"action":       "opened",
		"pull_request": map[string]any{"number": 12},
		// repository owner missing
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}

	w := postWebhook(handler, "pull_request", raw, generateSignature(secret, raw))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Handle() status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestWebhookHandler_UsesRequestScopedLogger(t *testing.T) {
	secret := "test-secret"
	handler := controller.NewWebhookHandler(secret, newMockRunner())

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	payload, err := json.Marshal(map[string]any{
		"action":       "closed",
		"pull_request": map[string]any{"number": 12},
		"repository": map[string]any{
			"name":  "widgets",
			"owner": map[string]any{"login": "acme"},
		},
	})
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/hooks/github/app", bytes.NewReader(payload))
	req = req.WithContext(ctxlog.With(req.Context(), logger))
	req.Header.Set("X-GitHub-Event", "pull_request")
	req.Header.Set("X-GitHub-Delivery", "test-delivery")
	req.Header.Set("X-Hub-Signature-256", generateSignature(secret, payload))

	w := httptest.NewRecorder()
	handler.Handle(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Handle() status = %v, want %v", w.Code, http.StatusOK)
	}
	if !strings.Contains(buf.String(), "Ignoring event") {
		t.Error("handler did not log through the request-scoped logger")
	}
}

func TestWebhookHandler_MalformedPayload(t *testing.T) {
	secret := "test-secret"
	handler := controller.NewWebhookHandler(secret, newMockRunner())

	payload := []byte(`{not json`)
	w := postWebhook(handler, "pull_request", payload, generateSignature(secret, payload))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Handle() status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}
