package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/warden/pkg/domain/model"
	"github.com/m-mizutani/warden/pkg/domain/types"
)

var startedAt = time.Now()

// handleHealth reports the service identity and how long the webhook
// receiver has been up.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	status := &model.HealthStatus{
		Status:    "healthy",
		Service:   types.AppName,
		Version:   types.Version,
		UptimeSec: int64(time.Since(startedAt).Seconds()),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
	}
}
