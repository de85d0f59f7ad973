package handler

import (
	"net/http"

	natsclient "github.com/chatdigest/link-digest-service/internal/nats"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	natsClient   *natsclient.Client
	providerName string
}

// NewHealthHandler creates a new health handler. natsClient may be nil when
// audit events are disabled.
func NewHealthHandler(natsClient *natsclient.Client, providerName string) *HealthHandler {
	return &HealthHandler{
		natsClient:   natsClient,
		providerName: providerName,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.providerName == "none" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "no summarization provider configured",
		})
		return
	}

	if h.natsClient != nil && !h.natsClient.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"provider": h.providerName,
	})
}
