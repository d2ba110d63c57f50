package handler

import (
	"net/http"
	"time"

	"faucetdrop-bot/internal/service"
	"faucetdrop-bot/pkg/response"
)

// Handler contains shared HTTP handlers and their dependencies.
type Handler struct {
	claims    *service.ClaimService
	version   string
	startTime time.Time
}

// New creates a new handler.
func New(claims *service.ClaimService, version string) *Handler {
	return &Handler{
		claims:    claims,
		version:   version,
		startTime: time.Now(),
	}
}

// InfoResponse describes the service for GET /.
type InfoResponse struct {
	Status      string            `json:"status"`
	Service     string            `json:"service"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
	Usage       string            `json:"usage"`
}

// Info handles GET / - service information.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	resp := InfoResponse{
		Status:      "online",
		Service:     "Telegram Faucet Bot",
		Version:     h.version,
		Description: "Free crypto faucet bot",
		Endpoints: map[string]string{
			"GET /":          "This information",
			"POST /":         "Telegram webhook endpoint",
			"GET /health":    "Health check",
			"GET /stats":     "View statistics",
			"GET /emails":    "Download claim history CSV (admin)",
			"DELETE /emails": "Clear claim history (admin)",
		},
		Usage: "Add this URL as webhook in Telegram bot settings",
	}
	response.OK(w, resp)
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	ActiveSessions int       `json:"active_sessions"`
	UptimeSeconds  int64     `json:"uptime_seconds"`
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().UTC(),
		ActiveSessions: h.claims.ActiveSessions(),
		UptimeSeconds:  int64(time.Since(h.startTime).Seconds()),
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	response.OK(w, resp)
}
