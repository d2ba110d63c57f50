package handler

import (
	"net/http"
	"time"

	"faucetdrop-bot/internal/service"
	"faucetdrop-bot/pkg/response"
)

// StatsHandler serves aggregate claim statistics.
type StatsHandler struct {
	stats  *service.StatsService
	claims *service.ClaimService
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(stats *service.StatsService, claims *service.ClaimService) *StatsHandler {
	return &StatsHandler{stats: stats, claims: claims}
}

// StatsResponse represents the statistics response.
type StatsResponse struct {
	TotalClaims    int    `json:"total_claims"`
	UniqueUsers    int    `json:"unique_users"`
	ActiveSessions int    `json:"active_sessions"`
	LastUpdated    string `json:"last_updated"`
}

// GetStats handles GET /stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	totals, err := h.stats.Totals(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	resp := StatsResponse{
		TotalClaims:    totals.TotalClaims,
		UniqueUsers:    totals.UniqueUsers,
		ActiveSessions: h.claims.ActiveSessions(),
		LastUpdated:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	response.OK(w, resp)
}
