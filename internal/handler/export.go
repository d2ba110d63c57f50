package handler

import (
	"encoding/csv"
	"log"
	"net/http"
	"strconv"

	"faucetdrop-bot/internal/repository"
	"faucetdrop-bot/pkg/apierror"
	"faucetdrop-bot/pkg/response"
)

// ExportHandler serves the admin claim-history export and clear operations,
// gated by a shared-secret query parameter.
type ExportHandler struct {
	history  repository.HistoryRepository
	password string
}

// NewExportHandler creates a new export handler.
func NewExportHandler(history repository.HistoryRepository, password string) *ExportHandler {
	return &ExportHandler{history: history, password: password}
}

// authorized checks the password query parameter. An unset password keeps
// the endpoints locked rather than open.
func (h *ExportHandler) authorized(r *http.Request) bool {
	if h.password == "" {
		return false
	}
	return r.URL.Query().Get("password") == h.password
}

// DownloadCSV handles GET /emails - CSV export of the claim history.
func (h *ExportHandler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	entries, err := h.history.ReadAll(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=emails.csv`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"Timestamp", "Email", "User ID", "Username", "First Name", "Last Name"})
	for _, e := range entries {
		cw.Write([]string{
			e.Timestamp,
			e.Email,
			strconv.FormatInt(e.UserID, 10),
			e.Username,
			e.FirstName,
			e.LastName,
		})
	}
	cw.Flush()

	// Headers are already out, so a mid-stream failure can only be logged.
	if err := cw.Error(); err != nil {
		log.Printf("[ExportHandler] Failed to write CSV export: %v", err)
	}
}

// ClearHistory handles DELETE /emails - irreversibly clears the history.
func (h *ExportHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	if err := h.history.Clear(r.Context()); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "cleared"})
}
