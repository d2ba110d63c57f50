package model

// HistoryTimeFormat is the layout used for HistoryEntry timestamps.
const HistoryTimeFormat = "2006-01-02 15:04:05"

// ClaimRecord tracks the last successful claim for one user.
// Overwritten on each subsequent success, never appended.
type ClaimRecord struct {
	UserID      int64  `json:"user_id"`
	LastClaimAt int64  `json:"last_claim_at"` // epoch seconds
	LastEmail   string `json:"last_email"`
}

// HistoryEntry is one persisted record of a successful claim.
type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	Email     string `json:"email"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}
