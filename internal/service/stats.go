package service

import (
	"context"
	"fmt"

	"faucetdrop-bot/internal/model"
	"faucetdrop-bot/internal/repository"
)

// ClaimTotals are aggregate counters derived from the claim history.
type ClaimTotals struct {
	TotalClaims int `json:"total_claims"`
	UniqueUsers int `json:"unique_users"`
}

// StatsService derives aggregate numbers from the claim history for the
// admin chat command and the HTTP stats endpoint.
type StatsService struct {
	history repository.HistoryRepository
}

// NewStatsService creates a new stats service.
// Returns nil if history is nil (required dependency).
func NewStatsService(history repository.HistoryRepository) *StatsService {
	if history == nil {
		return nil
	}
	return &StatsService{history: history}
}

// Totals returns the claim counters.
func (s *StatsService) Totals(ctx context.Context) (ClaimTotals, error) {
	entries, err := s.history.ReadAll(ctx)
	if err != nil {
		return ClaimTotals{}, fmt.Errorf("failed to read history: %w", err)
	}

	users := make(map[int64]bool)
	for _, e := range entries {
		users[e.UserID] = true
	}

	return ClaimTotals{
		TotalClaims: len(entries),
		UniqueUsers: len(users),
	}, nil
}

// Recent returns the last n entries in append order.
func (s *StatsService) Recent(ctx context.Context, n int) ([]model.HistoryEntry, error) {
	entries, err := s.history.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}
