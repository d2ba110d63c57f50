package repository

import (
	"context"
	"sync"
	"time"

	"faucetdrop-bot/internal/model"
)

// MemoryClaimStore is an in-memory implementation of ClaimStore.
// Use this for development/testing or single-instance deployments.
// State is lost on restart; use the Redis store for durable cooldowns.
type MemoryClaimStore struct {
	mu       sync.RWMutex
	records  map[int64]*model.ClaimRecord
	attempts map[int64]time.Time

	retention       time.Duration
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

// NewMemoryClaimStore creates a new in-memory claim store. Records older
// than the retention period are pruned by a background goroutine; retention
// must exceed the cooldown so eligibility checks stay correct.
func NewMemoryClaimStore(retention time.Duration) *MemoryClaimStore {
	s := &MemoryClaimStore{
		records:         make(map[int64]*model.ClaimRecord),
		attempts:        make(map[int64]time.Time),
		retention:       retention,
		cleanupInterval: 10 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	go s.cleanup()

	return s
}

// Get retrieves the claim record for a user.
func (s *MemoryClaimStore) Get(ctx context.Context, userID int64) (*model.ClaimRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[userID]
	if !exists {
		return nil, nil
	}

	cp := *rec
	return &cp, nil
}

// Put overwrites the claim record for the record's user.
func (s *MemoryClaimStore) Put(ctx context.Context, rec *model.ClaimRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.records[rec.UserID] = &cp
	return nil
}

// RecordAttempt marks the start of the retry-throttle window.
func (s *MemoryClaimStore) RecordAttempt(ctx context.Context, userID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts[userID] = at
	return nil
}

// LastAttempt returns when the user last started a payout attempt.
func (s *MemoryClaimStore) LastAttempt(ctx context.Context, userID int64) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.attempts[userID], nil
}

// Close stops the background cleanup goroutine.
func (s *MemoryClaimStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopCleanup)
	})
	return nil
}

// cleanup periodically prunes expired records and attempts.
func (s *MemoryClaimStore) cleanup() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopCleanup:
			return
		}
	}
}

// removeExpired removes records past the retention period.
func (s *MemoryClaimStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.retention)
	for userID, rec := range s.records {
		if time.Unix(rec.LastClaimAt, 0).Before(cutoff) {
			delete(s.records, userID)
		}
	}
	for userID, at := range s.attempts {
		if at.Before(cutoff) {
			delete(s.attempts, userID)
		}
	}
}

// Ensure MemoryClaimStore implements ClaimStore
var _ ClaimStore = (*MemoryClaimStore)(nil)
