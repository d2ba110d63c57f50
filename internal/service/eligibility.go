package service

import (
	"context"
	"fmt"
	"time"

	"faucetdrop-bot/internal/model"
	"faucetdrop-bot/internal/repository"
)

// EligibilityService answers whether a user may claim now and records
// successful claims. All timing decisions live here; the store only holds
// state.
type EligibilityService struct {
	store    repository.ClaimStore
	cooldown time.Duration
	throttle time.Duration
	now      func() time.Time
}

// NewEligibilityService creates a new eligibility service.
// Returns nil if store is nil (required dependency).
func NewEligibilityService(store repository.ClaimStore, cooldown, throttle time.Duration) *EligibilityService {
	if store == nil {
		return nil
	}
	return &EligibilityService{
		store:    store,
		cooldown: cooldown,
		throttle: throttle,
		now:      time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (s *EligibilityService) SetClock(now func() time.Time) {
	s.now = now
}

// CheckEligibility reports whether the user may claim and, if not, how long
// until the cooldown ends. Users with no claim record are always eligible.
func (s *EligibilityService) CheckEligibility(ctx context.Context, userID int64) (bool, time.Duration, error) {
	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		return false, 0, fmt.Errorf("failed to check eligibility: %w", err)
	}
	if rec == nil {
		return true, 0, nil
	}

	elapsed := s.now().Sub(time.Unix(rec.LastClaimAt, 0))
	if elapsed >= s.cooldown {
		return true, 0, nil
	}
	return false, s.cooldown - elapsed, nil
}

// CheckThrottle reports whether enough time has passed since the user's last
// payout attempt. Independent of the cooldown; prevents rapid resubmission.
func (s *EligibilityService) CheckThrottle(ctx context.Context, userID int64) (bool, error) {
	last, err := s.store.LastAttempt(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check throttle: %w", err)
	}
	if last.IsZero() {
		return true, nil
	}
	return s.now().Sub(last) >= s.throttle, nil
}

// RecordAttempt marks the start of the throttle window. Called once per
// attempt that reaches the payout call, regardless of its outcome.
func (s *EligibilityService) RecordAttempt(ctx context.Context, userID int64) error {
	return s.store.RecordAttempt(ctx, userID, s.now())
}

// RecordSuccess overwrites the user's claim record with the current time and
// email. Only a successful payout may advance the cooldown.
func (s *EligibilityService) RecordSuccess(ctx context.Context, userID int64, email string) error {
	rec := &model.ClaimRecord{
		UserID:      userID,
		LastClaimAt: s.now().Unix(),
		LastEmail:   email,
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("failed to record success: %w", err)
	}
	return nil
}

// LastClaim returns the user's claim record, or nil if none.
func (s *EligibilityService) LastClaim(ctx context.Context, userID int64) (*model.ClaimRecord, error) {
	return s.store.Get(ctx, userID)
}
