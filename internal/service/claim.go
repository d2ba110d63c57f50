package service

import (
	"context"
	"log"
	"sync"
	"time"

	"faucetdrop-bot/internal/model"
	"faucetdrop-bot/internal/payout"
	"faucetdrop-bot/internal/repository"
	"faucetdrop-bot/pkg/emailaddr"
)

// State is the position of one claim conversation.
type State int

const (
	// StateAwaitingEmail means the user was prompted and must send an email.
	StateAwaitingEmail State = iota
	// StateValidating means a submitted email is being checked.
	StateValidating
	// StatePayingOut means the payout call is in flight.
	StatePayingOut
	// StateDone is terminal; a new attempt starts a fresh session.
	StateDone
)

// BeginKind classifies the outcome of starting a claim.
type BeginKind int

const (
	// BeginPrompt means the user is eligible and was moved to AwaitingEmail.
	BeginPrompt BeginKind = iota
	// BeginCooldown means the cooldown is still active.
	BeginCooldown
)

// BeginOutcome is the result of ClaimService.Begin.
type BeginOutcome struct {
	Kind      BeginKind
	Remaining time.Duration
}

// SubmitKind classifies the outcome of an email submission.
type SubmitKind int

const (
	// SubmitNoSession means no claim conversation is open for the user.
	SubmitNoSession SubmitKind = iota
	// SubmitInvalidEmail re-prompts; the session stays in AwaitingEmail.
	SubmitInvalidEmail
	// SubmitThrottled means the user attempted again too soon.
	SubmitThrottled
	// SubmitCooldown means the cooldown became active mid-conversation.
	SubmitCooldown
	// SubmitPaid means the payout succeeded and was recorded.
	SubmitPaid
	// SubmitRejected means the payout service declined the transfer.
	SubmitRejected
	// SubmitTimeout means the payout call exceeded its deadline.
	SubmitTimeout
	// SubmitUnavailable means the payout call failed in transport.
	SubmitUnavailable
)

// SubmitOutcome is the result of ClaimService.Submit.
type SubmitOutcome struct {
	Kind      SubmitKind
	Email     string
	RefID     string
	Reason    string
	Remaining time.Duration
}

// StatusKind classifies a /status query.
type StatusKind int

const (
	// StatusNeverClaimed means the user has no claim record.
	StatusNeverClaimed StatusKind = iota
	// StatusReady means the cooldown has passed.
	StatusReady
	// StatusCooldown means the user must wait.
	StatusCooldown
)

// StatusOutcome is the result of ClaimService.Status.
type StatusOutcome struct {
	Kind      StatusKind
	Email     string
	Remaining time.Duration
}

// session is one user's open claim conversation.
type session struct {
	state     State
	updatedAt time.Time
}

// ClaimService drives a user through AwaitingEmail -> Validating ->
// PayingOut -> Done. Sessions live per user per attempt and are removed on
// every terminal transition.
type ClaimService struct {
	eligibility *EligibilityService
	history     repository.HistoryRepository
	payout      payout.Client

	mu       sync.RWMutex
	sessions map[int64]*session

	lockMu    sync.Mutex
	userLocks map[int64]*sync.Mutex

	sessionTTL  time.Duration
	stopCleanup chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

// NewClaimService creates a new claim service.
// Returns nil if any required dependency is nil.
func NewClaimService(
	eligibility *EligibilityService,
	history repository.HistoryRepository,
	payoutClient payout.Client,
	sessionTTL time.Duration,
) *ClaimService {
	if eligibility == nil || history == nil || payoutClient == nil {
		return nil
	}
	if sessionTTL == 0 {
		sessionTTL = 10 * time.Minute
	}

	s := &ClaimService{
		eligibility: eligibility,
		history:     history,
		payout:      payoutClient,
		sessions:    make(map[int64]*session),
		userLocks:   make(map[int64]*sync.Mutex),
		sessionTTL:  sessionTTL,
		stopCleanup: make(chan struct{}),
		now:         time.Now,
	}

	go s.cleanupSessions()

	return s
}

// userLock returns the per-user mutex, creating it on first use. The lock is
// held across eligibility check -> payout call -> record success so two
// concurrent attempts for one user can never both reach RecordSuccess.
func (s *ClaimService) userLock(userID int64) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	l, ok := s.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[userID] = l
	}
	return l
}

// Begin starts a claim conversation. Ineligible users get a cooldown outcome
// and no session; eligible users get a session in AwaitingEmail.
func (s *ClaimService) Begin(ctx context.Context, user model.UserIdentity) (BeginOutcome, error) {
	eligible, remaining, err := s.eligibility.CheckEligibility(ctx, user.ID)
	if err != nil {
		return BeginOutcome{}, err
	}
	if !eligible {
		return BeginOutcome{Kind: BeginCooldown, Remaining: remaining}, nil
	}

	s.mu.Lock()
	s.sessions[user.ID] = &session{state: StateAwaitingEmail, updatedAt: s.now()}
	s.mu.Unlock()

	return BeginOutcome{Kind: BeginPrompt}, nil
}

// Submit handles a free-text message from a user with an open session.
// Exactly one payout call happens per submission that passes validation and
// throttle; the eligibility store is only updated on success. onPayingOut,
// if non-nil, runs right before the payout call so the transport can show a
// placeholder while the call is in flight.
func (s *ClaimService) Submit(ctx context.Context, user model.UserIdentity, text string, onPayingOut func()) (SubmitOutcome, error) {
	// Copy the state out under the lock; the session struct itself is
	// written by setState under the full lock.
	s.mu.RLock()
	sess, ok := s.sessions[user.ID]
	var state State
	if ok {
		state = sess.state
	}
	s.mu.RUnlock()
	if !ok || state != StateAwaitingEmail {
		return SubmitOutcome{Kind: SubmitNoSession}, nil
	}

	email := emailaddr.Normalize(text)
	s.setState(user.ID, StateValidating)

	if !emailaddr.IsValid(email) {
		// Re-prompt; no attempt counted.
		s.setState(user.ID, StateAwaitingEmail)
		return SubmitOutcome{Kind: SubmitInvalidEmail}, nil
	}

	lock := s.userLock(user.ID)
	lock.Lock()
	defer lock.Unlock()

	// Recheck under the lock: a concurrent attempt may have finished a
	// payout while this one was waiting.
	eligible, remaining, err := s.eligibility.CheckEligibility(ctx, user.ID)
	if err != nil {
		s.endSession(user.ID)
		return SubmitOutcome{}, err
	}
	if !eligible {
		s.endSession(user.ID)
		return SubmitOutcome{Kind: SubmitCooldown, Remaining: remaining}, nil
	}

	ok, err = s.eligibility.CheckThrottle(ctx, user.ID)
	if err != nil {
		s.endSession(user.ID)
		return SubmitOutcome{}, err
	}
	if !ok {
		// No attempt counted.
		s.endSession(user.ID)
		return SubmitOutcome{Kind: SubmitThrottled}, nil
	}

	// From here the attempt counts against the throttle window whatever
	// the payout outcome, so rejections cannot be hammered.
	if err := s.eligibility.RecordAttempt(ctx, user.ID); err != nil {
		log.Printf("[ClaimService] Failed to record attempt for user %d: %v", user.ID, err)
	}

	s.setState(user.ID, StatePayingOut)
	if onPayingOut != nil {
		onPayingOut()
	}
	result := s.payout.Send(ctx, email)
	s.endSession(user.ID)

	switch result.Status {
	case model.PayoutSuccess:
		s.recordSuccess(ctx, user, email)
		return SubmitOutcome{Kind: SubmitPaid, Email: email, RefID: result.RefID}, nil
	case model.PayoutRejected:
		return SubmitOutcome{Kind: SubmitRejected, Email: email, Reason: result.Reason}, nil
	case model.PayoutTimeout:
		return SubmitOutcome{Kind: SubmitTimeout, Email: email}, nil
	default:
		return SubmitOutcome{Kind: SubmitUnavailable, Email: email}, nil
	}
}

// recordSuccess persists the claim. A history append failure is logged and
// isolated: the payout already happened, so the claim stays successful and
// the cooldown must still advance.
func (s *ClaimService) recordSuccess(ctx context.Context, user model.UserIdentity, email string) {
	entry := model.HistoryEntry{
		Timestamp: s.now().Format(model.HistoryTimeFormat),
		Email:     email,
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		log.Printf("[ClaimService] Failed to append history for user %d: %v", user.ID, err)
	}

	if err := s.eligibility.RecordSuccess(ctx, user.ID, email); err != nil {
		log.Printf("[ClaimService] Failed to record claim for user %d: %v", user.ID, err)
	}
}

// Cancel aborts an open conversation. Only valid while awaiting an email;
// once a payout call has started there is nothing left to cancel.
func (s *ClaimService) Cancel(user model.UserIdentity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[user.ID]
	if !ok || sess.state != StateAwaitingEmail {
		return false
	}
	delete(s.sessions, user.ID)
	return true
}

// Status reports the user's claim standing for the /status command.
func (s *ClaimService) Status(ctx context.Context, user model.UserIdentity) (StatusOutcome, error) {
	rec, err := s.eligibility.LastClaim(ctx, user.ID)
	if err != nil {
		return StatusOutcome{}, err
	}
	if rec == nil {
		return StatusOutcome{Kind: StatusNeverClaimed}, nil
	}

	eligible, remaining, err := s.eligibility.CheckEligibility(ctx, user.ID)
	if err != nil {
		return StatusOutcome{}, err
	}
	if eligible {
		return StatusOutcome{Kind: StatusReady, Email: rec.LastEmail}, nil
	}
	return StatusOutcome{Kind: StatusCooldown, Email: rec.LastEmail, Remaining: remaining}, nil
}

// ActiveSessions returns the number of open claim conversations.
func (s *ClaimService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the session cleanup goroutine.
func (s *ClaimService) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopCleanup)
	})
	return nil
}

// setState updates an open session's state and activity time.
func (s *ClaimService) setState(userID int64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		sess.state = state
		sess.updatedAt = s.now()
	}
}

// endSession removes a session on a terminal transition.
func (s *ClaimService) endSession(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// cleanupSessions prunes abandoned conversations so they do not pin memory.
func (s *ClaimService) cleanupSessions() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeStaleSessions()
		case <-s.stopCleanup:
			return
		}
	}
}

// removeStaleSessions drops sessions idle past the TTL.
func (s *ClaimService) removeStaleSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.sessionTTL)
	for userID, sess := range s.sessions {
		if sess.updatedAt.Before(cutoff) {
			delete(s.sessions, userID)
		}
	}
}
