package bot

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"faucetdrop-bot/internal/model"
	"faucetdrop-bot/internal/repository"
	"faucetdrop-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// fakeSender records outgoing messages instead of calling Telegram.
type fakeSender struct {
	mu     sync.Mutex
	sent   []string
	edits  []string
	nextID int
}

func (s *fakeSender) Send(chatID int64, text string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, text)
	s.nextID++
	return s.nextID, nil
}

func (s *fakeSender) Edit(chatID int64, messageID int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edits = append(s.edits, text)
	return nil
}

func (s *fakeSender) lastSent(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		t.Fatal("no messages sent")
	}
	return s.sent[len(s.sent)-1]
}

func (s *fakeSender) lastEdit(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.edits) == 0 {
		t.Fatal("no messages edited")
	}
	return s.edits[len(s.edits)-1]
}

var _ Sender = (*fakeSender)(nil)

// stubPayout always returns its canned result.
type stubPayout struct {
	result model.PayoutResult
}

func (p *stubPayout) Send(ctx context.Context, toEmail string) model.PayoutResult {
	return p.result
}

type botFixture struct {
	bot    *Bot
	sender *fakeSender
	now    time.Time
}

func newBotFixture(t *testing.T, result model.PayoutResult, adminIDs map[int64]bool) *botFixture {
	t.Helper()

	store := repository.NewMemoryClaimStore(48 * time.Hour)
	t.Cleanup(func() { store.Close() })
	history, err := repository.NewFileHistoryRepository(filepath.Join(t.TempDir(), "claims.ndjson"))
	if err != nil {
		t.Fatalf("NewFileHistoryRepository failed: %v", err)
	}

	f := &botFixture{
		sender: &fakeSender{},
		now:    time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}

	eligibility := service.NewEligibilityService(store, 24*time.Hour, time.Minute)
	eligibility.SetClock(func() time.Time { return f.now })

	claims := service.NewClaimService(eligibility, history, &stubPayout{result: result}, 10*time.Minute)
	if claims == nil {
		t.Fatal("NewClaimService returned nil")
	}
	t.Cleanup(func() { claims.Close() })

	f.bot = New(Config{
		Sender:   f.sender,
		Claims:   claims,
		Stats:    service.NewStatsService(history),
		AdminIDs: adminIDs,
		Amount:   "0.00000001",
		Currency: "DGB",
	})
	if f.bot == nil {
		t.Fatal("New returned nil bot")
	}
	return f
}

func commandUpdate(userID int64, command string) tgbotapi.Update {
	text := "/" + command
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
		From:     &tgbotapi.User{ID: userID, UserName: "claimer", FirstName: "Cee"},
		Chat:     &tgbotapi.Chat{ID: userID},
	}}
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		From: &tgbotapi.User{ID: userID, UserName: "claimer", FirstName: "Cee"},
		Chat: &tgbotapi.Chat{ID: userID},
	}}
}

func TestClaimConversation(t *testing.T) {
	f := newBotFixture(t, model.PayoutResult{Status: model.PayoutSuccess, RefID: "abc123def456"}, nil)
	ctx := context.Background()

	if err := f.bot.HandleUpdate(ctx, commandUpdate(42, "start")); err != nil {
		t.Fatalf("/start failed: %v", err)
	}
	if got := f.sender.lastSent(t); !strings.Contains(got, "Congratulations") {
		t.Fatalf("expected welcome prompt, got %q", got)
	}

	if err := f.bot.HandleUpdate(ctx, textUpdate(42, "  User@Example.COM ")); err != nil {
		t.Fatalf("email submission failed: %v", err)
	}
	// A processing placeholder goes out, then gets edited into the outcome
	if got := f.sender.lastSent(t); !strings.Contains(got, "Processing") {
		t.Fatalf("expected processing placeholder, got %q", got)
	}
	final := f.sender.lastEdit(t)
	if !strings.Contains(final, "Success! Reward Sent!") {
		t.Fatalf("expected success message, got %q", final)
	}
	if !strings.Contains(final, "user@example.com") {
		t.Fatalf("success message missing normalized email: %q", final)
	}
	if !strings.Contains(final, "abc123def456") {
		t.Fatalf("success message missing reference: %q", final)
	}

	// Immediately trying again hits the cooldown
	if err := f.bot.HandleUpdate(ctx, commandUpdate(42, "start")); err != nil {
		t.Fatalf("second /start failed: %v", err)
	}
	got := f.sender.lastSent(t)
	if !strings.Contains(got, "Cooldown Active") {
		t.Fatalf("expected cooldown message, got %q", got)
	}
	if !strings.Contains(got, "24h 0m") {
		t.Fatalf("expected 24h 0m remaining, got %q", got)
	}
}

func TestInvalidEmailReprompt(t *testing.T) {
	f := newBotFixture(t, model.PayoutResult{Status: model.PayoutSuccess, RefID: "ref"}, nil)
	ctx := context.Background()

	if err := f.bot.HandleUpdate(ctx, commandUpdate(42, "start")); err != nil {
		t.Fatalf("/start failed: %v", err)
	}
	if err := f.bot.HandleUpdate(ctx, textUpdate(42, "not-an-email")); err != nil {
		t.Fatalf("submission failed: %v", err)
	}
	if got := f.sender.lastSent(t); !strings.Contains(got, "Invalid Email Format") {
		t.Fatalf("expected invalid-email reprompt, got %q", got)
	}
	if len(f.sender.edits) != 0 {
		t.Fatal("no placeholder should exist before the payout call")
	}
}

func TestFreeTextWithoutSessionIgnored(t *testing.T) {
	f := newBotFixture(t, model.PayoutResult{Status: model.PayoutSuccess}, nil)

	if err := f.bot.HandleUpdate(context.Background(), textUpdate(42, "hello there")); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}
	if len(f.sender.sent) != 0 {
		t.Fatalf("free text outside a conversation should be ignored, got %q", f.sender.sent)
	}
}

func TestRejectedPayout(t *testing.T) {
	f := newBotFixture(t, model.PayoutResult{Status: model.PayoutRejected, Reason: "The recipient does not exist"}, nil)
	ctx := context.Background()

	if err := f.bot.HandleUpdate(ctx, commandUpdate(42, "start")); err != nil {
		t.Fatalf("/start failed: %v", err)
	}
	if err := f.bot.HandleUpdate(ctx, textUpdate(42, "user@example.com")); err != nil {
		t.Fatalf("submission failed: %v", err)
	}
	final := f.sender.lastEdit(t)
	if !strings.Contains(final, "Transaction Failed") {
		t.Fatalf("expected failure message, got %q", final)
	}
	if !strings.Contains(final, "The recipient does not exist") {
		t.Fatalf("failure message missing reason: %q", final)
	}
}

func TestCancelCommand(t *testing.T) {
	f := newBotFixture(t, model.PayoutResult{Status: model.PayoutSuccess}, nil)
	ctx := context.Background()

	// Nothing to cancel yet
	if err := f.bot.HandleUpdate(ctx, commandUpdate(42, "cancel")); err != nil {
		t.Fatalf("/cancel failed: %v", err)
	}
	if got := f.sender.lastSent(t); !strings.Contains(got, "Unknown command") {
		t.Fatalf("expected unknown-command reply, got %q", got)
	}

	if err := f.bot.HandleUpdate(ctx, commandUpdate(42, "start")); err != nil {
		t.Fatalf("/start failed: %v", err)
	}
	if err := f.bot.HandleUpdate(ctx, commandUpdate(42, "cancel")); err != nil {
		t.Fatalf("/cancel failed: %v", err)
	}
	if got := f.sender.lastSent(t); !strings.Contains(got, "Operation cancelled") {
		t.Fatalf("expected cancellation reply, got %q", got)
	}
}

func TestStatusCommand(t *testing.T) {
	f := newBotFixture(t, model.PayoutResult{Status: model.PayoutSuccess, RefID: "ref"}, nil)
	ctx := context.Background()

	if err := f.bot.HandleUpdate(ctx, commandUpdate(42, "status")); err != nil {
		t.Fatalf("/status failed: %v", err)
	}
	if got := f.sender.lastSent(t); !strings.Contains(got, "No Claims Yet") {
		t.Fatalf("expected never-claimed status, got %q", got)
	}

	if err := f.bot.HandleUpdate(ctx, commandUpdate(42, "start")); err != nil {
		t.Fatalf("/start failed: %v", err)
	}
	if err := f.bot.HandleUpdate(ctx, textUpdate(42, "user@example.com")); err != nil {
		t.Fatalf("submission failed: %v", err)
	}

	if err := f.bot.HandleUpdate(ctx, commandUpdate(42, "status")); err != nil {
		t.Fatalf("second /status failed: %v", err)
	}
	got := f.sender.lastSent(t)
	if !strings.Contains(got, "Your Status") || !strings.Contains(got, "user@example.com") {
		t.Fatalf("expected cooldown status with email, got %q", got)
	}
}

func TestStatsCommandAdminOnly(t *testing.T) {
	f := newBotFixture(t, model.PayoutResult{Status: model.PayoutSuccess, RefID: "ref"},
		map[int64]bool{99: true})
	ctx := context.Background()

	if err := f.bot.HandleUpdate(ctx, commandUpdate(42, "stats")); err != nil {
		t.Fatalf("/stats failed: %v", err)
	}
	if got := f.sender.lastSent(t); !strings.Contains(got, "Access Denied") {
		t.Fatalf("expected access denied for non-admin, got %q", got)
	}

	if err := f.bot.HandleUpdate(ctx, commandUpdate(99, "stats")); err != nil {
		t.Fatalf("admin /stats failed: %v", err)
	}
	if got := f.sender.lastSent(t); !strings.Contains(got, "No claims have been made yet") {
		t.Fatalf("expected empty statistics, got %q", got)
	}

	if err := f.bot.HandleUpdate(ctx, commandUpdate(42, "start")); err != nil {
		t.Fatalf("/start failed: %v", err)
	}
	if err := f.bot.HandleUpdate(ctx, textUpdate(42, "user@example.com")); err != nil {
		t.Fatalf("submission failed: %v", err)
	}

	if err := f.bot.HandleUpdate(ctx, commandUpdate(99, "stats")); err != nil {
		t.Fatalf("admin /stats after claim failed: %v", err)
	}
	got := f.sender.lastSent(t)
	if !strings.Contains(got, "*Total Claims:* 1") {
		t.Fatalf("expected total of 1 claim, got %q", got)
	}
	if !strings.Contains(got, "user@example.com") {
		t.Fatalf("expected recent claim listed, got %q", got)
	}
}

func TestIgnoresNonMessageUpdates(t *testing.T) {
	f := newBotFixture(t, model.PayoutResult{Status: model.PayoutSuccess}, nil)

	if err := f.bot.HandleUpdate(context.Background(), tgbotapi.Update{}); err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}
	if len(f.sender.sent) != 0 {
		t.Fatalf("update without a message should be ignored, got %q", f.sender.sent)
	}
}

func TestFmtRemaining(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{24 * time.Hour, "24h 0m"},
		{90 * time.Minute, "1h 30m"},
		{59 * time.Second, "0h 0m"},
		{23*time.Hour + 59*time.Minute, "23h 59m"},
	}
	for _, tt := range tests {
		if got := fmtRemaining(tt.in); got != tt.want {
			t.Fatalf("fmtRemaining(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
