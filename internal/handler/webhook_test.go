package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"faucetdrop-bot/internal/bot"
	"faucetdrop-bot/internal/model"
	"faucetdrop-bot/internal/repository"
	"faucetdrop-bot/internal/service"
)

// nullSender drops outgoing messages; webhook tests only care about the HTTP
// exchange.
type nullSender struct{ sent int }

func (s *nullSender) Send(chatID int64, text string) (int, error) {
	s.sent++
	return s.sent, nil
}

func (s *nullSender) Edit(chatID int64, messageID int, text string) error { return nil }

type acceptingPayout struct{}

func (acceptingPayout) Send(ctx context.Context, toEmail string) model.PayoutResult {
	return model.PayoutResult{Status: model.PayoutSuccess, RefID: "ref"}
}

func newTestServices(t *testing.T) (*service.ClaimService, *service.StatsService) {
	t.Helper()

	store := repository.NewMemoryClaimStore(48 * time.Hour)
	t.Cleanup(func() { store.Close() })
	history, err := repository.NewFileHistoryRepository(filepath.Join(t.TempDir(), "claims.ndjson"))
	if err != nil {
		t.Fatalf("NewFileHistoryRepository failed: %v", err)
	}

	eligibility := service.NewEligibilityService(store, 24*time.Hour, time.Minute)
	claims := service.NewClaimService(eligibility, history, acceptingPayout{}, 10*time.Minute)
	if claims == nil {
		t.Fatal("NewClaimService returned nil")
	}
	t.Cleanup(func() { claims.Close() })

	return claims, service.NewStatsService(history)
}

func newTestBot(t *testing.T) *bot.Bot {
	t.Helper()
	claims, stats := newTestServices(t)
	b := bot.New(bot.Config{
		Sender:   &nullSender{},
		Claims:   claims,
		Stats:    stats,
		Amount:   "0.00000001",
		Currency: "DGB",
	})
	if b == nil {
		t.Fatal("bot.New returned nil")
	}
	return b
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	h := NewWebhookHandler(newTestBot(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	h.Receive(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed payload, got %d", rec.Code)
	}
}

func TestWebhookAcceptsUpdate(t *testing.T) {
	h := NewWebhookHandler(newTestBot(t))

	body := `{"update_id":1,"message":{"message_id":10,"text":"/start",` +
		`"entities":[{"type":"bot_command","offset":0,"length":6}],` +
		`"from":{"id":42,"first_name":"Cee"},"chat":{"id":42}}}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	h.Receive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestWebhookIgnoresEmptyUpdate(t *testing.T) {
	h := NewWebhookHandler(newTestBot(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"update_id":2}`))
	h.Receive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for an update without a message, got %d", rec.Code)
	}
}
