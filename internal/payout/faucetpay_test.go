package payout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"faucetdrop-bot/internal/model"
)

func newTestClient(endpoint string, timeout time.Duration) *FaucetPayClient {
	return NewFaucetPayClient(FaucetPayConfig{
		APIKey:   "test-key",
		Endpoint: endpoint,
		Currency: "DGB",
		Amount:   "0.00000001",
		Timeout:  timeout,
	})
}

func TestSendSuccess(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm failed: %v", err)
		}
		gotForm = map[string]string{
			"api_key":  r.PostFormValue("api_key"),
			"currency": r.PostFormValue("currency"),
			"to":       r.PostFormValue("to"),
			"amount":   r.PostFormValue("amount"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":200,"message":"OK","payout_user_hash":"abc123def456789"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, time.Second)
	result := client.Send(context.Background(), "user@example.com")

	if result.Status != model.PayoutSuccess {
		t.Fatalf("expected success, got %v (reason %q)", result.Status, result.Reason)
	}
	if result.RefID != "abc123def456789" {
		t.Fatalf("unexpected ref: %q", result.RefID)
	}
	want := map[string]string{
		"api_key":  "test-key",
		"currency": "DGB",
		"to":       "user@example.com",
		"amount":   "0.00000001",
	}
	for k, v := range want {
		if gotForm[k] != v {
			t.Fatalf("form field %s: got %q, want %q", k, gotForm[k], v)
		}
	}
}

func TestSendSuccessWithoutHash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"message":"OK"}`))
	}))
	defer srv.Close()

	result := newTestClient(srv.URL, time.Second).Send(context.Background(), "user@example.com")
	if result.Status != model.PayoutSuccess {
		t.Fatalf("expected success, got %v", result.Status)
	}
	if result.RefID != "N/A" {
		t.Fatalf("expected N/A placeholder ref, got %q", result.RefID)
	}
}

func TestSendRejected(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantReason string
	}{
		{"with message", `{"status":456,"message":"The recipient does not exist"}`, "The recipient does not exist"},
		{"without message", `{"status":456}`, "Unknown error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			result := newTestClient(srv.URL, time.Second).Send(context.Background(), "user@example.com")
			if result.Status != model.PayoutRejected {
				t.Fatalf("expected rejection, got %v", result.Status)
			}
			if result.Reason != tt.wantReason {
				t.Fatalf("unexpected reason: got %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestSendTimeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-done
	}))
	defer srv.Close()
	defer close(done)

	result := newTestClient(srv.URL, 50*time.Millisecond).Send(context.Background(), "user@example.com")
	if result.Status != model.PayoutTimeout {
		t.Fatalf("expected timeout, got %v", result.Status)
	}
}

func TestSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	result := newTestClient(srv.URL, time.Second).Send(context.Background(), "user@example.com")
	if result.Status != model.PayoutTransportError {
		t.Fatalf("expected transport error, got %v", result.Status)
	}
}

func TestSendMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	result := newTestClient(srv.URL, time.Second).Send(context.Background(), "user@example.com")
	if result.Status != model.PayoutTransportError {
		t.Fatalf("expected transport error for malformed body, got %v", result.Status)
	}
}

func TestTruncateRef(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc123def456789", "abc123def456..."},
		{"abc123def456", "abc123def456"},
		{"short", "short"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TruncateRef(tt.in); got != tt.want {
			t.Fatalf("TruncateRef(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
