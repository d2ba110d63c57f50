package payout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"faucetdrop-bot/internal/model"
)

const (
	// refDisplayLen is how many characters of a payout reference are shown
	// to the user before truncation.
	refDisplayLen = 12

	// statusAccepted is FaucetPay's in-body status code for an accepted send.
	statusAccepted = 200
)

// FaucetPayClient implements Client against the FaucetPay send API.
type FaucetPayClient struct {
	apiKey   string
	endpoint string
	currency string
	amount   string
	http     *http.Client
}

// FaucetPayConfig holds configuration for the FaucetPay client.
type FaucetPayConfig struct {
	APIKey   string
	Endpoint string
	Currency string
	Amount   string
	Timeout  time.Duration
}

// faucetPayResponse is the JSON body FaucetPay returns for a send request.
type faucetPayResponse struct {
	Status         int    `json:"status"`
	Message        string `json:"message"`
	PayoutUserHash string `json:"payout_user_hash"`
}

// NewFaucetPayClient creates a new FaucetPay client.
func NewFaucetPayClient(cfg FaucetPayConfig) *FaucetPayClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &FaucetPayClient{
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		currency: cfg.Currency,
		amount:   cfg.Amount,
		http:     &http.Client{Timeout: timeout},
	}
}

// Currency returns the configured currency code.
func (c *FaucetPayClient) Currency() string { return c.currency }

// Amount returns the configured per-claim amount.
func (c *FaucetPayClient) Amount() string { return c.amount }

// Send posts one transfer request. One request per call, no retry.
func (c *FaucetPayClient) Send(ctx context.Context, toEmail string) model.PayoutResult {
	form := url.Values{
		"api_key":  {c.apiKey},
		"currency": {c.currency},
		"to":       {toEmail},
		"amount":   {c.amount},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return model.PayoutResult{Status: model.PayoutTransportError}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "faucetdrop-bot/2.0")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			log.Printf("[FaucetPayClient] Request timed out: %v", err)
			return model.PayoutResult{Status: model.PayoutTimeout}
		}
		log.Printf("[FaucetPayClient] Request failed: %v", err)
		return model.PayoutResult{Status: model.PayoutTransportError}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[FaucetPayClient] Failed to read response: %v", err)
		return model.PayoutResult{Status: model.PayoutTransportError}
	}

	var parsed faucetPayResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		log.Printf("[FaucetPayClient] Failed to parse response: %v", err)
		return model.PayoutResult{Status: model.PayoutTransportError}
	}

	if parsed.Status == statusAccepted {
		log.Printf("[FaucetPayClient] Payout accepted, ref=%s", TruncateRef(parsed.PayoutUserHash))
		ref := parsed.PayoutUserHash
		if ref == "" {
			ref = "N/A"
		}
		return model.PayoutResult{Status: model.PayoutSuccess, RefID: ref}
	}

	reason := parsed.Message
	if reason == "" {
		reason = "Unknown error"
	}
	log.Printf("[FaucetPayClient] Payout rejected, status=%d, message=%s", parsed.Status, reason)
	return model.PayoutResult{Status: model.PayoutRejected, Reason: reason}
}

// isTimeout reports whether the request error was a deadline problem.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}

// TruncateRef shortens a payout reference for display.
func TruncateRef(ref string) string {
	if len(ref) > refDisplayLen {
		return fmt.Sprintf("%s...", ref[:refDisplayLen])
	}
	return ref
}

// Ensure FaucetPayClient implements Client
var _ Client = (*FaucetPayClient)(nil)
