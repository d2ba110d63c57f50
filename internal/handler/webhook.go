package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"faucetdrop-bot/internal/bot"
	"faucetdrop-bot/pkg/apierror"
	"faucetdrop-bot/pkg/response"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WebhookHandler handles Telegram webhook ingress.
type WebhookHandler struct {
	bot *bot.Bot
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(b *bot.Bot) *WebhookHandler {
	return &WebhookHandler{bot: b}
}

// Receive handles POST / - the Telegram webhook endpoint.
// Domain-level rejections are delivered as chat messages inside the bot;
// only unexpected processing failures surface as a 500 here.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.Error(w, apierror.BadRequest("invalid update payload"))
		return
	}
	defer r.Body.Close()

	if err := h.bot.HandleUpdate(r.Context(), update); err != nil {
		log.Printf("[WebhookHandler] Error processing update %d: %v", update.UpdateID, err)
		response.Error(w, apierror.InternalError("failed to process update"))
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}
