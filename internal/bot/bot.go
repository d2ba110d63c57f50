package bot

import (
	"context"
	"log"

	"faucetdrop-bot/internal/model"
	"faucetdrop-bot/internal/payout"
	"faucetdrop-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// recentStatsCount is how many history entries the admin /stats command shows.
const recentStatsCount = 5

// Bot routes incoming Telegram updates to the claim state machine and sends
// the resulting messages back to the user.
type Bot struct {
	sender   Sender
	claims   *service.ClaimService
	stats    *service.StatsService
	admins   map[int64]bool
	amount   string
	currency string
}

// Config holds the dependencies for creating a Bot.
type Config struct {
	Sender   Sender
	Claims   *service.ClaimService
	Stats    *service.StatsService
	AdminIDs map[int64]bool
	Amount   string
	Currency string
}

// New creates a new bot. Returns nil if a required dependency is missing.
func New(cfg Config) *Bot {
	if cfg.Sender == nil || cfg.Claims == nil || cfg.Stats == nil {
		return nil
	}
	return &Bot{
		sender:   cfg.Sender,
		claims:   cfg.Claims,
		stats:    cfg.Stats,
		admins:   cfg.AdminIDs,
		amount:   cfg.Amount,
		currency: cfg.Currency,
	}
}

// HandleUpdate processes one inbound update. Domain rejections come back as
// chat messages; only unexpected failures return an error.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil
	}

	user := model.UserIdentity{
		ID:        msg.From.ID,
		Username:  msg.From.UserName,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
	}
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		return b.handleCommand(ctx, user, chatID, msg.Command())
	}
	return b.handleText(ctx, user, chatID, msg.Text)
}

// handleCommand dispatches a slash command.
func (b *Bot) handleCommand(ctx context.Context, user model.UserIdentity, chatID int64, command string) error {
	switch command {
	case "start":
		return b.handleStart(ctx, user, chatID)
	case "help":
		_, err := b.sender.Send(chatID, helpMessage(b.amount, b.currency))
		return err
	case "status":
		return b.handleStatus(ctx, user, chatID)
	case "stats":
		return b.handleStats(ctx, user, chatID)
	case "cancel":
		if b.claims.Cancel(user) {
			_, err := b.sender.Send(chatID, cancelledMessage())
			return err
		}
		_, err := b.sender.Send(chatID, unknownCommandMessage())
		return err
	default:
		_, err := b.sender.Send(chatID, unknownCommandMessage())
		return err
	}
}

// handleStart begins a claim conversation.
func (b *Bot) handleStart(ctx context.Context, user model.UserIdentity, chatID int64) error {
	outcome, err := b.claims.Begin(ctx, user)
	if err != nil {
		return err
	}

	switch outcome.Kind {
	case service.BeginCooldown:
		_, err = b.sender.Send(chatID, cooldownMessage(outcome.Remaining))
	default:
		_, err = b.sender.Send(chatID, welcomeMessage(user.DisplayName(), b.amount, b.currency))
	}
	return err
}

// handleText handles a free-text message, which in an open session is an
// email submission. A processing placeholder goes out when the payout call
// starts and is edited into the final outcome, as the payout can take up to
// its full timeout.
func (b *Bot) handleText(ctx context.Context, user model.UserIdentity, chatID int64, text string) error {
	var processingID int
	onPayingOut := func() {
		id, err := b.sender.Send(chatID, processingMessage())
		if err != nil {
			log.Printf("[Bot] Failed to send processing message to %d: %v", chatID, err)
			return
		}
		processingID = id
	}

	outcome, err := b.claims.Submit(ctx, user, text, onPayingOut)
	if err != nil {
		return err
	}

	var reply string
	switch outcome.Kind {
	case service.SubmitNoSession:
		// Free text outside a claim conversation is ignored, matching
		// how the conversation handler always behaved.
		return nil
	case service.SubmitInvalidEmail:
		reply = invalidEmailMessage()
	case service.SubmitThrottled:
		reply = throttledMessage()
	case service.SubmitCooldown:
		reply = cooldownMessage(outcome.Remaining)
	case service.SubmitPaid:
		reply = successMessage(b.amount, b.currency, outcome.Email, payout.TruncateRef(outcome.RefID))
	case service.SubmitRejected:
		reply = rejectedMessage(outcome.Reason)
	case service.SubmitTimeout:
		reply = timeoutMessage()
	default:
		reply = unavailableMessage()
	}

	if processingID != 0 {
		if err := b.sender.Edit(chatID, processingID, reply); err == nil {
			return nil
		}
		// Fall through to a fresh message if the edit failed.
	}
	_, err = b.sender.Send(chatID, reply)
	return err
}

// handleStatus reports the user's claim standing.
func (b *Bot) handleStatus(ctx context.Context, user model.UserIdentity, chatID int64) error {
	outcome, err := b.claims.Status(ctx, user)
	if err != nil {
		return err
	}

	var reply string
	switch outcome.Kind {
	case service.StatusNeverClaimed:
		reply = statusNeverClaimedMessage()
	case service.StatusReady:
		reply = statusReadyMessage()
	default:
		reply = statusCooldownMessage(outcome.Email, outcome.Remaining)
	}

	_, err = b.sender.Send(chatID, reply)
	return err
}

// handleStats serves the admin-only statistics command.
func (b *Bot) handleStats(ctx context.Context, user model.UserIdentity, chatID int64) error {
	if !b.admins[user.ID] {
		_, err := b.sender.Send(chatID, accessDeniedMessage())
		return err
	}

	totals, err := b.stats.Totals(ctx)
	if err != nil {
		return err
	}
	recent, err := b.stats.Recent(ctx, recentStatsCount)
	if err != nil {
		return err
	}

	_, err = b.sender.Send(chatID, statsMessage(
		totals.TotalClaims, totals.UniqueUsers, b.claims.ActiveSessions(), recent))
	return err
}
