package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender sends and edits outbound chat messages. The core only needs these
// two operations from the transport; faked in tests.
type Sender interface {
	// Send delivers a message and returns its transport message ID.
	Send(chatID int64, text string) (int, error)

	// Edit replaces the text of a previously sent message.
	Edit(chatID int64, messageID int, text string) error
}

// TelegramSender implements Sender over the Telegram Bot API with Markdown
// parse mode.
type TelegramSender struct {
	api *tgbotapi.BotAPI
}

// NewTelegramSender creates a sender backed by the given API client.
func NewTelegramSender(api *tgbotapi.BotAPI) *TelegramSender {
	return &TelegramSender{api: api}
}

// Send delivers a Markdown message to the chat.
func (s *TelegramSender) Send(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	sent, err := s.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// Edit replaces the text of a previously sent message.
func (s *TelegramSender) Edit(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown

	_, err := s.api.Send(edit)
	return err
}

// Ensure TelegramSender implements Sender
var _ Sender = (*TelegramSender)(nil)
