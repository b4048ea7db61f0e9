// Package telegram posts sync run reports to a Telegram chat.
package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier sends plain-text run reports to a fixed chat.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier creates a notifier for the given bot token and chat.
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("initializing telegram bot: %w", err)
	}

	return &Notifier{api: api, chatID: chatID}, nil
}

// SendReport delivers one report message.
func (n *Notifier) SendReport(text string) error {
	if _, err := n.api.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		return fmt.Errorf("sending report: %w", err)
	}
	return nil
}
