package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier delivers HTML messages to a single chat.
type Notifier struct {
	bot    sender
	chatID int64
}

// NewNotifier creates a Notifier for chatID.
func NewNotifier(bot sender, chatID int64) *Notifier {
	return &Notifier{bot: bot, chatID: chatID}
}

// Send posts text to the configured chat.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram: send to %d: %w", n.chatID, err)
	}
	return nil
}
