package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const pollTimeout = 30

// Listener long-polls for messages from the owner chat and answers commands.
type Listener struct {
	bot      Bot
	chatID   int64
	commands *Commands
	logger   *slog.Logger
}

// NewListener creates a Listener that only answers chatID.
func NewListener(bot Bot, chatID int64, commands *Commands, logger *slog.Logger) *Listener {
	return &Listener{
		bot:      bot,
		chatID:   chatID,
		commands: commands,
		logger:   logger.With("component", "telegram"),
	}
}

// Run blocks until ctx is cancelled or the update channel closes.
func (l *Listener) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := l.bot.GetUpdatesChan(u)
	l.logger.Info("listening for commands", "chat_id", l.chatID)

	for {
		select {
		case <-ctx.Done():
			l.bot.StopReceivingUpdates()
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			l.handle(ctx, upd)
		}
	}
}

func (l *Listener) handle(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	if msg.Chat.ID != l.chatID {
		l.logger.Warn("ignoring message from unknown chat", "chat_id", msg.Chat.ID)
		return
	}

	reply, ok := l.commands.Handle(ctx, msg.Text)
	if !ok {
		l.logger.Debug("unrecognised message", "text", msg.Text)
		return
	}

	out := tgbotapi.NewMessage(l.chatID, reply)
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyToMessageID = msg.MessageID
	if _, err := l.bot.Send(out); err != nil {
		l.logger.Error("failed to send reply", "error", err)
	}
}
