package telegram

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the subset of *tgbotapi.BotAPI used here.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// NewBot authenticates against the Bot API. timeout bounds plain requests;
// long polling adds its own timeout on top.
func NewBot(token string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	client := &http.Client{Timeout: timeout + pollTimeout*time.Second}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	return bot, nil
}
