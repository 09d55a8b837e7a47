package cli

import (
	"fmt"
	"html"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/uv-alert/internal/telegram"
)

var testTelegramCmd = &cobra.Command{
	Use:   "test-telegram",
	Short: "Send a test message to the configured chat",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		if err := cfg.RequireTelegram(); err != nil {
			return err
		}

		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.HTTPTimeout)
		if err != nil {
			return err
		}
		text := fmt.Sprintf("✅ <b>uv-alert test</b>\n\nTelegram is configured for %s.\n🕐 %s",
			html.EscapeString(cfg.LocationName), time.Now().In(cfg.Location()).Format("15:04 02/01/2006"))
		if err := telegram.NewNotifier(bot, cfg.TelegramChatID).Send(cmd.Context(), text); err != nil {
			return err
		}
		log.Info("test message sent", "chat_id", cfg.TelegramChatID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(testTelegramCmd)
}
