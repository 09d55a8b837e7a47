package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/uv-alert/internal/telegram"
	"github.com/i474232898/uv-alert/internal/uv"
)

var checkNotify bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single UV check and print the result",
	Long: `Run one check against the provider chain and print the current status.

Notifications are printed to stdout unless --notify is given, in which case
they are sent to the configured Telegram chat.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkNotify, "notify", false, "Send notifications to Telegram instead of printing them")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	var notifier uv.Notifier = consoleNotifier{w: os.Stdout}
	if checkNotify {
		if err := cfg.RequireTelegram(); err != nil {
			return err
		}
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.HTTPTimeout)
		if err != nil {
			return err
		}
		notifier = telegram.NewNotifier(bot, cfg.TelegramChatID)
	}

	engine, err := newEngine(cfg, notifier, log)
	if err != nil {
		return err
	}
	if err := engine.RunCheck(cmd.Context()); err != nil {
		return fmt.Errorf("uv check failed: %w", err)
	}

	st := engine.Status(cmd.Context())
	fmt.Printf("Location:   %s\n", cfg.LocationName)
	fmt.Printf("UV index:   %.1f (%s)\n", st.State.CurrentValue, st.Level.Label)
	fmt.Printf("Source:     %s (%s)\n", st.State.Provider, st.State.Source)
	fmt.Printf("Threshold:  %.1f\n", st.Threshold)
	fmt.Printf("Dangerous:  %t\n", st.State.IsDangerous)
	fmt.Printf("Safe time:  %d min (skin type %d)\n", st.SafeMinutes, st.SkinType)
	if st.Burn.NoRisk() {
		fmt.Println("Burn time:  no risk")
	} else {
		fmt.Printf("Burn time:  %d min (photosensitive %d min)\n", st.Burn.Normal, st.Burn.Photosensitive)
	}
	if st.Sunscreen != nil {
		fmt.Printf("Sunscreen:  SPF %d, %d min left\n", st.Sunscreen.SPF, st.ProtectionRemaining)
	}
	return engine.Flush()
}
