package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/uv-alert/internal/config"
	"github.com/i474232898/uv-alert/internal/logger"
)

var (
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "uv-alert",
	Short: "UV index alerts and sunscreen reminders over Telegram",
	Long: `uv-alert watches the UV index for one location and sends a Telegram message
when it crosses the danger threshold in either direction. It also tracks
sunscreen applications and reminds you to reapply before protection runs out.

Running without a subcommand starts the service.`,
	SilenceUsage: true,
	RunE:         runService,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (overrides CONFIG_PATH)")
}

// setup loads configuration and builds the logger shared by every command.
func setup() (*config.AppConfig, *slog.Logger, error) {
	if configPath != "" {
		if err := os.Setenv("CONFIG_PATH", configPath); err != nil {
			return nil, nil, fmt.Errorf("set CONFIG_PATH: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logger.New(level, cfg.LogFormat)
	slog.SetDefault(log)
	return cfg, log, nil
}
