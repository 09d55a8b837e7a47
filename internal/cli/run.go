package cli

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/uv-alert/internal/api/http"
	"github.com/i474232898/uv-alert/internal/scheduler"
	"github.com/i474232898/uv-alert/internal/telegram"
	"github.com/i474232898/uv-alert/internal/uv"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the UV monitor, command listener and HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runService,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runService(cmd *cobra.Command, _ []string) error {
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
	notifier := telegram.NewNotifier(bot, cfg.TelegramChatID)

	engine, err := newEngine(cfg, notifier, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	window := scheduler.Window{
		StartHour: cfg.ActiveHoursStart,
		EndHour:   cfg.ActiveHoursEnd,
		Location:  cfg.Location(),
	}
	sched := scheduler.New(engine, window, cfg.CheckInterval(), log)
	if err := sched.Start(ctx); err != nil {
		return err
	}

	listener := telegram.NewListener(bot, cfg.TelegramChatID, telegram.NewCommands(engine, engine.Formatter()), log)
	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("telegram listener stopped", "error", err)
		}
	}()

	var app *fiber.App
	if cfg.HTTPEnabled {
		app = newHTTPApp(engine)
		go func() {
			if err := app.Listen(":" + cfg.Port); err != nil {
				log.Error("fiber server stopped", "error", err)
			}
		}()
	}

	log.Info("uv-alert started",
		"location", cfg.LocationName,
		"threshold", cfg.UVThreshold,
		"skin_type", cfg.SkinType,
		"http", cfg.HTTPEnabled,
	)

	<-ctx.Done()
	log.Info("shutting down")
	sched.Stop()
	shutdown(app, listenerDone, engine, log)
	return nil
}

func newHTTPApp(engine *uv.Engine) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "uv-alert",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "uv-alert",
		})
	})

	httpapi.RegisterRoutes(app, engine)
	return app
}

// listenerGrace bounds how long shutdown waits for an in-flight command.
var listenerGrace = 10 * time.Second

type flusher interface {
	Flush() error
}

// shutdown stops the HTTP server, waits for the command listener to return
// and then persists the sunscreen state.
func shutdown(app *fiber.App, listenerDone <-chan struct{}, engine flusher, log *slog.Logger) {
	if app != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("error during http shutdown", "error", err)
		}
	}

	select {
	case <-listenerDone:
	case <-time.After(listenerGrace):
		log.Warn("telegram listener did not stop in time", "grace", listenerGrace)
	}

	if err := engine.Flush(); err != nil {
		log.Error("failed to persist sunscreen state", "error", err)
	}
}
