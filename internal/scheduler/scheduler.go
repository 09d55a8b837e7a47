package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

const (
	DormantSleep = 60 * time.Minute
	RetrySleep   = 1 * time.Minute

	checkTag        = "uv-check"
	housekeepingTag = "uv-housekeeping"
	checkTimeout    = 2 * time.Minute
)

// Engine is the part of uv.Engine the scheduler drives.
type Engine interface {
	RunCheck(ctx context.Context) error
	Housekeeping(ctx context.Context)
}

// Window is the daily range of local hours in which checks run.
// StartHour is inclusive, EndHour exclusive.
type Window struct {
	StartHour int
	EndHour   int
	Location  *time.Location
}

// Active reports whether now falls inside the window.
func (w Window) Active(now time.Time) bool {
	loc := w.Location
	if loc == nil {
		loc = time.Local
	}
	h := now.In(loc).Hour()
	if w.StartHour <= w.EndHour {
		return h >= w.StartHour && h < w.EndHour
	}
	// window wraps midnight
	return h >= w.StartHour || h < w.EndHour
}

// Scheduler alternates between active checks and dormant sleeps.
type Scheduler struct {
	scheduler *gocron.Scheduler
	engine    Engine
	window    Window
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Scheduler.
func New(engine Engine, window Window, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	loc := window.Location
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		engine:    engine,
		window:    window,
		interval:  interval,
		logger:    logger.With("component", "scheduler"),
		now:       time.Now,
	}
}

// Start runs the first step immediately, registers the one-minute housekeeping
// job and starts the underlying scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	_, err := s.scheduler.Every(1).Minute().WaitForSchedule().SingletonMode().Tag(housekeepingTag).Do(func() {
		s.engine.Housekeeping(s.context())
	})
	if err != nil {
		return fmt.Errorf("schedule housekeeping: %w", err)
	}

	if _, err := s.scheduler.Every(time.Minute).LimitRunsTo(1).Tag(checkTag).Do(s.tick); err != nil {
		return fmt.Errorf("schedule first check: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started",
		"interval", s.interval,
		"active_from", s.window.StartHour,
		"active_until", s.window.EndHour,
	)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// tick runs one step and schedules the next one.
func (s *Scheduler) tick() {
	ctx := s.context()
	delay := s.step(ctx)
	if ctx.Err() != nil {
		return
	}

	_, err := s.scheduler.Every(delay).WaitForSchedule().LimitRunsTo(1).Tag(checkTag).Do(s.tick)
	if err != nil {
		s.logger.Error("failed to schedule next check", "delay", delay, "error", err)
		return
	}
	s.logger.Debug("next check scheduled", "delay", delay)
}

// step performs the work for the current mode and returns how long to sleep.
func (s *Scheduler) step(ctx context.Context) (delay time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("uv check panicked", "panic", r)
			delay = RetrySleep
		}
	}()

	if !s.window.Active(s.now()) {
		s.engine.Housekeeping(ctx)
		s.logger.Debug("outside active hours; dormant")
		return DormantSleep
	}

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := s.engine.RunCheck(checkCtx); err != nil {
		s.logger.Error("uv check failed", "error", err)
		return RetrySleep
	}
	return s.interval
}
