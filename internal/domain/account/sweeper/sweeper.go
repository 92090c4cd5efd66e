package sweeper

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// ExpiredAccountSweeper deactivates accounts whose credential has expired
type ExpiredAccountSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Sweeper runs the expired-account sweep on a cron schedule
type Sweeper struct {
	target   ExpiredAccountSweeper
	schedule string
	logger   *slog.Logger
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
	running  bool
	mu       sync.Mutex

	// tracks the sweep started by Start; cron tracks its own runs
	initial sync.WaitGroup
}

// New creates a new sweeper. schedule uses robfig/cron syntax, e.g. "@every 1h".
func New(target ExpiredAccountSweeper, schedule string, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		target:   target,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the job and starts the cron runner. It runs one sweep immediately.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.Sweep); err != nil {
		s.cancel()
		return err
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("account sweeper started", "schedule", s.schedule)

	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		s.Sweep()
	}()
	return nil
}

// Stop stops the cron runner and waits for running sweeps, including the initial one, to finish
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()
	<-s.cron.Stop().Done()
	s.initial.Wait()
	s.logger.Info("account sweeper stopped")
}

// Sweep runs a single sweep
func (s *Sweeper) Sweep() {
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	n, err := s.target.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("failed to sweep expired accounts", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("deactivated expired accounts", "count", n)
	}
}
