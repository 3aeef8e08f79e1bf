package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/guildbank/lending/internal/application/usecase"
	"github.com/guildbank/lending/internal/domain/port"
)

// Sweeper runs the maintenance sweep on a fixed cadence. Runs never overlap:
// a sweep still in flight when the next tick fires makes the tick a no-op.
type Sweeper struct {
	cron   *cron.Cron
	sweep  *usecase.RunSweepUseCase
	logger *slog.Logger

	running chan struct{}
}

// NewSweeper creates a sweeper from the configured interval.
func NewSweeper(sweep *usecase.RunSweepUseCase, settings port.Settings, logger *slog.Logger) (*Sweeper, error) {
	s := &Sweeper{
		cron:    cron.New(),
		sweep:   sweep,
		logger:  logger,
		running: make(chan struct{}, 1),
	}

	spec := fmt.Sprintf("@every %s", settings.Snapshot().SweepInterval)
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("schedule sweep: %w", err)
	}
	return s, nil
}

// Start begins the cadence.
func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info("sweep scheduler started")
}

// Stop halts the cadence and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running <- struct{}{}
	<-s.running
	s.logger.Info("sweep scheduler stopped")
}

func (s *Sweeper) run() {
	select {
	case s.running <- struct{}{}:
		defer func() { <-s.running }()
	default:
		s.logger.Warn("sweep still running, skipping tick")
		return
	}

	result, err := s.sweep.Execute(context.Background())
	if err != nil {
		s.logger.Error("sweep failed", slog.Any("error", err))
		return
	}
	s.logger.Info("sweep complete",
		slog.Int("loans_swept", result.LoansSwept),
		slog.Int("offers_expired", result.OffersExpired),
	)
}
