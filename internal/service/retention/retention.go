package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sandevgo/chatrelay/pkg/log"
)

type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// Service deletes turns older than the retention window on a cron schedule.
type Service struct {
	store     Pruner
	retention time.Duration
	schedule  string
	now       func() time.Time

	cron *cron.Cron
}

func New(store Pruner, retention time.Duration, schedule string) *Service {
	return &Service{
		store:     store,
		retention: retention,
		schedule:  schedule,
		now:       time.Now,
		cron:      cron.New(),
	}
}

func (s *Service) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.prune(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule retention %q: %w", s.schedule, err)
	}

	log.FromCtx(ctx).Info().
		Str("schedule", s.schedule).
		Dur("retention", s.retention).
		Msg("starting retention")

	s.cron.Start()
	return nil
}

func (s *Service) Shutdown(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Prune runs one retention pass right away.
func (s *Service) Prune(ctx context.Context) (int64, error) {
	n, err := s.store.Prune(ctx, s.now().Add(-s.retention))
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return n, nil
}

func (s *Service) prune(ctx context.Context) {
	logger := log.FromCtx(ctx)
	n, err := s.Prune(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("retention pass failed")
		return
	}
	logger.Info().Int64("deleted", n).Msg("retention pass done")
}
