package interview

import (
	"context"
	"time"

	"github.com/sandevgo/dermflow/pkg/log"
)

type expiredSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Sweeper abandons expired sessions in the background so terminal status is
// reached even when nobody touches the token again.
type Sweeper struct {
	repo     expiredSweeper
	interval time.Duration
}

func NewSweeper(repo expiredSweeper, interval time.Duration) *Sweeper {
	return &Sweeper{repo: repo, interval: interval}
}

// Start runs the sweep loop until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Dur("interval", s.interval).Msg("session expiry sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.repo.SweepExpired(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("expiry sweep failed")
				continue
			}
			if n > 0 {
				logger.Info().Int64("count", n).Msg("expired sessions abandoned")
			}
		}
	}
}

func (s *Sweeper) Shutdown(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("session expiry sweeper stopped")
	return nil
}
