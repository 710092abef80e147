package scheduler

import (
	"context"
	"time"

	"github.com/edustore/checkout-service/internal/application/orchestrator"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

// SessionSweeper periodically expires checkout sessions whose payment
// attempt never produced a callback, so their carts and locks are not held
// forever.
type SessionSweeper struct {
	orchestrator *orchestrator.Orchestrator
	logger       *logger.Logger
	interval     time.Duration
	maxAge       time.Duration
	stopChan     chan struct{}
}

func NewSessionSweeper(
	orch *orchestrator.Orchestrator,
	log *logger.Logger,
	interval time.Duration,
	maxAge time.Duration,
) *SessionSweeper {
	return &SessionSweeper{
		orchestrator: orch,
		logger:       log,
		interval:     interval,
		maxAge:       maxAge,
		stopChan:     make(chan struct{}),
	}
}

func (s *SessionSweeper) Start(ctx context.Context) {
	s.logger.Info("Starting session sweeper",
		"interval", s.interval.String(),
		"max_age", s.maxAge.String(),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Session sweeper stopped")
			return
		case <-s.stopChan:
			s.logger.Info("Session sweeper stopped")
			return
		case <-ticker.C:
			if expired := s.orchestrator.ExpireStale(ctx, s.maxAge); expired > 0 {
				s.logger.Info("Expired stale checkout sessions", "count", expired)
			}
		}
	}
}

func (s *SessionSweeper) Stop() {
	close(s.stopChan)
}
