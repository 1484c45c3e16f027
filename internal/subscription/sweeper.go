package subscription

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweeper periodically removes expired tokens. The sweep is the only place
// expired tokens leave the store; subscriber queries do not filter by
// expiry.
type Sweeper struct {
	interval time.Duration
	service  *Service

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewSweeper creates a new token sweeper.
func NewSweeper(interval time.Duration, service *Service) *Sweeper {
	return &Sweeper{
		interval: interval,
		service:  service,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop. One sweep runs immediately, then on every
// tick.
func (s *Sweeper) Start(ctx context.Context) {
	slog.Info("starting token sweeper", "interval", s.interval)

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop gracefully stops the sweeper.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	slog.Info("token sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep logs failures and waits for the next tick; a transient store error
// never stops the loop.
func (s *Sweeper) sweep(ctx context.Context) {
	if err := s.service.SweepExpired(ctx, time.Now()); err != nil {
		slog.Error("token sweep failed", "error", err)
	}
}
