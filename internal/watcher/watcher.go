// Package watcher runs the periodic availability check: fetch a fresh
// catalog snapshot, diff it against the stored one and hand newly
// available products to the notification fan-out.
package watcher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dkotenko/stock-sentry/internal/catalog"
	"github.com/dkotenko/stock-sentry/internal/domain"
)

// Notifier receives the products whose availability flipped to in-stock.
type Notifier interface {
	NotifyAvailable(ctx context.Context, products []domain.Product)
}

// Watcher is the availability check job.
type Watcher struct {
	interval time.Duration
	fetcher  catalog.Fetcher
	products catalog.Repository
	notifier Notifier

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a new watcher.
func New(interval time.Duration, fetcher catalog.Fetcher, products catalog.Repository, notifier Notifier) *Watcher {
	return &Watcher{
		interval: interval,
		fetcher:  fetcher,
		products: products,
		notifier: notifier,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the watch loop.
func (w *Watcher) Start(ctx context.Context) {
	slog.Info("starting availability watcher", "interval", w.interval)

	w.wg.Add(1)
	go w.run(ctx)
}

// Stop gracefully stops the watcher. The current cycle runs to completion;
// there is no mid-cycle abort.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	slog.Info("availability watcher stopped")
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

// runCycle performs one watch cycle. Any transient failure is logged and
// the cycle retried on the next tick; an empty scrape is not a failure and
// still replaces the stored snapshot.
func (w *Watcher) runCycle(ctx context.Context) {
	start := time.Now()

	newSnapshot, err := w.fetcher.FetchCurrentProducts(ctx)
	if err != nil {
		slog.Error("failed to fetch catalog", "error", err)
		recordCycle("fetch_error", time.Since(start))
		return
	}

	oldSnapshot, err := w.products.FindAllProducts(ctx)
	if err != nil {
		slog.Error("failed to read stored snapshot", "error", err)
		recordCycle("store_error", time.Since(start))
		return
	}

	changed := newlyAvailable(oldSnapshot, newSnapshot)

	if err := w.products.ReplaceAllProducts(ctx, newSnapshot); err != nil {
		slog.Error("failed to replace snapshot", "error", err)
		recordCycle("store_error", time.Since(start))
		return
	}

	if len(changed) > 0 {
		slog.Info("products back in stock", "count", len(changed))
		recordNewlyAvailable(len(changed))
		w.notifier.NotifyAvailable(ctx, changed)
	}

	recordCycle("ok", time.Since(start))
	recordSnapshotSize(len(newSnapshot))
}

// newlyAvailable returns the products of newSnapshot, in order, that are
// in stock now and were known out of stock in oldSnapshot. Products absent
// from the old snapshot or with unknown prior availability never count, so
// the first cycle and brand-new products produce no false alerts.
func newlyAvailable(oldSnapshot, newSnapshot []domain.Product) []domain.Product {
	previous := make(map[string]domain.Availability, len(oldSnapshot))
	for _, p := range oldSnapshot {
		previous[p.Name] = p.Availability
	}

	changed := make([]domain.Product, 0)
	for _, p := range newSnapshot {
		if p.Availability != domain.AvailabilityInStock {
			continue
		}
		if previous[p.Name] == domain.AvailabilityOutOfStock {
			changed = append(changed, p)
		}
	}

	return changed
}
