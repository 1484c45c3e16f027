package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dkotenko/stock-sentry/internal/domain"
)

// Roster provides the chat user ids to notify.
type Roster interface {
	AllSubscriberIDs(ctx context.Context) ([]int64, error)
}

// Config contains fan-out configuration.
type Config struct {
	NumWorkers int
}

// DefaultConfig returns default fan-out configuration.
func DefaultConfig() Config {
	return Config{NumWorkers: 5}
}

// Notifier fans restock alerts out to the subscriber roster plus the admin.
type Notifier struct {
	config   Config
	roster   Roster
	sender   Sender
	renderer *Renderer
	adminID  int64
}

// NewNotifier creates a new notifier.
func NewNotifier(config Config, roster Roster, sender Sender, renderer *Renderer, adminID int64) *Notifier {
	if config.NumWorkers <= 0 {
		config.NumWorkers = DefaultConfig().NumWorkers
	}
	return &Notifier{
		config:   config,
		roster:   roster,
		sender:   sender,
		renderer: renderer,
		adminID:  adminID,
	}
}

type job struct {
	chatID int64
	text   string
}

// NotifyAvailable sends one alert per (product, recipient). The recipient
// set is the subscriber roster plus the admin, deduplicated; each
// recipient gets each alert exactly once. A failed send is logged and
// counted, and never blocks the remaining sends.
func (n *Notifier) NotifyAvailable(ctx context.Context, products []domain.Product) {
	if len(products) == 0 {
		return
	}

	ids, err := n.roster.AllSubscriberIDs(ctx)
	if err != nil {
		slog.Error("failed to load subscriber roster", "error", err)
		return
	}

	recipients := n.recipients(ids)

	slog.Info("dispatching restock alerts",
		"products", len(products),
		"recipients", len(recipients),
	)

	jobs := make(chan job)
	var wg sync.WaitGroup

	for i := 0; i < n.config.NumWorkers; i++ {
		wg.Add(1)
		go n.worker(ctx, jobs, &wg)
	}

	for _, p := range products {
		text, err := n.renderer.RestockAlert(p)
		if err != nil {
			slog.Error("failed to render alert", "product", p.Name, "error", err)
			continue
		}
		for _, chatID := range recipients {
			jobs <- job{chatID: chatID, text: text}
		}
	}

	close(jobs)
	wg.Wait()
}

func (n *Notifier) worker(ctx context.Context, jobs <-chan job, wg *sync.WaitGroup) {
	defer wg.Done()

	for j := range jobs {
		start := time.Now()
		if err := n.sender.SendText(ctx, j.chatID, j.text); err != nil {
			slog.Error("failed to send alert", "chat_id", j.chatID, "error", err)
			recordAlertSent("failed")
			continue
		}
		recordAlertSent("success")
		recordSendDuration(time.Since(start))
	}
}

// recipients deduplicates the roster and guarantees the admin is present
// exactly once, preserving roster order.
func (n *Notifier) recipients(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids)+1)
	out := make([]int64, 0, len(ids)+1)

	for _, id := range append(ids, n.adminID) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
