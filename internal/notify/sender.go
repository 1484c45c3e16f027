// Package notify implements the notification fan-out: one message per
// (product, recipient) pair, delivered over the chat transport by a
// bounded set of workers with per-send failure isolation.
package notify

import "context"

// Sender delivers messages over the chat transport. Sends are
// fire-and-forget; no delivery confirmation is consumed.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendReplyKeyboard(ctx context.Context, chatID int64) error
}
