// Package catalog provides access to the product snapshot: the stored copy
// of the external catalog and the client that fetches a fresh one.
package catalog

import (
	"context"

	"github.com/dkotenko/stock-sentry/internal/domain"
)

// Repository defines the interface for product snapshot access. The table
// holds exactly one snapshot; there is no row-level history.
type Repository interface {
	// FindAllProducts returns the stored snapshot in scrape order.
	FindAllProducts(ctx context.Context) ([]domain.Product, error)
	// ReplaceAllProducts swaps the whole snapshot for the given one,
	// even when it is empty.
	ReplaceAllProducts(ctx context.Context, products []domain.Product) error
}

// Fetcher retrieves the current product list from the external source.
type Fetcher interface {
	FetchCurrentProducts(ctx context.Context) ([]domain.Product, error)
}
