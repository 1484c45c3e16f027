// Package postgres provides the PostgreSQL implementation of the catalog repository.
package postgres

import (
	"context"
	"fmt"

	"github.com/dkotenko/stock-sentry/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements catalog.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// FindAllProducts returns the stored snapshot in its original scrape order.
func (r *Repository) FindAllProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT name, available, link FROM products ORDER BY position`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var name, link string
		var available *bool
		if err := rows.Scan(&name, &available, &link); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, domain.Product{
			Name:         name,
			Availability: domain.AvailabilityFromBool(available),
			Link:         link,
		})
	}

	return products, nil
}

// ReplaceAllProducts swaps the stored snapshot for the given one inside a
// single transaction, so concurrent readers never observe the table
// half-replaced. An empty snapshot still replaces.
func (r *Repository) ReplaceAllProducts(ctx context.Context, products []domain.Product) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}

	insertQuery := `INSERT INTO products (position, name, available, link) VALUES ($1, $2, $3, $4)`
	for i, p := range products {
		if _, err := tx.Exec(ctx, insertQuery, i, p.Name, p.Availability.Bool(), p.Link); err != nil {
			return fmt.Errorf("insert product %s: %w", p.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
