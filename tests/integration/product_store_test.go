//go:build integration

package integration

import (
	"context"
	"testing"

	catalogpostgres "github.com/dkotenko/stock-sentry/internal/catalog/postgres"
	"github.com/dkotenko/stock-sentry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductStore_ReplaceAndRead(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := catalogpostgres.NewRepository(testDB)

	snapshot := []domain.Product{
		{Name: "Widget", Availability: domain.AvailabilityInStock, Link: "https://shop.example/widget"},
		{Name: "Gadget", Availability: domain.AvailabilityOutOfStock, Link: "https://shop.example/gadget"},
		{Name: "Gizmo", Availability: domain.AvailabilityUnknown, Link: "https://shop.example/gizmo"},
	}
	require.NoError(t, repo.ReplaceAllProducts(ctx, snapshot))

	stored, err := repo.FindAllProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot, stored)
}

func TestProductStore_ReplacePreservesOrder(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := catalogpostgres.NewRepository(testDB)

	first := []domain.Product{
		{Name: "B", Availability: domain.AvailabilityInStock, Link: "https://shop.example/b"},
		{Name: "A", Availability: domain.AvailabilityInStock, Link: "https://shop.example/a"},
	}
	require.NoError(t, repo.ReplaceAllProducts(ctx, first))

	stored, err := repo.FindAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "B", stored[0].Name)
	assert.Equal(t, "A", stored[1].Name)
}

func TestProductStore_EmptySnapshotReplaces(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := catalogpostgres.NewRepository(testDB)

	require.NoError(t, repo.ReplaceAllProducts(ctx, []domain.Product{
		{Name: "Widget", Availability: domain.AvailabilityInStock, Link: "https://shop.example/widget"},
	}))
	require.NoError(t, repo.ReplaceAllProducts(ctx, nil))

	stored, err := repo.FindAllProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
