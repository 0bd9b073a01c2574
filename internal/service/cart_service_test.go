package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/internal/repository"
)

func seedProduct(t *testing.T, store repository.Store, name string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Description: name, Price: price, Visible: true}
	require.NoError(t, store.CreateProduct(context.Background(), p))
	return p
}

func TestCartAddIncrementsExistingRow(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewCartService(store)
	ctx := context.Background()
	p := seedProduct(t, store, "candle", 12.50)

	require.NoError(t, svc.Add(ctx, 1, p.ID, 1))
	require.NoError(t, svc.Add(ctx, 1, p.ID, 1))

	lines, total, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)
	require.InDelta(t, 25.0, total, 1e-9)
}

func TestCartAddHiddenProductRejected(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewCartService(store)
	ctx := context.Background()
	p := &models.Product{Name: "secret", Description: "d", Price: 5, Visible: false}
	require.NoError(t, store.CreateProduct(ctx, p))

	err := svc.Add(ctx, 1, p.ID, 1)
	require.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCartUpdateQuantityZeroDeletesRow(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewCartService(store)
	ctx := context.Background()
	p := seedProduct(t, store, "soap", 4.00)

	require.NoError(t, svc.Add(ctx, 1, p.ID, 3))
	lines, _, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	require.NoError(t, svc.UpdateQuantity(ctx, 1, lines[0].ID, 0))

	lines, total, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, lines)
	require.Zero(t, total)
}

func TestCartOwnershipEnforced(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewCartService(store)
	ctx := context.Background()
	p := seedProduct(t, store, "mug", 9.99)

	require.NoError(t, svc.Add(ctx, 1, p.ID, 1))
	lines, _, err := svc.List(ctx, 1)
	require.NoError(t, err)

	// User 2 can neither edit nor remove user 1's row.
	require.ErrorIs(t, svc.UpdateQuantity(ctx, 2, lines[0].ID, 5), ErrNotOwner)
	require.ErrorIs(t, svc.Remove(ctx, 2, lines[0].ID), ErrNotOwner)

	lines, _, err = svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 1, lines[0].Quantity)
}

func TestCartCountSumsQuantities(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewCartService(store)
	ctx := context.Background()
	a := seedProduct(t, store, "a", 1)
	b := seedProduct(t, store, "b", 2)

	require.NoError(t, svc.Add(ctx, 7, a.ID, 2))
	require.NoError(t, svc.Add(ctx, 7, b.ID, 3))

	n, err := svc.Count(ctx, 7)
	require.NoError(t, err)
	require.EqualValues(t, 5, n)
}
