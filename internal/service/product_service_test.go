package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/internal/repository"
)

// fakeCache is an in-memory CatalogCache recording hits and invalidations.
type fakeCache struct {
	data    map[string][]byte
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
		f.deletes++
	}
	return nil
}

func TestCatalogOnlyVisibleAndCached(t *testing.T) {
	store := repository.NewMemoryStore()
	cache := newFakeCache()
	svc := NewProductService(store, cache, time.Minute, nil)
	ctx := context.Background()

	seedProduct(t, store, "visible", 10)
	hidden := &models.Product{Name: "hidden", Description: "d", Price: 5, Visible: false}
	require.NoError(t, store.CreateProduct(ctx, hidden))

	products, err := svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "visible", products[0].Name)

	// Second read comes from the cache even after a direct DB write.
	sneaky := &models.Product{Name: "sneaky", Description: "d", Price: 1, Visible: true}
	require.NoError(t, store.CreateProduct(ctx, sneaky))

	products, err = svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestProductWritesInvalidateCache(t *testing.T) {
	store := repository.NewMemoryStore()
	cache := newFakeCache()
	svc := NewProductService(store, cache, time.Minute, nil)
	ctx := context.Background()

	p := &models.Product{Name: "first", Description: "d", Price: 10, Visible: true}
	require.NoError(t, svc.Create(ctx, p))

	_, err := svc.Catalog(ctx)
	require.NoError(t, err)

	second := &models.Product{Name: "second", Description: "d", Price: 20, Visible: true}
	require.NoError(t, svc.Create(ctx, second))

	products, err := svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Positive(t, cache.deletes)
}

func TestGetHidesInvisibleFromCustomers(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewProductService(store, nil, 0, nil)
	ctx := context.Background()

	hidden := &models.Product{Name: "hidden", Description: "d", Price: 5, Visible: false}
	require.NoError(t, store.CreateProduct(ctx, hidden))

	_, err := svc.Get(ctx, hidden.ID, false)
	require.ErrorIs(t, err, repository.ErrNotFound)

	got, err := svc.Get(ctx, hidden.ID, true)
	require.NoError(t, err)
	require.Equal(t, "hidden", got.Name)
}
