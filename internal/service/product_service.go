package service

import (
	"context"
	"time"

	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/internal/repository"
	"github.com/opaline/storefront/pkg/logger"
	"github.com/opaline/storefront/pkg/metrics"
)

const catalogCacheKey = "catalog:visible"

// CatalogCache is the slice of the redis wrapper the product service
// needs; nil disables caching.
type CatalogCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type ProductService struct {
	store    repository.Store
	cache    CatalogCache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

func NewProductService(store repository.Store, cache CatalogCache, cacheTTL time.Duration, m *metrics.Metrics) *ProductService {
	return &ProductService{store: store, cache: cache, cacheTTL: cacheTTL, metrics: m}
}

// Catalog returns the visible products, served from cache when possible.
// Cache failures degrade to the database, they never fail the request.
func (s *ProductService) Catalog(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		var cached []models.Product
		hit, err := s.cache.GetJSON(ctx, catalogCacheKey, &cached)
		if err != nil {
			logger.Warn("catalog cache read failed", "error", err)
		} else if hit {
			if s.metrics != nil {
				s.metrics.CatalogCacheHits.Inc()
			}
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.CatalogCacheMisses.Inc()
		}
	}

	products, err := s.store.ListProducts(ctx, true)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, catalogCacheKey, products, s.cacheTTL); err != nil {
			logger.Warn("catalog cache write failed", "error", err)
		}
	}
	return products, nil
}

// Get returns one product. Hidden products are not visible to customers;
// admins see everything.
func (s *ProductService) Get(ctx context.Context, id int64, includeHidden bool) (*models.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Visible && !includeHidden {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, p *models.Product) error {
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) Update(ctx context.Context, p *models.Product) error {
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListAll returns every product including hidden ones, for the admin table.
func (s *ProductService) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx, false)
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		logger.Warn("catalog cache invalidation failed", "error", err)
	}
}
