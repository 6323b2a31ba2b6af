package product

import (
	"context"

	"go.uber.org/zap"

	"ordersync-be/internal/logger"
)

// Products with stock at or below this show up in the low-stock count.
const lowStockThreshold = 5

// Lister fetches the authoritative product listing from the remote
// service.
type Lister interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

type Service interface {
	// List returns the cached listing, fetching from the remote service
	// on first use.
	List(ctx context.Context) ([]Product, error)
	// Refresh replaces the cache with the authoritative remote listing,
	// discarding any optimistic deductions.
	Refresh(ctx context.Context) error
	Stats(ctx context.Context) (DashboardStats, error)
	Cache() *Cache
}

type service struct {
	remote Lister
	cache  *Cache
}

func NewService(remote Lister, cache *Cache) Service {
	return &service{remote: remote, cache: cache}
}

func (s *service) List(ctx context.Context) ([]Product, error) {
	if s.cache.Len() == 0 {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return s.cache.Snapshot(), nil
}

func (s *service) Refresh(ctx context.Context) error {
	log := logger.FromCtx(ctx).With(zap.String("layer", "service"), zap.String("method", "Refresh"))

	products, err := s.remote.ListProducts(ctx)
	if err != nil {
		log.Warn("authoritative product refresh failed", zap.Error(err))
		return err
	}

	s.cache.Replace(products)
	log.Debug("product cache replaced", zap.Int("count", len(products)))
	return nil
}

func (s *service) Stats(ctx context.Context) (DashboardStats, error) {
	products, err := s.List(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	var stats DashboardStats
	stats.TotalProducts = len(products)
	for _, p := range products {
		stats.TotalValue += p.Price * float64(p.Stock)
		if p.Stock <= lowStockThreshold {
			stats.LowStockCount++
		}
		stats.AveragePrice += p.Price
	}
	if stats.TotalProducts > 0 {
		stats.AveragePrice /= float64(stats.TotalProducts)
	}
	return stats, nil
}

func (s *service) Cache() *Cache {
	return s.cache
}
