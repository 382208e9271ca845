// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"trading_backend/internal/feature/trading/adapters"
	"trading_backend/internal/feature/trading/usecase"
	"trading_backend/internal/platform/cache"
)

// NewPortfolioReader creates the portfolio read model, wrapped with Redis
// caching when Redis is available. The returned cache is nil when running
// without Redis; usecases treat a nil cache as "no invalidation needed".
func NewPortfolioReader(rdb *redis.Client, db *gorm.DB, ttl time.Duration) (usecase.PortfolioReader, usecase.PortfolioCache) {
	reader := adapters.NewPortfolioGorm(db)
	if rdb == nil {
		return reader, nil
	}
	cached := cache.NewCachingPortfolioRepository(rdb, ttl, reader, "portfolio")
	return cached, cached
}
