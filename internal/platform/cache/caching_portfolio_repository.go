// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trading_backend/internal/feature/trading/usecase"
)

// CachingPortfolioRepository decorates a PortfolioReader with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying reader. The ledger itself is never read through
// this cache, only the snapshot read model; trades and valuation
// recalculation invalidate affected shareholders through Invalidate.
type CachingPortfolioRepository struct {
	inner     usecase.PortfolioReader
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.PortfolioReader = (*CachingPortfolioRepository)(nil)
var _ usecase.PortfolioCache = (*CachingPortfolioRepository)(nil)

// NewCachingPortfolioRepository decorates a PortfolioReader with Redis caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "portfolio".
func NewCachingPortfolioRepository(rdb *redis.Client, ttl time.Duration, inner usecase.PortfolioReader, namespace string) *CachingPortfolioRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "portfolio"
	}
	return &CachingPortfolioRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Snapshot retrieves a portfolio snapshot, checking cache first then falling
// back to the database.
func (c *CachingPortfolioRepository) Snapshot(ctx context.Context, shareholderID uint) (*usecase.PortfolioSnapshot, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Snapshot(ctx, shareholderID)
	}

	key := c.cacheKey(shareholderID)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out usecase.PortfolioSnapshot
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.Snapshot(ctx, shareholderID)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Invalidate drops the cached snapshot for one shareholder.
func (c *CachingPortfolioRepository) Invalidate(ctx context.Context, shareholderID uint) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.cacheKey(shareholderID)).Err()
}

// cacheKey generates the cache key for one shareholder's snapshot.
func (c *CachingPortfolioRepository) cacheKey(shareholderID uint) string {
	return fmt.Sprintf("%s:%d", c.namespace, shareholderID)
}
