// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"weeklist_backend/internal/feature/weeklist/adapters"
	"weeklist_backend/internal/feature/weeklist/usecase"
	"weeklist_backend/internal/platform/cache"
)

// feedCacheTTL is deliberately short: the feed may be slightly stale but the
// quota and state gates always read through to the store.
const feedCacheTTL = 30 * time.Second

// NewWeekListRepository creates a WeekListRepository implementation.
// If Redis is available, the MySQL repository is wrapped with a feed cache.
// Otherwise, the plain MySQL repository is returned.
func NewWeekListRepository(rdb *redis.Client, db *gorm.DB) usecase.WeekListRepository {
	repo := adapters.NewWeekListMySQL(db)
	if rdb != nil {
		return cache.NewCachingWeekListRepository(rdb, feedCacheTTL, repo, "weeklists")
	}
	return repo
}
