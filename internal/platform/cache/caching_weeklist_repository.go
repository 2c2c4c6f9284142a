// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"weeklist_backend/internal/feature/weeklist/domain/entity"
	"weeklist_backend/internal/feature/weeklist/usecase"
)

// CachingWeekListRepository decorates a WeekListRepository with Redis caching
// of the feed query. It implements the decorator pattern, transparently
// adding caching without modifying the underlying repository.
//
// Only FindFeed is cached: it is the one cross-user query and the one the
// business rules allow to be slightly stale. Gate predicates and
// fetch-then-mutate paths always hit the underlying store.
type CachingWeekListRepository struct {
	inner     usecase.WeekListRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// Compile-time check to ensure the decorator satisfies the repository interface.
var _ usecase.WeekListRepository = (*CachingWeekListRepository)(nil)

// NewCachingWeekListRepository decorates a WeekListRepository with Redis caching.
// If ttl is 0, it defaults to 30 seconds. If namespace is empty, it uses "weeklists".
func NewCachingWeekListRepository(rdb *redis.Client, ttl time.Duration, inner usecase.WeekListRepository, namespace string) *CachingWeekListRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if namespace == "" {
		namespace = "weeklists"
	}
	return &CachingWeekListRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FindFeed retrieves the feed, checking cache first then falling back to the
// database. Cached entries are re-filtered by deadline so a list whose
// endDate passed moments after caching never reaches a client.
func (c *CachingWeekListRepository) FindFeed(ctx context.Context, excludeOwnerID uint) ([]entity.WeekList, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindFeed(ctx, excludeOwnerID)
	}

	key := c.feedKey(excludeOwnerID)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.WeekList
		if err := json.Unmarshal(b, &out); err == nil {
			return filterNotExpired(out, time.Now()), nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.FindFeed(ctx, excludeOwnerID)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Create inserts a week list and invalidates cached feeds.
func (c *CachingWeekListRepository) Create(ctx context.Context, list *entity.WeekList) error {
	if err := c.inner.Create(ctx, list); err != nil {
		return err
	}
	c.invalidateFeeds(ctx)
	return nil
}

// Save persists a week list and invalidates cached feeds.
func (c *CachingWeekListRepository) Save(ctx context.Context, list *entity.WeekList) error {
	if err := c.inner.Save(ctx, list); err != nil {
		return err
	}
	c.invalidateFeeds(ctx)
	return nil
}

// Delete removes a week list and invalidates cached feeds.
func (c *CachingWeekListRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidateFeeds(ctx)
	return nil
}

// FindByID delegates to the underlying repository.
// Gate predicates must always see current store state.
func (c *CachingWeekListRepository) FindByID(ctx context.Context, id uint) (*entity.WeekList, error) {
	return c.inner.FindByID(ctx, id)
}

// FindByIDAndOwner delegates to the underlying repository.
func (c *CachingWeekListRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*entity.WeekList, error) {
	return c.inner.FindByIDAndOwner(ctx, id, ownerID)
}

// FindByOwner delegates to the underlying repository.
func (c *CachingWeekListRepository) FindByOwner(ctx context.Context, ownerID uint) ([]entity.WeekList, error) {
	return c.inner.FindByOwner(ctx, ownerID)
}

// CountActive delegates to the underlying repository.
// The quota gate must count against current state, never a cache.
func (c *CachingWeekListRepository) CountActive(ctx context.Context, ownerID uint) (int64, error) {
	return c.inner.CountActive(ctx, ownerID)
}

// feedKey generates the cache key for a requester's feed.
func (c *CachingWeekListRepository) feedKey(excludeOwnerID uint) string {
	return fmt.Sprintf("%s:feed:%d", c.namespace, excludeOwnerID)
}

// invalidateFeeds deletes all cached feed entries. Best effort: a failed
// invalidation only extends staleness up to the TTL.
func (c *CachingWeekListRepository) invalidateFeeds(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.namespace+":feed:*")
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingWeekListRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// filterNotExpired drops lists whose deadline has passed.
func filterNotExpired(lists []entity.WeekList, now time.Time) []entity.WeekList {
	out := make([]entity.WeekList, 0, len(lists))
	for _, l := range lists {
		if l.EndDate.After(now) {
			out = append(out, l)
		}
	}
	return out
}
