// Package cache implements the paginated-query cache over Redis: key
// derivation from a query signature, TTL'd page results, and pattern-based
// bulk invalidation via an incremental cursor scan.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/acervo/bookshelf/internal/models"
)

const (
	// TTL bounds how stale a cached page can get if an invalidation is ever
	// missed.
	TTL = time.Hour

	// KeyPattern matches every cached book page.
	KeyPattern = "books:*"

	// scanBatch bounds how many keys one SCAN round trip may return.
	scanBatch = 200
)

// ErrMiss reports an absent or expired cache entry.
var ErrMiss = errors.New("cache miss")

// QueryCache stores serialized page results keyed by query signature.
type QueryCache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *QueryCache {
	return &QueryCache{rdb: rdb}
}

// Key derives the cache key for a (page, limit, term) query signature.
// Identical signatures always map to the same key.
func Key(page, limit int, term string) string {
	return fmt.Sprintf("books:page:%d:limit:%d:title:%s", page, limit, term)
}

// Get returns the cached page for key, or ErrMiss when the entry is absent or
// past its TTL. Expiry is enforced by Redis itself.
func (c *QueryCache) Get(ctx context.Context, key string) (*models.PageResult, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var page models.PageResult
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &page, nil
}

// Set stores a page result under key with the cache TTL.
func (c *QueryCache) Set(ctx context.Context, key string, page *models.PageResult) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, key, raw, TTL).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// ScanMatching is a restartable iterator over all keys matching pattern.
// Each Next call costs one SCAN round trip and yields at most one bounded
// batch; the iteration is finite per underlying key space.
type ScanMatching struct {
	rdb     *redis.Client
	pattern string
	cursor  uint64
	started bool
}

// NewScan starts a scan over keys matching pattern from the zero cursor.
func (c *QueryCache) NewScan(pattern string) *ScanMatching {
	return &ScanMatching{rdb: c.rdb, pattern: pattern}
}

// Next fetches the next batch of matching keys. Done is true once the cursor
// has wrapped back to zero; after that, Next returns no further keys.
func (s *ScanMatching) Next(ctx context.Context) (keys []string, done bool, err error) {
	if s.started && s.cursor == 0 {
		return nil, true, nil
	}
	keys, cursor, err := s.rdb.Scan(ctx, s.cursor, s.pattern, scanBatch).Result()
	if err != nil {
		return nil, false, fmt.Errorf("cache scan: %w", err)
	}
	s.started = true
	s.cursor = cursor
	return keys, cursor == 0, nil
}

// DeleteAllMatching removes every key matching pattern. The key space is
// unbounded (one entry per distinct query signature ever seen), so this walks
// the full SCAN cursor cycle, deleting batch by batch, rather than issuing a
// single DEL on the pattern.
func (c *QueryCache) DeleteAllMatching(ctx context.Context, pattern string) (int64, error) {
	scan := c.NewScan(pattern)
	var deleted int64
	for {
		keys, done, err := scan.Next(ctx)
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("cache del: %w", err)
			}
			deleted += n
		}
		if done {
			return deleted, nil
		}
	}
}
