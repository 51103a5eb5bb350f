package synonym

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

type cacheEntry struct {
	term      string
	synonyms  []domain.WeightedSynonym
	storedAt  time.Time
	version   int64
	listElem  *list.Element
}

// ttlCache is the insertion-ordered, version-stamped, size-bounded cache
// fronting the registry. All state is guarded by mu, which also protects
// invalidation callbacks: callbacks registered with the registry must
// therefore be non-blocking and must not re-enter the orchestrator for the
// same key.
type ttlCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   *list.List
	maxSize int
	ttl     time.Duration
	version int64

	redis *RedisStore

	hits   int64
	misses int64
}

func newTTLCache(maxSize int, ttl time.Duration) *ttlCache {
	return &ttlCache{
		entries: make(map[string]*cacheEntry),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// get returns a cached entry if present, version-current, and unexpired;
// it moves the entry to the back (LRU reorder) and removes stale entries
// on access. A local miss falls through to the Redis mirror, if one is
// configured, before being reported as a true miss.
func (c *ttlCache) get(ctx context.Context, term string) ([]domain.WeightedSynonym, bool) {
	key := normalize(term)
	c.mu.Lock()

	entry, ok := c.entries[key]
	if ok && entry.version == c.version && time.Since(entry.storedAt) < c.ttl {
		c.order.MoveToBack(entry.listElem)
		c.hits++
		c.mu.Unlock()
		return entry.synonyms, true
	}
	if ok {
		c.removeLocked(key)
	}
	version := c.version
	redisStore := c.redis
	c.mu.Unlock()

	if synonyms, ok := redisStore.get(ctx, key, version); ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return synonyms, true
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	return nil, false
}

// put inserts or replaces a local entry, evicting the oldest when the
// cache is at capacity, and mirrors the write into Redis.
func (c *ttlCache) put(ctx context.Context, term string, synonyms []domain.WeightedSynonym) {
	key := normalize(term)
	c.mu.Lock()

	if existing, ok := c.entries[key]; ok {
		c.order.Remove(existing.listElem)
		delete(c.entries, key)
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		oldest := c.order.Front()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(string))
		}
	}

	elem := c.order.PushBack(key)
	c.entries[key] = &cacheEntry{
		term:     key,
		synonyms: synonyms,
		storedAt: time.Now(),
		version:  c.version,
		listElem: elem,
	}
	version := c.version
	redisStore := c.redis
	c.mu.Unlock()

	redisStore.put(ctx, key, synonyms, version)
}

// invalidate bumps the process-wide version, deletes the specific local
// entry for term if present, and deletes its Redis mirror so a reader in
// another process does not read the stale value before it expires.
func (c *ttlCache) invalidate(term string) {
	key := normalize(term)
	c.mu.Lock()
	c.version++
	c.removeLocked(key)
	redisStore := c.redis
	c.mu.Unlock()

	redisStore.invalidate(context.Background(), key)
}

func (c *ttlCache) removeLocked(key string) {
	if entry, ok := c.entries[key]; ok {
		c.order.Remove(entry.listElem)
		delete(c.entries, key)
	}
}

// CacheMetrics is the snapshot exposed to operators.
type CacheMetrics struct {
	Size    int
	Hits    int64
	Misses  int64
	HitRate float64
	MaxSize int
	TTLSecs float64
}

func (c *ttlCache) metrics() CacheMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return CacheMetrics{
		Size:    len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
		MaxSize: c.maxSize,
		TTLSecs: c.ttl.Seconds(),
	}
}
