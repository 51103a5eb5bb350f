package synonym

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// redisEntry is what gets SETEX'd under a cache key: the synonym set plus
// the writer's in-process version counter, so a reader can tell its own
// invalidations apart from a stale mirrored value.
type redisEntry struct {
	Synonyms []domain.WeightedSynonym `json:"synonyms"`
	Version  int64                    `json:"version"`
}

// RedisStore mirrors the ttlCache into Redis with native TTL, so a second
// process instance shares warm cache state instead of hammering the
// registry on every cold start.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to addr. Connectivity is not verified here;
// a dead or misconfigured Redis degrades every Get to a miss, which the
// orchestrator already treats as "fall through to the registry".
func NewRedisStore(addr string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// newRedisStoreFromClient lets tests point a RedisStore at a miniredis
// instance without going through NewRedisStore's network dial.
func newRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(term string) string {
	return "synonym:cache:" + term
}

// get returns the mirrored synonyms only if the stamped version still
// matches localVersion; a version mismatch means this process invalidated
// the term locally after the Redis entry was written, so it is treated
// exactly like a stale local entry: a miss.
func (s *RedisStore) get(ctx context.Context, term string, localVersion int64) ([]domain.WeightedSynonym, bool) {
	if s == nil {
		return nil, false
	}
	raw, err := s.client.Get(ctx, redisKey(term)).Result()
	if err != nil {
		return nil, false
	}
	var entry redisEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, false
	}
	if entry.Version != localVersion {
		return nil, false
	}
	return entry.Synonyms, true
}

// put mirrors term's synonyms with the writer's current version stamp.
// Failures are swallowed: Redis is a warm-cache optimization, never a
// source of truth.
func (s *RedisStore) put(ctx context.Context, term string, synonyms []domain.WeightedSynonym, version int64) {
	if s == nil {
		return
	}
	raw, err := json.Marshal(redisEntry{Synonyms: synonyms, Version: version})
	if err != nil {
		return
	}
	_ = s.client.Set(ctx, redisKey(term), raw, s.ttl).Err()
}

// invalidate deletes term's mirrored entry. A missing key is not an error.
func (s *RedisStore) invalidate(ctx context.Context, term string) {
	if s == nil {
		return
	}
	err := s.client.Del(ctx, redisKey(term)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return
	}
}
