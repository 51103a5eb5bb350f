package synonym

import (
	"context"
	"testing"
	"time"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

func TestTTLCacheGetMissThenPutThenHit(t *testing.T) {
	ctx := context.Background()
	c := newTTLCache(10, time.Hour)
	if _, ok := c.get(ctx, "Term"); ok {
		t.Error("expected a miss on an empty cache")
	}
	c.put(ctx, "Term", []domain.WeightedSynonym{{Term: "synoniem"}})
	got, ok := c.get(ctx, "term")
	if !ok {
		t.Fatal("expected a hit after put (normalized key)")
	}
	if len(got) != 1 || got[0].Term != "synoniem" {
		t.Errorf("unexpected cached value: %v", got)
	}
}

func TestTTLCacheExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	c := newTTLCache(10, time.Millisecond)
	c.put(ctx, "term", []domain.WeightedSynonym{{Term: "x"}})
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.get(ctx, "term"); ok {
		t.Error("expected entry to expire after ttl elapses")
	}
}

func TestTTLCacheEvictsOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	c := newTTLCache(2, time.Hour)
	c.put(ctx, "a", []domain.WeightedSynonym{{Term: "a"}})
	c.put(ctx, "b", []domain.WeightedSynonym{{Term: "b"}})
	c.put(ctx, "c", []domain.WeightedSynonym{{Term: "c"}})
	if _, ok := c.get(ctx, "a"); ok {
		t.Error("expected the oldest entry to be evicted")
	}
	if _, ok := c.get(ctx, "b"); !ok {
		t.Error("expected b to still be cached")
	}
	if _, ok := c.get(ctx, "c"); !ok {
		t.Error("expected c to still be cached")
	}
}

func TestTTLCacheInvalidateBumpsVersionAndRemovesEntry(t *testing.T) {
	ctx := context.Background()
	c := newTTLCache(10, time.Hour)
	c.put(ctx, "term", []domain.WeightedSynonym{{Term: "x"}})
	c.invalidate("term")
	if _, ok := c.get(ctx, "term"); ok {
		t.Error("expected invalidated entry to be a miss")
	}
}

func TestTTLCacheMetricsTrackHitsAndMisses(t *testing.T) {
	ctx := context.Background()
	c := newTTLCache(10, time.Hour)
	c.get(ctx, "missing")
	c.put(ctx, "term", []domain.WeightedSynonym{{Term: "x"}})
	c.get(ctx, "term")
	metrics := c.metrics()
	if metrics.Hits != 1 || metrics.Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %+v", metrics)
	}
	if metrics.HitRate != 0.5 {
		t.Errorf("expected hit rate 0.5, got %f", metrics.HitRate)
	}
}

func TestTTLCacheFallsThroughToRedisMirrorOnLocalMiss(t *testing.T) {
	ctx := context.Background()
	mr := newMiniredis(t)
	store := newRedisStoreFromClient(mr.client, time.Hour)

	c := newTTLCache(10, time.Hour)
	c.redis = store

	// Simulate a value another process instance already wrote at the
	// current (shared, since this is a single test process) version.
	store.put(ctx, "term", []domain.WeightedSynonym{{Term: "mirrored"}}, c.version)

	got, ok := c.get(ctx, "term")
	if !ok {
		t.Fatal("expected a hit from the redis mirror on local miss")
	}
	if len(got) != 1 || got[0].Term != "mirrored" {
		t.Errorf("unexpected value from redis mirror: %v", got)
	}
}

func TestTTLCacheRedisMirrorMissOnVersionMismatch(t *testing.T) {
	ctx := context.Background()
	mr := newMiniredis(t)
	store := newRedisStoreFromClient(mr.client, time.Hour)

	c := newTTLCache(10, time.Hour)
	c.redis = store

	store.put(ctx, "term", []domain.WeightedSynonym{{Term: "stale"}}, c.version)
	c.invalidate("term") // bumps c.version, also deletes the mirrored key
	store.put(ctx, "term", []domain.WeightedSynonym{{Term: "stale"}}, c.version-1)

	if _, ok := c.get(ctx, "term"); ok {
		t.Error("expected a version-mismatched redis entry to be treated as a miss")
	}
}
