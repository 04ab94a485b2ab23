package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(capacity, shards int, ttl, negativeTTL time.Duration) *Store[string, string] {
	return NewStore[string, string](Config{
		Capacity:    capacity,
		Shards:      shards,
		TTL:         ttl,
		NegativeTTL: negativeTTL,
	}, StringHasher)
}

func TestStore_GetPutInvalidate(t *testing.T) {
	s := newTestStore(10, 2, 0, time.Minute)

	_, ok := s.Get("7")
	assert.False(t, ok)

	s.Put("7", "Chateau X")
	entry, ok := s.Get("7")
	require.True(t, ok)
	assert.True(t, entry.Found)
	assert.Equal(t, "Chateau X", entry.Value)
	assert.Equal(t, 1, s.Size())

	assert.True(t, s.Invalidate("7"))
	assert.False(t, s.Invalidate("7"))
	_, ok = s.Get("7")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Size())
}

func TestStore_PutIsIdempotent(t *testing.T) {
	s := newTestStore(10, 1, 0, 0)

	s.Put("7", "v")
	first, _ := s.Get("7")
	s.Put("7", "v")
	second, _ := s.Get("7")

	assert.Equal(t, 1, s.Size())
	assert.Equal(t, first, second)
}

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s := newTestStore(2, 1, 0, 0)
	evictions := 0
	s.onEvict = func() { evictions++ }

	s.Put("a", "1")
	s.Put("b", "2")
	_, _ = s.Get("a") // b is now the oldest
	s.Put("c", "3")

	assert.Equal(t, 2, s.Size())
	assert.Equal(t, 1, evictions)

	_, ok := s.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = s.Get("a")
	assert.True(t, ok)
	_, ok = s.Get("c")
	assert.True(t, ok)
}

func TestStore_ReplacingDoesNotEvict(t *testing.T) {
	s := newTestStore(2, 1, 0, 0)

	s.Put("a", "1")
	s.Put("b", "2")
	s.Put("a", "1b")

	assert.Equal(t, 2, s.Size())
	entry, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1b", entry.Value)
}

func TestStore_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestStore(10, 1, time.Minute, 10*time.Second)
	s.now = func() time.Time { return now }

	s.Put("7", "v")
	s.PutNegative("999")

	entry, ok := s.Get("999")
	require.True(t, ok)
	assert.False(t, entry.Found)

	now = now.Add(30 * time.Second)
	_, ok = s.Get("999")
	assert.False(t, ok, "negative entry should expire after NegativeTTL")
	_, ok = s.Get("7")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = s.Get("7")
	assert.False(t, ok, "entry should expire after TTL")
	assert.Equal(t, 0, s.Size())
}

func TestStore_NegativeCachingDisabled(t *testing.T) {
	s := newTestStore(10, 1, 0, 0)

	s.Put("7", "v")
	s.PutNegative("7")

	_, ok := s.Get("7")
	assert.False(t, ok, "PutNegative without a negative TTL should drop the stale entry")
	assert.Equal(t, 0, s.Size())
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(10, 4, 0, 0)
	for _, k := range []string{"1", "2", "3", "4", "5"} {
		s.Put(k, k)
	}
	require.Equal(t, 5, s.Size())

	s.Clear()
	assert.Equal(t, 0, s.Size())
}

func TestStore_RemovalsAreNotEvictions(t *testing.T) {
	s := newTestStore(2, 1, 0, time.Minute)
	evictions := 0
	s.onEvict = func() { evictions++ }

	s.Put("a", "1")
	s.PutNegative("b")
	s.Invalidate("a")
	s.Clear()
	assert.Equal(t, 0, evictions)

	s.Put("a", "1")
	s.Put("b", "2")
	s.Put("c", "3")
	assert.Equal(t, 1, evictions)
	assert.Equal(t, 2, s.Size())
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{Capacity: 3, Shards: 8, MaxRetries: -1}.withDefaults()

	assert.Equal(t, 3, cfg.Shards, "shards are capped at capacity")
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 8, cfg.Parallelism)
	assert.Equal(t, 500, cfg.BatchSize)
}
