package cache

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Entry is an immutable snapshot stored under a key.
// Found is false for a negative entry, i.e. a key the upstream reported as absent.
type Entry[V any] struct {
	Value   V
	Found   bool
	expires time.Time
}

func (e *Entry[V]) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// Hasher maps a key onto a shard.
type Hasher[K comparable] func(K) uint64

// StringHasher hashes string keys with xxhash.
func StringHasher(key string) uint64 {
	return xxhash.Sum64String(key)
}

// Store is a sharded LRU of immutable entries.
// Each shard has its own lock so operations on unrelated keys do not contend.
type Store[K comparable, V any] struct {
	shards      []*shard[K, V]
	hash        Hasher[K]
	ttl         time.Duration
	negativeTTL time.Duration
	now         func() time.Time

	// onEvict is called outside the shard lock for every capacity eviction.
	onEvict func()
}

type shard[K comparable, V any] struct {
	mu  sync.Mutex
	lru *simplelru.LRU[K, *Entry[V]]
}

// NewStore creates a store sized by cfg. Capacity is split evenly across shards,
// rounding up, so the effective bound is at most Shards-1 entries above Capacity.
func NewStore[K comparable, V any](cfg Config, hash Hasher[K]) *Store[K, V] {
	cfg = cfg.withDefaults()

	perShard := (cfg.Capacity + cfg.Shards - 1) / cfg.Shards
	shards := make([]*shard[K, V], cfg.Shards)
	for i := range shards {
		// Evictions are counted from Add so explicit removals are not reported.
		lru, err := simplelru.NewLRU[K, *Entry[V]](perShard, nil)
		if err != nil {
			panic(err) // perShard is at least 1 after withDefaults
		}
		shards[i] = &shard[K, V]{lru: lru}
	}

	return &Store[K, V]{
		shards:      shards,
		hash:        hash,
		ttl:         cfg.TTL,
		negativeTTL: cfg.NegativeTTL,
		now:         time.Now,
	}
}

func (s *Store[K, V]) shardFor(key K) *shard[K, V] {
	return s.shards[s.hash(key)%uint64(len(s.shards))]
}

// Get returns the entry for key. Expired entries are dropped and reported as absent.
func (s *Store[K, V]) Get(key K) (Entry[V], bool) {
	sh := s.shardFor(key)
	now := s.now()

	sh.mu.Lock()
	defer sh.mu.Unlock()

	entry, ok := sh.lru.Get(key)
	if !ok {
		return Entry[V]{}, false
	}
	if entry.expired(now) {
		sh.lru.Remove(key)
		return Entry[V]{}, false
	}
	return *entry, true
}

// Put stores value under key, replacing any previous entry.
func (s *Store[K, V]) Put(key K, value V) {
	entry := &Entry[V]{Value: value, Found: true}
	if s.ttl > 0 {
		entry.expires = s.now().Add(s.ttl)
	}
	s.set(key, entry)
}

// PutNegative records key as known absent. With negative caching disabled it only
// drops whatever was cached for key.
func (s *Store[K, V]) PutNegative(key K) {
	if s.negativeTTL <= 0 {
		s.Invalidate(key)
		return
	}
	s.set(key, &Entry[V]{expires: s.now().Add(s.negativeTTL)})
}

func (s *Store[K, V]) set(key K, entry *Entry[V]) {
	sh := s.shardFor(key)

	sh.mu.Lock()
	evicted := sh.lru.Add(key, entry)
	sh.mu.Unlock()

	if evicted && s.onEvict != nil {
		s.onEvict()
	}
}

// Invalidate removes key. It reports whether an entry was present.
func (s *Store[K, V]) Invalidate(key K) bool {
	sh := s.shardFor(key)

	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.lru.Remove(key)
}

// Size returns the number of entries, negative and not yet collected expired ones included.
func (s *Store[K, V]) Size() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		total += sh.lru.Len()
		sh.mu.Unlock()
	}
	return total
}

// Clear drops every entry.
func (s *Store[K, V]) Clear() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.lru.Purge()
		sh.mu.Unlock()
	}
}
