package cache

import "sync"

// call is a single upstream load that any number of lookups can wait on.
// value and found are written once, before done is closed and before any subscriber is
// notified.
type call[K comparable, V any] struct {
	done    chan struct{}
	value   V
	found   bool
	waiters int

	// stale is set when the key is invalidated while the load is in flight.
	stale bool
	// subs receive the key once the load completes. Each is buffered for every key it
	// subscribed to, so notifying never blocks.
	subs []chan<- K
}

// flightGroup tracks the loads currently in flight, at most one per key.
type flightGroup[K comparable, V any] struct {
	mu    sync.Mutex
	calls map[K]*call[K, V]
}

func newFlightGroup[K comparable, V any]() *flightGroup[K, V] {
	return &flightGroup[K, V]{calls: make(map[K]*call[K, V])}
}

// join attaches to the load in flight for key, registering a new one when there is none.
// owner reports whether the caller registered it and is therefore responsible for running it.
func (g *flightGroup[K, V]) join(key K) (c *call[K, V], owner bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.joinLocked(key)
}

// joinMany is join for a set of distinct keys. owned lists the keys the caller must load.
// notify receives every key of keys as its load completes and must have room for all of them.
func (g *flightGroup[K, V]) joinMany(keys []K, notify chan<- K) (calls map[K]*call[K, V], owned []K) {
	calls = make(map[K]*call[K, V], len(keys))

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, key := range keys {
		c, owner := g.joinLocked(key)
		c.subs = append(c.subs, notify)
		calls[key] = c
		if owner {
			owned = append(owned, key)
		}
	}
	return calls, owned
}

func (g *flightGroup[K, V]) joinLocked(key K) (*call[K, V], bool) {
	if c, ok := g.calls[key]; ok {
		c.waiters++
		return c, false
	}
	c := &call[K, V]{done: make(chan struct{}), waiters: 1}
	g.calls[key] = c
	return c, true
}

// finish publishes the outcome of the load for key and releases every waiter.
// store, when not nil, caches the outcome under the group lock and is skipped if key was
// invalidated after the load started. Finishing a key with no load in flight is a no-op.
func (g *flightGroup[K, V]) finish(key K, value V, found bool, store func()) {
	g.mu.Lock()
	c, ok := g.calls[key]
	if ok {
		delete(g.calls, key)
		if store != nil && !c.stale {
			store()
		}
	}
	g.mu.Unlock()

	if !ok {
		return
	}
	c.value, c.found = value, found
	close(c.done)
	for _, sub := range c.subs {
		sub <- key
	}
}

// invalidate marks the load in flight for key as stale so its outcome is not cached.
// remove runs under the group lock, ordering it against any concurrent finish.
func (g *flightGroup[K, V]) invalidate(key K, remove func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.calls[key]; ok {
		c.stale = true
	}
	remove()
}

// invalidateAll is invalidate for every load in flight.
func (g *flightGroup[K, V]) invalidateAll(remove func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, c := range g.calls {
		c.stale = true
	}
	remove()
}

// inFlight returns the number of loads currently running.
func (g *flightGroup[K, V]) inFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// waiters returns how many lookups are attached to the load for key.
func (g *flightGroup[K, V]) waiters(key K) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.calls[key]; ok {
		return c.waiters
	}
	return 0
}
