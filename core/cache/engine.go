package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Loader loads a single key from upstream. found is false when upstream has no record for
// key; err is reserved for failures worth retrying.
type Loader[K comparable, V any] interface {
	Load(ctx context.Context, key K) (value V, found bool, err error)
}

// BatchLoader is implemented by loaders that can fetch many keys in one upstream call.
// Keys missing from the returned map are not found.
type BatchLoader[K comparable, V any] interface {
	LoadMany(ctx context.Context, keys []K) (map[K]V, error)
}

// LoaderFunc adapts a plain function to Loader.
type LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (V, bool, error)

// Load calls f.
func (f LoaderFunc[K, V]) Load(ctx context.Context, key K) (V, bool, error) {
	return f(ctx, key)
}

// Validator rejects a loaded value before it is cached. A rejected value is treated as not found.
type Validator[K comparable, V any] func(key K, value V) error

// Stats is a point-in-time view of an engine.
type Stats struct {
	Kind     string `json:"kind"`
	Entries  int    `json:"entries"`
	InFlight int    `json:"in_flight"`
}

// Engine resolves keys against a Store and loads misses through a Loader.
type Engine[K comparable, V any] struct {
	kind     string
	store    *Store[K, V]
	loader   Loader[K, V]
	batch    BatchLoader[K, V]
	validate Validator[K, V]
	flights  *flightGroup[K, V]
	cfg      Config
	logger   *zap.Logger
	metrics  *Metrics
}

// NewEngine creates an engine for one entity kind. When loader also implements BatchLoader,
// misses of a batch lookup are fetched with batched upstream calls.
func NewEngine[K comparable, V any](kind string, store *Store[K, V], loader Loader[K, V], cfg Config, logger *zap.Logger, metrics *Metrics) *Engine[K, V] {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine[K, V]{
		kind:    kind,
		store:   store,
		loader:  loader,
		flights: newFlightGroup[K, V](),
		cfg:     cfg.withDefaults(),
		logger:  logger.With(zap.String("kind", kind)),
		metrics: metrics,
	}
	if batch, ok := loader.(BatchLoader[K, V]); ok {
		e.batch = batch
	}

	if metrics != nil {
		store.onEvict = func() { metrics.evicted(kind) }
		metrics.trackEntries(kind, store.Size)
	}

	return e
}

// WithValidator sets the validator applied to every loaded value and returns e.
func (e *Engine[K, V]) WithValidator(v Validator[K, V]) *Engine[K, V] {
	e.validate = v
	return e
}

// Kind returns the entity kind this engine serves.
func (e *Engine[K, V]) Kind() string {
	return e.kind
}

// Invalidate drops the cached entry for key. It reports whether one was present.
// A load already in flight for key still releases its waiters but is not cached.
func (e *Engine[K, V]) Invalidate(key K) bool {
	var removed bool
	e.flights.invalidate(key, func() {
		removed = e.store.Invalidate(key)
	})
	return removed
}

// Clear drops every cached entry, including the outcomes of loads still in flight.
func (e *Engine[K, V]) Clear() {
	e.flights.invalidateAll(e.store.Clear)
}

// Stats returns the current entry and in-flight load counts.
func (e *Engine[K, V]) Stats() Stats {
	return Stats{
		Kind:     e.kind,
		Entries:  e.store.Size(),
		InFlight: e.flights.inFlight(),
	}
}

// Lookup resolves a single key. found is false for a miss, in which case value is the zero
// value. The returned error is non-nil only when ctx ends before the key resolves; the
// upstream load keeps running for the other waiters.
func (e *Engine[K, V]) Lookup(ctx context.Context, key K) (value V, found bool, err error) {
	var zeroKey K
	if key == zeroKey {
		return value, false, nil
	}

	if entry, ok := e.cached(key); ok {
		return entry.Value, entry.Found, nil
	}

	c, owner := e.flights.join(key)
	if owner {
		e.start(ctx, []K{key})
	} else {
		e.metrics.coalesced(e.kind, 1)
	}

	select {
	case <-c.done:
		return c.value, c.found, nil
	case <-ctx.Done():
		return value, false, ctx.Err()
	}
}

// LookupMany resolves keys and returns the values that were found. Duplicate keys are
// resolved once.
func (e *Engine[K, V]) LookupMany(ctx context.Context, keys []K) (map[K]V, error) {
	results := make(map[K]V, len(keys))
	err := e.Each(ctx, keys, func(key K, value V) {
		results[key] = value
	})
	return results, err
}

// Each resolves keys and calls fn once for every distinct key that is found. Cached values
// are delivered first, loaded values as their upstream loads complete, so the call order
// bears no relation to the order of keys. fn runs on the calling goroutine.
func (e *Engine[K, V]) Each(ctx context.Context, keys []K, fn func(K, V)) error {
	var zeroKey K
	seen := make(map[K]struct{}, len(keys))
	missing := make([]K, 0)

	for _, key := range keys {
		if key == zeroKey {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if entry, ok := e.cached(key); ok {
			if entry.Found {
				fn(key, entry.Value)
			}
			continue
		}
		missing = append(missing, key)
	}

	if len(missing) == 0 {
		return nil
	}

	ready := make(chan K, len(missing))
	calls, owned := e.flights.joinMany(missing, ready)
	e.metrics.coalesced(e.kind, len(missing)-len(owned))
	e.start(ctx, owned)

	for range calls {
		select {
		case key := <-ready:
			if c := calls[key]; c.found {
				fn(key, c.value)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// cached consults the store and records the lookup result.
func (e *Engine[K, V]) cached(key K) (Entry[V], bool) {
	entry, ok := e.store.Get(key)
	switch {
	case !ok:
		e.metrics.lookup(e.kind, resultMiss)
	case entry.Found:
		e.metrics.lookup(e.kind, resultHit)
	default:
		e.metrics.lookup(e.kind, resultNegative)
	}
	return entry, ok
}

// start runs the loads owned by the caller. Keys populated by a load that completed between
// the caller's store check and its join are settled from the store without an upstream call.
func (e *Engine[K, V]) start(ctx context.Context, owned []K) {
	pending := make([]K, 0, len(owned))
	for _, key := range owned {
		if entry, ok := e.store.Get(key); ok {
			e.flights.finish(key, entry.Value, entry.Found, nil)
			continue
		}
		pending = append(pending, key)
	}
	if len(pending) == 0 {
		return
	}

	// Loads outlive the caller: other lookups may be waiting on them.
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.FetchTimeout)
	go func() {
		defer cancel()
		e.load(loadCtx, pending)
	}()
}

func (e *Engine[K, V]) load(ctx context.Context, keys []K) {
	g := new(errgroup.Group)
	g.SetLimit(e.cfg.Parallelism)

	if e.batch != nil && len(keys) > 1 {
		for _, part := range chunk(keys, e.cfg.BatchSize) {
			g.Go(func() error {
				e.loadBatch(ctx, part)
				return nil
			})
		}
	} else {
		for _, key := range keys {
			g.Go(func() error {
				e.loadOne(ctx, key)
				return nil
			})
		}
	}

	_ = g.Wait()
}

func (e *Engine[K, V]) loadOne(ctx context.Context, key K) {
	defer e.recoverLoad([]K{key})

	var (
		value V
		found bool
	)
	start := time.Now()
	err := e.retry(ctx, func() error {
		var err error
		value, found, err = e.loader.Load(ctx, key)
		return err
	})
	e.metrics.observeFetch(e.kind, time.Since(start))

	if err != nil {
		e.logger.Warn("Upstream load failed", zap.Any("key", key), zap.Error(err))
		e.fail([]K{key})
		return
	}
	e.settle(key, value, found)
}

func (e *Engine[K, V]) loadBatch(ctx context.Context, keys []K) {
	defer e.recoverLoad(keys)

	var values map[K]V
	start := time.Now()
	err := e.retry(ctx, func() error {
		var err error
		values, err = e.batch.LoadMany(ctx, keys)
		return err
	})
	e.metrics.observeFetch(e.kind, time.Since(start))

	if err != nil {
		e.logger.Warn("Upstream batch load failed", zap.Int("keys", len(keys)), zap.Error(err))
		e.fail(keys)
		return
	}
	for _, key := range keys {
		value, found := values[key]
		e.settle(key, value, found)
	}
}

// settle caches the outcome of a load and releases its waiters.
func (e *Engine[K, V]) settle(key K, value V, found bool) {
	if found && e.validate != nil {
		if err := e.validate(key, value); err != nil {
			e.metrics.fetched(e.kind, fetchMalformed, 1)
			e.logger.Warn("Discarding malformed upstream record", zap.Any("key", key), zap.Error(err))
			var zero V
			value, found = zero, false
		}
	}

	if found {
		e.metrics.fetched(e.kind, fetchFound, 1)
		e.flights.finish(key, value, found, func() { e.store.Put(key, value) })
		return
	}
	e.metrics.fetched(e.kind, fetchNotFound, 1)
	e.flights.finish(key, value, found, func() { e.store.PutNegative(key) })
}

// fail caches keys as absent after their load gave up.
func (e *Engine[K, V]) fail(keys []K) {
	e.metrics.fetched(e.kind, fetchError, len(keys))
	var zero V
	for _, key := range keys {
		e.flights.finish(key, zero, false, func() { e.store.PutNegative(key) })
	}
}

// recoverLoad releases the waiters of keys when a loader panics.
func (e *Engine[K, V]) recoverLoad(keys []K) {
	r := recover()
	if r == nil {
		return
	}
	e.logger.Error("Upstream loader panicked", zap.Error(fmt.Errorf("%v", r)))
	var zero V
	for _, key := range keys {
		e.flights.finish(key, zero, false, nil)
	}
}

func (e *Engine[K, V]) retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.cfg.RetryInterval
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(e.cfg.MaxRetries)), ctx)
	return backoff.Retry(op, policy)
}

func chunk[K any](keys []K, size int) [][]K {
	parts := make([][]K, 0, (len(keys)+size-1)/size)
	for start := 0; start < len(keys); start += size {
		end := min(start+size, len(keys))
		parts = append(parts, keys[start:end])
	}
	return parts
}
