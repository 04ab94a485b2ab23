package cache

import "context"

// Coordinator serves the N-key entry points on top of an Engine.
type Coordinator[K comparable, V any] struct {
	engine   *Engine[K, V]
	resolver Resolver[K]
}

// NewCoordinator creates a Coordinator resolving keys through engine.
func NewCoordinator[K comparable, V any](engine *Engine[K, V], resolver Resolver[K]) *Coordinator[K, V] {
	return &Coordinator[K, V]{engine: engine, resolver: resolver}
}

// Engine returns the engine backing c.
func (c *Coordinator[K, V]) Engine() *Engine[K, V] {
	return c.engine
}

// Lookup resolves a single normalized key.
func (c *Coordinator[K, V]) Lookup(ctx context.Context, key K) (V, bool, error) {
	return c.engine.Lookup(ctx, c.resolver.normalize(key))
}

// Resolve looks up the distinct normalized keys once and returns the hits keyed by
// normalized key. Callers use it when they reorder or combine results themselves.
func (c *Coordinator[K, V]) Resolve(ctx context.Context, keys []K) (map[K]V, error) {
	unique, _ := c.resolver.Dedupe(keys)
	return c.engine.LookupMany(ctx, unique)
}

// Ordered returns one value per input key, in input order and duplicates included, with
// def in place of every miss.
func (c *Coordinator[K, V]) Ordered(ctx context.Context, keys []K, def V) ([]V, error) {
	results, err := c.Resolve(ctx, keys)
	if err != nil {
		return nil, err
	}
	return Reorder(c.resolver, results, keys, def), nil
}

// Unordered returns the values of the distinct keys that resolved, in completion order.
// Misses are omitted and a key repeated in the input contributes once.
func (c *Coordinator[K, V]) Unordered(ctx context.Context, keys []K) ([]V, error) {
	unique, _ := c.resolver.Dedupe(keys)

	out := make([]V, 0, len(unique))
	err := c.engine.Each(ctx, unique, func(_ K, v V) {
		out = append(out, v)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Flatten resolves keys whose values are lists and concatenates the lists in input-key
// order. Misses contribute nothing.
func Flatten[K comparable, E any](ctx context.Context, c *Coordinator[K, []E], keys []K) ([]E, error) {
	lists, err := c.Ordered(ctx, keys, nil)
	if err != nil {
		return nil, err
	}
	return Concat(lists), nil
}

// Concat joins lists into one slice, never returning nil.
func Concat[E any](lists [][]E) []E {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	out := make([]E, 0, total)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
