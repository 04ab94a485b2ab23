package cache

import "strings"

// Resolver deduplicates batch key lists and realigns batch results with them.
type Resolver[K comparable] struct {
	// Normalize maps a raw key onto its canonical form. Nil leaves keys unchanged.
	Normalize func(K) K
}

// TrimResolver returns a Resolver for string keys that ignores surrounding whitespace.
func TrimResolver() Resolver[string] {
	return Resolver[string]{Normalize: strings.TrimSpace}
}

func (r Resolver[K]) normalize(key K) K {
	if r.Normalize == nil {
		return key
	}
	return r.Normalize(key)
}

// Dedupe returns the unique normalized keys in first-occurrence order, along with the
// positions in keys at which each of them appeared.
func (r Resolver[K]) Dedupe(keys []K) ([]K, map[K][]int) {
	unique := make([]K, 0, len(keys))
	positions := make(map[K][]int, len(keys))

	for i, raw := range keys {
		key := r.normalize(raw)
		if _, seen := positions[key]; !seen {
			unique = append(unique, key)
		}
		positions[key] = append(positions[key], i)
	}

	return unique, positions
}

// Reorder builds a slice aligned 1:1 with original, taking each value from results and
// substituting def for keys that have none. Original keys are normalized with r first.
func Reorder[K comparable, V any](r Resolver[K], results map[K]V, original []K, def V) []V {
	out := make([]V, len(original))
	for i, raw := range original {
		if v, ok := results[r.normalize(raw)]; ok {
			out[i] = v
		} else {
			out[i] = def
		}
	}
	return out
}
