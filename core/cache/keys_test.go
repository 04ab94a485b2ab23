package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Dedupe(t *testing.T) {
	r := TrimResolver()

	unique, positions := r.Dedupe([]string{"7", " 8", "7", "9", "8 "})

	assert.Equal(t, []string{"7", "8", "9"}, unique)
	assert.Equal(t, []int{0, 2}, positions["7"])
	assert.Equal(t, []int{1, 4}, positions["8"])
	assert.Equal(t, []int{3}, positions["9"])
}

func TestResolver_DedupeEmpty(t *testing.T) {
	unique, positions := TrimResolver().Dedupe(nil)
	assert.Empty(t, unique)
	assert.Empty(t, positions)
}

func TestReorder(t *testing.T) {
	r := TrimResolver()
	results := map[string]string{"7": "3", "8": "4"}

	tests := []struct {
		name     string
		keys     []string
		expected []string
	}{
		{"Aligned", []string{"7", "8"}, []string{"3", "4"}},
		{"Duplicates", []string{"7", "999", "7"}, []string{"3", "0", "3"}},
		{"Normalized", []string{" 8", "7 "}, []string{"4", "3"}},
		{"AllMissing", []string{"1", "2"}, []string{"0", "0"}},
		{"Empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Reorder(r, results, tt.keys, "0")
			assert.Len(t, out, len(tt.keys))
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestReorder_OutputFollowsInput(t *testing.T) {
	r := Resolver[int]{}
	results := map[int]int{1: 10, 2: 20, 3: 30}
	keys := []int{3, 3, 1, 4, 2, 1, 3}

	out := Reorder(r, results, keys, -1)

	assert.Len(t, out, len(keys))
	for i, k := range keys {
		if v, ok := results[k]; ok {
			assert.Equal(t, v, out[i])
		} else {
			assert.Equal(t, -1, out[i])
		}
	}
}
