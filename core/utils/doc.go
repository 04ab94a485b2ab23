// Package utils provides small helpers shared by the catalog packages, mostly around
// identifiers: normalization, the null id used for misses, and numeric-aware ordering.
package utils
