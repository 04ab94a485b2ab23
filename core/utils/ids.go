package utils

import (
	"strconv"
	"strings"
)

// NullID is the id returned for a lookup that found nothing.
const NullID = "0"

// NormalizeID trims surrounding whitespace from an identifier.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}

// IsNullID reports whether id carries no identity.
func IsNullID(id string) bool {
	id = NormalizeID(id)
	return id == "" || id == NullID
}

// CompareIDs orders two identifiers, numerically when both are integers and
// lexically otherwise. Numeric ids sort before non-numeric ones.
func CompareIDs(a, b string) int {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)

	switch {
	case aErr == nil && bErr == nil:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// ToString converts a scalar decoded from JSON to an identifier. Whole floats are
// written without a fractional part.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}
