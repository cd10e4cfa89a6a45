package services

import (
	"strconv"
	"strings"
)

// NormalizeInt converts a user- or AI-supplied nutrition value into an int.
// Accepts numbers, numeric strings, and textual ranges like "15-20" (which
// yield the truncated mean). Anything else degrades to 0; it never fails.
func NormalizeInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if mean, ok := rangeMean(s); ok {
			return int(mean)
		}
	}
	return 0
}

// NormalizeFloat is the float64 counterpart of NormalizeInt.
func NormalizeFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	case string:
		s := strings.TrimSpace(t)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		if mean, ok := rangeMean(s); ok {
			return mean
		}
	}
	return 0
}

// rangeMean parses "a-b" with exactly one hyphen into the mean of a and b.
func rangeMean(s string) (float64, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, false
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, false
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, false
	}
	return (lo + hi) / 2, true
}
