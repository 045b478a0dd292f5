package core

import "strings"

// DefaultAdjustmentMarkers are the category-name substrings recognized as
// marking a balance-adjustment category. The Japanese marker matches the
// category the remote service conventionally uses.
var DefaultAdjustmentMarkers = []string{"残高調整", "balance adjustment", "adjustment", "adjust"}

// NameMatches reports whether query fuzzily matches name: case-insensitive,
// either string containing the other. Empty strings never match.
func NameMatches(query, name string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	n := strings.ToLower(strings.TrimSpace(name))
	if q == "" || n == "" {
		return false
	}
	return strings.Contains(n, q) || strings.Contains(q, n)
}

// ContainsAnyFold reports whether s contains any of the markers,
// case-insensitively.
func ContainsAnyFold(s string, markers []string) bool {
	lower := strings.ToLower(s)
	for _, m := range markers {
		if m == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
