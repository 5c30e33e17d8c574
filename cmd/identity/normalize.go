package identity

import "strings"

// NormalizeUserID performs case-insensitive canonicalization of a campus
// account ID. For now we only trim + lower-case; additional rules can be
// added later behind a versioned policy.
func NormalizeUserID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
