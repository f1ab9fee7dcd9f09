package common

import "strings"

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IsJSONContentType reports whether a Content-Type header value declares JSON.
func IsJSONContentType(ct string) bool {
	return HasAny(strings.ToLower(ct), "application/json", "+json")
}
