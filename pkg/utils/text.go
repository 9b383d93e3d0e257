// Package utils provides shared text and logging helpers.
package utils

// TruncateRunes returns the first n runes of s and whether anything was cut.
// If n is 0 or negative, s is returned unchanged.
func TruncateRunes(s string, n int) (string, bool) {
	if n <= 0 || len(s) <= n {
		return s, false
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}

// Truncate returns s cut to maxLen runes, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if cut, ok := TruncateRunes(s, maxLen); ok {
		return cut + "..."
	}
	return s
}
