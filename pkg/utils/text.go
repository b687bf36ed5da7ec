// Package utils provides shared helpers for text, vector math, and logging.
package utils

import "path/filepath"

// Ellipsis is appended to text cut by Truncate.
const Ellipsis = "..."

// Truncate returns s cut to at most maxRunes characters with Ellipsis appended.
// Strings that fit, and non-positive limits, are returned unchanged.
func Truncate(s string, maxRunes int) string {
	out, _ := TruncateRunes(s, maxRunes)
	return out
}

// TruncateRunes is Truncate that also reports whether s was cut.
// Counting is by rune so multi-byte text is never split mid-character.
func TruncateRunes(s string, maxRunes int) (string, bool) {
	if maxRunes <= 0 || len(s) <= maxRunes {
		return s, false
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i] + Ellipsis, true
		}
		n++
	}
	return s, false
}

// BaseName returns the final element of path, or fallback when path is empty.
func BaseName(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return filepath.Base(path)
}
