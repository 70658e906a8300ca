package markup

import "strings"

// Normalize coerces raw text to well-formed UTF-8. Invalid byte sequences
// are deleted rather than replaced with a placeholder, matching the lossy
// best-effort contract of the migration: a bad byte must never fail a
// batch. Empty input comes back unchanged.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToValidUTF8(s, "")
}
