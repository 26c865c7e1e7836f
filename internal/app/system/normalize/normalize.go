// Package normalize canonicalizes identifiers before they are stored or
// compared, so that lookups by email, student ID or category code agree
// with what was written.
package normalize

import "strings"

// Email lowercases and trims an address. Users are found by this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses runs of inner whitespace
// ("Chan  Tai\tMan" -> "Chan Tai Man"). Case is kept.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StudentID trims a student number. IDs are matched exactly, so case is kept.
func StudentID(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases a role name.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Code uppercases a finance category code.
func Code(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
