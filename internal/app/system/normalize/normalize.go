// Package normalize provides canonical forms for user-supplied identifier
// fields before they are stored or compared. Uniqueness checks and index
// lookups always operate on normalized values.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// LoginID lowercases and trims a login identifier.
func LoginID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role tag.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
