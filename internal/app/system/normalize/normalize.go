// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Username lowercases and trims a username for storage and lookup.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case (group names,
// list names).
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Title trims surrounding whitespace of a book title, preserving case.
func Title(s string) string {
	return strings.TrimSpace(s)
}

// Body trims surrounding whitespace of user-generated text (comment
// bodies, post content). Interior whitespace is preserved.
func Body(s string) string {
	return strings.TrimSpace(s)
}

// QueryParam trims a raw query parameter value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
