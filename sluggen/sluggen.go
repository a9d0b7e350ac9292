// Package sluggen derives URL-safe identifiers from display names.
// All functions are pure and safe for concurrent use.
package sluggen

import (
	gslug "github.com/gosimple/slug"
)

// Make derives a slug from a free-text name: lowercase, non-alphanumeric
// characters stripped, whitespace and punctuation collapsed to single
// hyphens. Deterministic, and idempotent for input already in slug form.
func Make(name string) string {
	return gslug.Make(name)
}

// IsValid reports whether s is a well-formed slug as produced by Make.
func IsValid(s string) bool {
	return gslug.IsSlug(s)
}
