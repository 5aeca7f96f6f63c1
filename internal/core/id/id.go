// Package id generates the UUIDv7 primary keys used by every entity.
// V7 ids embed the creation timestamp in the high bits, so rows sort
// chronologically and insert append-mostly into the primary key index.
package id

import (
	"github.com/google/uuid"
)

// ID aliases uuid.UUID so entities and repositories share one key type.
type ID = uuid.UUID

// New returns a fresh UUIDv7.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to V4
		// rather than propagate an error nobody can handle.
		return uuid.New()
	}
	return v7
}

// Parse validates and converts a string id.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts a string id, panicking on malformed input. For
// fixtures and tests only.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero id.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether the id is the zero value.
func IsNil(v ID) bool {
	return v == uuid.Nil
}
