// Package uuid wraps github.com/google/uuid with UUIDv7 (time-ordered) as
// the default version. Record identifiers across the application are
// UUIDv7 so creation order is recoverable from the ID itself.
package uuid

import (
	"github.com/google/uuid"
)

// UUID represents a UUID, aliased from github.com/google/uuid.UUID.
type UUID = uuid.UUID

// Nil is the zero UUID value.
var Nil = uuid.Nil

// New returns a new UUIDv7. Panics if generation fails.
func New() UUID {
	id, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return id
}

// NewRandom returns a new UUIDv7 and any error encountered during generation.
func NewRandom() (UUID, error) {
	return uuid.NewV7()
}

// Parse parses a UUID string. Returns an error if the string is not a valid UUID.
func Parse(s string) (UUID, error) {
	return uuid.Parse(s)
}
