package types

import (
	"errors"
	"fmt"
)

// Store is the raw persistence boundary. Read returns the whole state and
// Write replaces it. Implementations never expose a partially written
// document: a failed Write leaves the previous one in place.
type Store interface {
	// Read loads the complete state. Returns an error wrapping ErrStore if
	// the backing resource is unreadable or its contents do not decode.
	Read() (*DBState, error)

	// Write replaces the complete state. Returns an error wrapping
	// ErrStore if the resource cannot be fully overwritten.
	Write(state *DBState) error
}

// Storage errors.
var (
	ErrStore = errors.New("store error")
)

// Repository errors.
var (
	ErrInvalidEpicID      = errors.New("invalid epic id")
	ErrInvalidStoryID     = errors.New("invalid story id")
	ErrStoryNotInEpic     = fmt.Errorf("%w: story is not listed by the epic", ErrInvalidStoryID)
	ErrIntegrityViolation = errors.New("integrity violation")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrIDSpaceExhausted   = errors.New("id space exhausted")
)
