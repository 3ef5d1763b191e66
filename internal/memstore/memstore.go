// Package memstore provides an in-memory types.Store for tests. It keeps the
// last written state and can be told to fail reads or writes.
package memstore

import (
	"fmt"

	"github.com/mesh-intelligence/backlog/pkg/types"
)

// Store holds a DBState in memory with the same Read/Write contract as the
// file-backed stores. Values are cloned on the way in and out so callers
// never alias the held state.
type Store struct {
	state  *types.DBState
	writes int

	// FailRead and FailWrite make the next calls return an error wrapping
	// types.ErrStore until reset.
	FailRead  bool
	FailWrite bool
}

// New returns a Store holding the empty state.
func New() *Store {
	return &Store{state: types.NewDBState()}
}

// NewWithState returns a Store holding a copy of state.
func NewWithState(state *types.DBState) *Store {
	return &Store{state: state.Clone()}
}

// Read returns a copy of the held state.
func (s *Store) Read() (*types.DBState, error) {
	if s.FailRead {
		return nil, fmt.Errorf("%w: injected read failure", types.ErrStore)
	}
	return s.state.Clone(), nil
}

// Write replaces the held state with a copy of state.
func (s *Store) Write(state *types.DBState) error {
	if s.FailWrite {
		return fmt.Errorf("%w: injected write failure", types.ErrStore)
	}
	s.state = state.Clone()
	s.writes++
	return nil
}

// LastWritten returns a copy of the held state, which is the last written
// state or the initial one if nothing was written.
func (s *Store) LastWritten() *types.DBState {
	return s.state.Clone()
}

// Writes returns the number of successful writes.
func (s *Store) Writes() int {
	return s.writes
}
