package types

import (
	"fmt"
	"maps"
	"slices"
)

// DBState is the complete persisted snapshot: the id counter plus the epic
// and story maps. Epic and story ids come from the same counter and are
// never reused.
type DBState struct {
	LastItemID uint32           `json:"last_item_id"`
	Epics      map[uint32]Epic  `json:"epics"`
	Stories    map[uint32]Story `json:"stories"`
}

// NewDBState returns the empty state used on first run.
func NewDBState() *DBState {
	return &DBState{
		Epics:   make(map[uint32]Epic),
		Stories: make(map[uint32]Story),
	}
}

// Normalize replaces nil maps and nil story lists with empty ones so that a
// decoded document behaves like a freshly created state.
func (s *DBState) Normalize() {
	if s.Epics == nil {
		s.Epics = make(map[uint32]Epic)
	}
	if s.Stories == nil {
		s.Stories = make(map[uint32]Story)
	}
	for id, e := range s.Epics {
		if e.Stories == nil {
			e.Stories = []uint32{}
			s.Epics[id] = e
		}
	}
}

// Clone returns a deep copy of the state.
func (s *DBState) Clone() *DBState {
	c := &DBState{
		LastItemID: s.LastItemID,
		Epics:      make(map[uint32]Epic, len(s.Epics)),
		Stories:    make(map[uint32]Story, len(s.Stories)),
	}
	for id, e := range s.Epics {
		c.Epics[id] = e.Clone()
	}
	maps.Copy(c.Stories, s.Stories)
	return c
}

// Equal compares counters, key sets, and entity fields. Story lists are
// compared in order.
func (s *DBState) Equal(o *DBState) bool {
	if s.LastItemID != o.LastItemID || len(s.Epics) != len(o.Epics) || len(s.Stories) != len(o.Stories) {
		return false
	}
	for id, e := range s.Epics {
		oe, ok := o.Epics[id]
		if !ok || !e.Equal(oe) {
			return false
		}
	}
	for id, st := range s.Stories {
		if ost, ok := o.Stories[id]; !ok || st != ost {
			return false
		}
	}
	return true
}

// EpicIDs returns the epic ids in ascending order.
func (s *DBState) EpicIDs() []uint32 {
	return slices.Sorted(maps.Keys(s.Epics))
}

// Check verifies the referential invariants: every listed story exists,
// every story is listed by exactly one epic, and the counter covers every
// id in use. It returns an error wrapping ErrIntegrityViolation describing
// the first violation found, checking epics in ascending id order.
func (s *DBState) Check() error {
	owner := make(map[uint32]uint32, len(s.Stories))
	for _, epicID := range s.EpicIDs() {
		if epicID > s.LastItemID {
			return fmt.Errorf("%w: epic %d is above last item id %d", ErrIntegrityViolation, epicID, s.LastItemID)
		}
		for _, storyID := range s.Epics[epicID].Stories {
			if _, ok := s.Stories[storyID]; !ok {
				return fmt.Errorf("%w: epic %d lists missing story %d", ErrIntegrityViolation, epicID, storyID)
			}
			if prev, ok := owner[storyID]; ok {
				return fmt.Errorf("%w: story %d is listed by epics %d and %d", ErrIntegrityViolation, storyID, prev, epicID)
			}
			owner[storyID] = epicID
		}
	}
	for _, storyID := range slices.Sorted(maps.Keys(s.Stories)) {
		if storyID > s.LastItemID {
			return fmt.Errorf("%w: story %d is above last item id %d", ErrIntegrityViolation, storyID, s.LastItemID)
		}
		if _, ok := owner[storyID]; !ok {
			return fmt.Errorf("%w: story %d is not listed by any epic", ErrIntegrityViolation, storyID)
		}
		if _, clash := s.Epics[storyID]; clash {
			return fmt.Errorf("%w: id %d is used by both an epic and a story", ErrIntegrityViolation, storyID)
		}
	}
	return nil
}
