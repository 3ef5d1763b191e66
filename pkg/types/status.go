package types

import (
	"encoding/json"
	"fmt"
)

// Status is the workflow state shared by epics and stories. Any status may
// move to any other; the ordering is used for display only.
type Status int

// Status values in display order.
const (
	StatusOpen Status = iota
	StatusInProgress
	StatusResolved
	StatusClosed
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

// statusTags are the persisted names. They must stay stable across releases.
var statusTags = map[Status]string{
	StatusOpen:       "Open",
	StatusInProgress: "InProgress",
	StatusResolved:   "Resolved",
	StatusClosed:     "Closed",
}

var statusLabels = map[Status]string{
	StatusOpen:       "OPEN",
	StatusInProgress: "IN PROGRESS",
	StatusResolved:   "RESOLVED",
	StatusClosed:     "CLOSED",
}

// String returns the display label, e.g. "IN PROGRESS".
func (s Status) String() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Tag returns the persisted name, e.g. "InProgress".
func (s Status) Tag() string {
	return statusTags[s]
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	_, ok := statusTags[s]
	return ok
}

// ParseStatusTag maps a persisted name back to its Status.
// Returns ErrInvalidStatus for unknown names.
func ParseStatusTag(tag string) (Status, error) {
	for s, t := range statusTags {
		if t == tag {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, tag)
}

// MarshalJSON encodes the status as its tag.
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}
	return json.Marshal(s.Tag())
}

// UnmarshalJSON decodes a status tag.
func (s *Status) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, data)
	}
	parsed, err := ParseStatusTag(tag)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
