package types

import "slices"

// Story is a leaf work item. It carries no id of its own; the id is its key
// in DBState.Stories.
type Story struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// NewStory returns an open story.
func NewStory(name, description string) Story {
	return Story{Name: name, Description: description, Status: StatusOpen}
}

// Epic is a top-level work item. Stories records membership by story id, in
// creation order; the story data lives in DBState.Stories.
type Epic struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Stories     []uint32 `json:"stories"`
}

// NewEpic returns an open epic with an empty story list.
func NewEpic(name, description string) Epic {
	return Epic{Name: name, Description: description, Status: StatusOpen, Stories: []uint32{}}
}

// HasStory reports whether the epic lists storyID.
func (e Epic) HasStory(storyID uint32) bool {
	return slices.Contains(e.Stories, storyID)
}

// Clone returns a copy that shares no memory with e.
func (e Epic) Clone() Epic {
	c := e
	c.Stories = make([]uint32, len(e.Stories))
	copy(c.Stories, e.Stories)
	return c
}

// Equal compares all fields, including story order.
func (e Epic) Equal(o Epic) bool {
	return e.Name == o.Name &&
		e.Description == o.Description &&
		e.Status == o.Status &&
		slices.Equal(e.Stories, o.Stories)
}
