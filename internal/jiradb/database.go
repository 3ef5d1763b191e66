// Package jiradb is the repository over a types.Store. It is the only code
// that mutates a DBState: every operation reads the whole state, validates
// against that snapshot, applies the change, and writes the whole state back.
// Validation always precedes mutation, so a rejected operation never writes.
package jiradb

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/mesh-intelligence/backlog/pkg/types"
)

// Database implements the epic and story operations on top of a Store.
type Database struct {
	store  types.Store
	logger *slog.Logger
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger used for operation records.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Database) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New returns a Database over store.
func New(store types.Store, opts ...Option) *Database {
	d := &Database{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ReadDB returns the current state. Callers own the returned value.
func (d *Database) ReadDB() (*types.DBState, error) {
	return d.store.Read()
}

// nextID returns the id following the counter. Ids are never reissued, so a
// counter at the top of the uint32 range fails with ErrIDSpaceExhausted.
func nextID(state *types.DBState) (uint32, error) {
	if state.LastItemID == math.MaxUint32 {
		return 0, fmt.Errorf("%w: last item id is %d", types.ErrIDSpaceExhausted, state.LastItemID)
	}
	return state.LastItemID + 1, nil
}

// CreateEpic stores epic under the next id and returns that id.
func (d *Database) CreateEpic(epic types.Epic) (uint32, error) {
	state, err := d.store.Read()
	if err != nil {
		return 0, fmt.Errorf("create epic: %w", err)
	}

	id, err := nextID(state)
	if err != nil {
		return 0, fmt.Errorf("create epic: %w", err)
	}
	epic = epic.Clone()
	if epic.Stories == nil {
		epic.Stories = []uint32{}
	}
	state.Epics[id] = epic
	state.LastItemID = id

	if err := d.store.Write(state); err != nil {
		return 0, fmt.Errorf("create epic: %w", err)
	}
	d.logger.Debug("epic created", "epic_id", id)
	return id, nil
}

// CreateStory stores story under the next id, appends it to the epic's story
// list, and returns the id. Returns ErrInvalidEpicID if the epic does not exist.
func (d *Database) CreateStory(story types.Story, epicID uint32) (uint32, error) {
	state, err := d.store.Read()
	if err != nil {
		return 0, fmt.Errorf("create story: %w", err)
	}

	epic, ok := state.Epics[epicID]
	if !ok {
		return 0, fmt.Errorf("create story: %w: %d", types.ErrInvalidEpicID, epicID)
	}

	id, err := nextID(state)
	if err != nil {
		return 0, fmt.Errorf("create story: %w", err)
	}
	state.Stories[id] = story
	epic.Stories = append(epic.Stories, id)
	state.Epics[epicID] = epic
	state.LastItemID = id

	if err := d.store.Write(state); err != nil {
		return 0, fmt.Errorf("create story: %w", err)
	}
	d.logger.Debug("story created", "story_id", id, "epic_id", epicID)
	return id, nil
}

// DeleteEpic removes the epic and every story it lists. The id counter is
// not changed. Returns ErrInvalidEpicID if the epic does not exist and
// ErrIntegrityViolation if it lists a story that is missing; in both cases
// nothing is written.
func (d *Database) DeleteEpic(epicID uint32) error {
	state, err := d.store.Read()
	if err != nil {
		return fmt.Errorf("delete epic: %w", err)
	}

	epic, ok := state.Epics[epicID]
	if !ok {
		return fmt.Errorf("delete epic: %w: %d", types.ErrInvalidEpicID, epicID)
	}
	for _, storyID := range epic.Stories {
		if _, ok := state.Stories[storyID]; !ok {
			return fmt.Errorf("delete epic: %w: epic %d lists missing story %d", types.ErrIntegrityViolation, epicID, storyID)
		}
	}

	for _, storyID := range epic.Stories {
		delete(state.Stories, storyID)
	}
	delete(state.Epics, epicID)

	if err := d.store.Write(state); err != nil {
		return fmt.Errorf("delete epic: %w", err)
	}
	d.logger.Debug("epic deleted", "epic_id", epicID, "stories", len(epic.Stories))
	return nil
}

// DeleteStory removes the story and drops it from the epic's story list.
// Returns ErrInvalidStoryID if the story does not exist, ErrInvalidEpicID if
// the epic does not exist, and ErrStoryNotInEpic if the epic does not list
// the story.
func (d *Database) DeleteStory(epicID, storyID uint32) error {
	state, err := d.store.Read()
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}

	if _, ok := state.Stories[storyID]; !ok {
		return fmt.Errorf("delete story: %w: %d", types.ErrInvalidStoryID, storyID)
	}
	epic, ok := state.Epics[epicID]
	if !ok {
		return fmt.Errorf("delete story: %w: %d", types.ErrInvalidEpicID, epicID)
	}
	if !epic.HasStory(storyID) {
		return fmt.Errorf("delete story: %w: story %d, epic %d", types.ErrStoryNotInEpic, storyID, epicID)
	}

	delete(state.Stories, storyID)
	epic.Stories = slices.DeleteFunc(epic.Stories, func(id uint32) bool { return id == storyID })
	state.Epics[epicID] = epic

	if err := d.store.Write(state); err != nil {
		return fmt.Errorf("delete story: %w", err)
	}
	d.logger.Debug("story deleted", "story_id", storyID, "epic_id", epicID)
	return nil
}

// UpdateEpicStatus overwrites the epic's status. Any transition is allowed.
func (d *Database) UpdateEpicStatus(epicID uint32, status types.Status) error {
	state, err := d.store.Read()
	if err != nil {
		return fmt.Errorf("update epic status: %w", err)
	}
	if !status.Valid() {
		return fmt.Errorf("update epic status: %w: %d", types.ErrInvalidStatus, int(status))
	}

	epic, ok := state.Epics[epicID]
	if !ok {
		return fmt.Errorf("update epic status: %w: %d", types.ErrInvalidEpicID, epicID)
	}
	epic.Status = status
	state.Epics[epicID] = epic

	if err := d.store.Write(state); err != nil {
		return fmt.Errorf("update epic status: %w", err)
	}
	d.logger.Debug("epic status updated", "epic_id", epicID, "status", status.Tag())
	return nil
}

// UpdateStoryStatus overwrites the story's status. Any transition is allowed.
func (d *Database) UpdateStoryStatus(storyID uint32, status types.Status) error {
	state, err := d.store.Read()
	if err != nil {
		return fmt.Errorf("update story status: %w", err)
	}
	if !status.Valid() {
		return fmt.Errorf("update story status: %w: %d", types.ErrInvalidStatus, int(status))
	}

	story, ok := state.Stories[storyID]
	if !ok {
		return fmt.Errorf("update story status: %w: %d", types.ErrInvalidStoryID, storyID)
	}
	story.Status = status
	state.Stories[storyID] = story

	if err := d.store.Write(state); err != nil {
		return fmt.Errorf("update story status: %w", err)
	}
	d.logger.Debug("story status updated", "story_id", storyID, "status", status.Tag())
	return nil
}
