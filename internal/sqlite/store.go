package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/backlog/pkg/types"
)

// Store is a types.Store backed by a SQLite database file.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and ensures the schema.
// The caller must Close the Store.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating directory for %s: %w", types.ErrStore, path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", types.ErrStore, path, err)
	}
	// A single connection keeps ":memory:" databases coherent across calls.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: initializing schema: %w", types.ErrStore, err)
		}
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Read assembles the complete state from the tables.
func (s *Store) Read() (*types.DBState, error) {
	state := types.NewDBState()

	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", metaLastItemID).Scan(&state.LastItemID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("%w: reading meta: %w", types.ErrStore, err)
	}

	if err := s.readEpics(state); err != nil {
		return nil, fmt.Errorf("%w: reading epics: %w", types.ErrStore, err)
	}
	if err := s.readStories(state); err != nil {
		return nil, fmt.Errorf("%w: reading stories: %w", types.ErrStore, err)
	}
	if err := s.readMembership(state); err != nil {
		return nil, fmt.Errorf("%w: reading epic stories: %w", types.ErrStore, err)
	}
	return state, nil
}

func (s *Store) readEpics(state *types.DBState) error {
	rows, err := s.db.Query("SELECT id, name, description, status FROM epics")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  uint32
			e   types.Epic
			tag string
		)
		if err := rows.Scan(&id, &e.Name, &e.Description, &tag); err != nil {
			return err
		}
		if e.Status, err = types.ParseStatusTag(tag); err != nil {
			return err
		}
		e.Stories = []uint32{}
		state.Epics[id] = e
	}
	return rows.Err()
}

func (s *Store) readStories(state *types.DBState) error {
	rows, err := s.db.Query("SELECT id, name, description, status FROM stories")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  uint32
			st  types.Story
			tag string
		)
		if err := rows.Scan(&id, &st.Name, &st.Description, &tag); err != nil {
			return err
		}
		if st.Status, err = types.ParseStatusTag(tag); err != nil {
			return err
		}
		state.Stories[id] = st
	}
	return rows.Err()
}

func (s *Store) readMembership(state *types.DBState) error {
	rows, err := s.db.Query("SELECT epic_id, story_id FROM epic_stories ORDER BY epic_id, position")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var epicID, storyID uint32
		if err := rows.Scan(&epicID, &storyID); err != nil {
			return err
		}
		e, ok := state.Epics[epicID]
		if !ok {
			return fmt.Errorf("membership row for missing epic %d", epicID)
		}
		e.Stories = append(e.Stories, storyID)
		state.Epics[epicID] = e
	}
	return rows.Err()
}

// Write replaces every row in one transaction.
func (s *Store) Write(state *types.DBState) error {
	if err := s.replaceAll(state); err != nil {
		return fmt.Errorf("%w: writing %s: %w", types.ErrStore, s.path, err)
	}
	return nil
}

func (s *Store) replaceAll(state *types.DBState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"epic_stories", "stories", "epics", "meta"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if _, err := tx.Exec("INSERT INTO meta (key, value) VALUES (?, ?)", metaLastItemID, state.LastItemID); err != nil {
		return fmt.Errorf("inserting meta: %w", err)
	}

	for id, e := range state.Epics {
		if !e.Status.Valid() {
			return fmt.Errorf("epic %d: %w", id, types.ErrInvalidStatus)
		}
		if _, err := tx.Exec("INSERT INTO epics (id, name, description, status) VALUES (?, ?, ?, ?)",
			id, e.Name, e.Description, e.Status.Tag()); err != nil {
			return fmt.Errorf("inserting epic %d: %w", id, err)
		}
		for pos, storyID := range e.Stories {
			if _, err := tx.Exec("INSERT INTO epic_stories (epic_id, story_id, position) VALUES (?, ?, ?)",
				id, storyID, pos); err != nil {
				return fmt.Errorf("inserting membership %d/%d: %w", id, storyID, err)
			}
		}
	}

	for id, st := range state.Stories {
		if !st.Status.Valid() {
			return fmt.Errorf("story %d: %w", id, types.ErrInvalidStatus)
		}
		if _, err := tx.Exec("INSERT INTO stories (id, name, description, status) VALUES (?, ?, ?, ?)",
			id, st.Name, st.Description, st.Status.Tag()); err != nil {
			return fmt.Errorf("inserting story %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
