// Package jsonfile implements the JSON document Store. The whole DBState is
// read and parsed on every Read and serialized and replaced on every Write.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mesh-intelligence/backlog/pkg/types"
)

// Store is a types.Store backed by a single JSON file.
type Store struct {
	fs   afero.Fs
	path string
}

// New returns a Store for the file at path on the OS filesystem.
func New(path string) *Store {
	return NewWithFs(afero.NewOsFs(), path)
}

// NewWithFs returns a Store for the file at path on fsys.
func NewWithFs(fsys afero.Fs, path string) *Store {
	return &Store{fs: fsys, path: path}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Init writes an empty document if the file does not exist yet.
// An existing file is left untouched.
func (s *Store) Init() error {
	_, err := s.fs.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %w", types.ErrStore, s.path, err)
	}
	return s.Write(types.NewDBState())
}

// Read loads and decodes the document. A missing file reads as the empty
// state; a present but unreadable or malformed file is an error.
func (s *Store) Read() (*types.DBState, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return types.NewDBState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", types.ErrStore, s.path, err)
	}

	state := &types.DBState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", types.ErrStore, s.path, err)
	}
	state.Normalize()
	return state, nil
}

// Write encodes state and atomically replaces the document using the
// temp-file, sync, rename pattern. On failure the previous document is
// left in place.
func (s *Store) Write(state *types.DBState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding state: %w", types.ErrStore, err)
	}
	if err := writeFileAtomic(s.fs, s.path, data); err != nil {
		return fmt.Errorf("%w: writing %s: %w", types.ErrStore, s.path, err)
	}
	return nil
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(fsys afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fsys, dir, ".db-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fsys.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		fsys.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := fsys.Chmod(tmpName, 0o644); err != nil {
		fsys.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		fsys.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
