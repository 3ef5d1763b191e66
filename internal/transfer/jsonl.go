// Package transfer reads and writes a whole DBState as JSON Lines, one
// record per line, so a backlog can be copied between backends.
//
// The first record carries the id counter; epics and then stories follow in
// ascending id order:
//
//	{"kind":"meta","last_item_id":2}
//	{"kind":"epic","id":1,"epic":{"name":"Epic1",...,"stories":[2]}}
//	{"kind":"story","id":2,"story":{"name":"Story1",...}}
package transfer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/mesh-intelligence/backlog/pkg/types"
)

// ErrMalformed is returned for input that is not a valid record stream.
var ErrMalformed = errors.New("malformed record")

// Record kinds.
const (
	kindMeta  = "meta"
	kindEpic  = "epic"
	kindStory = "story"
)

type record struct {
	Kind       string       `json:"kind"`
	ID         uint32       `json:"id,omitempty"`
	LastItemID uint32       `json:"last_item_id,omitempty"`
	Epic       *types.Epic  `json:"epic,omitempty"`
	Story      *types.Story `json:"story,omitempty"`
}

// kindFields lists the keys each record kind may carry.
var kindFields = map[string][]string{
	kindMeta:  {"kind", "last_item_id"},
	kindEpic:  {"kind", "id", "epic"},
	kindStory: {"kind", "id", "story"},
}

// foreignField returns the first key in line, in sorted order, that does not
// belong to kind, or "" if there is none.
func foreignField(kind string, line []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return "", err
	}
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		if !slices.Contains(kindFields[kind], key) {
			return key, nil
		}
	}
	return "", nil
}

// maxLine bounds a single record.
const maxLine = 16 << 20

// Export writes state to w.
func Export(w io.Writer, state *types.DBState) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records(state) {
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding %s %d: %w", rec.Kind, rec.ID, err)
		}
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	return nil
}

func records(state *types.DBState) []record {
	out := []record{{Kind: kindMeta, LastItemID: state.LastItemID}}
	for _, id := range state.EpicIDs() {
		epic := state.Epics[id].Clone()
		out = append(out, record{Kind: kindEpic, ID: id, Epic: &epic})
	}
	for _, id := range slices.Sorted(maps.Keys(state.Stories)) {
		story := state.Stories[id]
		out = append(out, record{Kind: kindStory, ID: id, Story: &story})
	}
	return out
}

// Import reads a record stream into a new state and checks its integrity.
// Blank lines are ignored. Without a meta record the counter is set to the
// highest id seen.
func Import(r io.Reader) (*types.DBState, error) {
	state := types.NewDBState()
	var sawMeta bool
	var maxID uint32

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec record
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, lineNo, err)
		}
		if _, known := kindFields[rec.Kind]; known {
			key, err := foreignField(rec.Kind, line)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, lineNo, err)
			}
			if key != "" {
				return nil, fmt.Errorf("%w: line %d: %s record has field %q", ErrMalformed, lineNo, rec.Kind, key)
			}
		}

		switch rec.Kind {
		case kindMeta:
			if sawMeta {
				return nil, fmt.Errorf("%w: line %d: second meta record", ErrMalformed, lineNo)
			}
			sawMeta = true
			state.LastItemID = rec.LastItemID
			continue
		case kindEpic, kindStory:
		default:
			return nil, fmt.Errorf("%w: line %d: unknown kind %q", ErrMalformed, lineNo, rec.Kind)
		}
		if rec.ID == 0 {
			return nil, fmt.Errorf("%w: line %d: %s without id", ErrMalformed, lineNo, rec.Kind)
		}

		if rec.Kind == kindEpic {
			if rec.Epic == nil {
				return nil, fmt.Errorf("%w: line %d: epic record without epic", ErrMalformed, lineNo)
			}
			if _, dup := state.Epics[rec.ID]; dup {
				return nil, fmt.Errorf("%w: line %d: duplicate epic %d", ErrMalformed, lineNo, rec.ID)
			}
			state.Epics[rec.ID] = rec.Epic.Clone()
		} else {
			if rec.Story == nil {
				return nil, fmt.Errorf("%w: line %d: story record without story", ErrMalformed, lineNo)
			}
			if _, dup := state.Stories[rec.ID]; dup {
				return nil, fmt.Errorf("%w: line %d: duplicate story %d", ErrMalformed, lineNo, rec.ID)
			}
			state.Stories[rec.ID] = *rec.Story
		}
		maxID = max(maxID, rec.ID)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	if !sawMeta {
		state.LastItemID = maxID
	}
	state.Normalize()
	if err := state.Check(); err != nil {
		return nil, err
	}
	return state, nil
}

// WriteFile exports state to path atomically using the temp-file, fsync,
// rename pattern.
func WriteFile(path string, state *types.DBState) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := Export(tmp, state); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ReadFile imports the record stream stored at path.
func ReadFile(path string) (*types.DBState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Import(f)
}
