package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/backlog/internal/transfer"
	"github.com/mesh-intelligence/backlog/pkg/types"
)

func TestExportToStdout(t *testing.T) {
	e := newEnv(t)
	e.seedJSON(t)

	out, err := e.run(t, "", "export")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `{"kind":"meta","last_item_id":3}`, lines[0])
	assert.Contains(t, lines[1], `"name":"Epic1"`)
}

func TestExportJSONImportSQLite(t *testing.T) {
	e := newEnv(t)
	e.seedJSON(t)
	file := filepath.Join(t.TempDir(), "backlog.jsonl")

	out, err := e.run(t, "", "export", file)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 2 epics and 1 stories")

	out, err = e.run(t, "", "--backend", "sqlite", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 epics and 1 stories")

	out, err = e.run(t, "", "--backend", "sqlite", "show", "1", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "first story")

	exported, err := transfer.ReadFile(file)
	require.NoError(t, err)
	out, err = e.run(t, "", "--backend", "sqlite", "export")
	require.NoError(t, err)
	roundTrip, err := transfer.Import(strings.NewReader(out))
	require.NoError(t, err)
	assert.True(t, exported.Equal(roundTrip))
}

func TestImportRefusesNonEmptyDatabase(t *testing.T) {
	e := newEnv(t)
	e.seedJSON(t)
	file := filepath.Join(t.TempDir(), "backlog.jsonl")
	require.NoError(t, os.WriteFile(file, []byte(`{"kind":"meta","last_item_id":9}`+"\n"), 0o644))

	_, err := e.run(t, "", "import", file)
	require.Error(t, err)
	assert.ErrorIs(t, err, errNotEmpty)
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = e.run(t, "", "import", "--force", file)
	require.NoError(t, err)
	out, err := e.run(t, "", "export")
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"meta","last_item_id":9}`+"\n", out)
}

func TestImportRejectsBrokenFile(t *testing.T) {
	e := newEnv(t)
	file := filepath.Join(t.TempDir(), "broken.jsonl")
	require.NoError(t, os.WriteFile(file, []byte(`{"kind":"story","id":1,"story":{"name":"s","description":"","status":"Open"}}`+"\n"), 0o644))

	_, err := e.run(t, "", "import", file)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrIntegrityViolation)
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = e.run(t, "", "import", filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Equal(t, exitUserError, exitCode(err))
}
