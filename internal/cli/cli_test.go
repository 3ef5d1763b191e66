package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/backlog/internal/jiradb"
	"github.com/mesh-intelligence/backlog/internal/jsonfile"
	"github.com/mesh-intelligence/backlog/internal/sqlite"
	"github.com/mesh-intelligence/backlog/pkg/types"
)

type env struct {
	configDir string
	dataDir   string
}

// newEnv isolates a test from the user's directories and BACKLOG_* variables.
func newEnv(t *testing.T) env {
	t.Helper()
	root := t.TempDir()
	for _, key := range []string{"BACKLOG_CONFIG_DIR", "BACKLOG_DATA_DIR", "BACKLOG_BACKEND", "BACKLOG_DB_FILE", "BACKLOG_PLAIN", "BACKLOG_LOG_FILE", "BACKLOG_LOG_LEVEL", "NO_COLOR"} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "xdg-config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "xdg-data"))
	return env{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

func (e env) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir, "--plain"}, args...))
	err := root.Execute()
	return out.String(), err
}

// seedJSON writes epic 1 with story 2, and epic 3, to the default JSON file.
func (e env) seedJSON(t *testing.T) {
	t.Helper()
	db := jiradb.New(jsonfile.New(filepath.Join(e.dataDir, "db.json")))
	epicID, err := db.CreateEpic(types.NewEpic("Epic1", "first epic"))
	require.NoError(t, err)
	_, err = db.CreateStory(types.NewStory("Story1", "first story"), epicID)
	require.NoError(t, err)
	_, err = db.CreateEpic(types.NewEpic("Epic2", ""))
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "backlog v"+Version+"\nmodule: "+modulePath+"\n", out)

	_, statErr := os.Stat(e.configDir)
	assert.True(t, os.IsNotExist(statErr), "version does not touch the config dir")
}

func TestInitJSON(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "backlog initialized successfully")
	assert.FileExists(t, filepath.Join(e.configDir, configFileExt))

	dbPath := filepath.Join(e.dataDir, "db.json")
	assert.Contains(t, out, dbPath)
	state, err := jsonfile.New(dbPath).Read()
	require.NoError(t, err)
	assert.True(t, state.Equal(types.NewDBState()))
}

func TestInitKeepsExistingData(t *testing.T) {
	e := newEnv(t)
	e.seedJSON(t)

	_, err := e.run(t, "", "init")
	require.NoError(t, err)

	state, err := jsonfile.New(filepath.Join(e.dataDir, "db.json")).Read()
	require.NoError(t, err)
	assert.Len(t, state.Epics, 2)
}

func TestInitSQLite(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "", "--backend", "sqlite", "init")
	require.NoError(t, err)

	dbPath := filepath.Join(e.dataDir, "db.sqlite")
	require.FileExists(t, dbPath)
	st, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	state, err := st.Read()
	require.NoError(t, err)
	assert.Empty(t, state.Epics)
}

func TestDefaultConfigFileIsWrittenOnce(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.configDir, configFileExt)

	_, err := e.run(t, "", "config")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfigYAML, string(data))

	require.NoError(t, os.WriteFile(path, []byte("backend: sqlite\n"), 0o644))
	_, err = e.run(t, "", "config")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "backend: sqlite\n", string(data))
}

func readSettings(t *testing.T, out string) settings {
	t.Helper()
	var s settings
	require.NoError(t, yaml.Unmarshal([]byte(out), &s))
	return s
}

func TestConfigDefaults(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "", "config")
	require.NoError(t, err)

	s := readSettings(t, out)
	assert.Equal(t, e.configDir, s.ConfigDir)
	assert.Equal(t, types.BackendJSON, s.Backend)
	assert.Equal(t, e.dataDir, s.DataDir)
	assert.Equal(t, "db.json", s.DBFile)
	assert.Equal(t, filepath.Join(e.dataDir, "db.json"), s.DBPath)
	assert.True(t, s.Plain)
	assert.False(t, s.Accessible)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, filepath.Join(e.configDir, "backlog.log"), s.LogFile)
}

func TestConfigPrecedence(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	yamlText := "backend: sqlite\ndb_file: tracker.db\nlog_level: debug\naccessible: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, configFileExt), []byte(yamlText), 0o644))

	out, err := e.run(t, "", "config")
	require.NoError(t, err)
	s := readSettings(t, out)
	assert.Equal(t, types.BackendSQLite, s.Backend)
	assert.Equal(t, filepath.Join(e.dataDir, "tracker.db"), s.DBPath)
	assert.Equal(t, "debug", s.LogLevel)
	assert.True(t, s.Accessible)

	t.Setenv("BACKLOG_LOG_LEVEL", "warn")
	out, err = e.run(t, "", "--backend", "json", "config")
	require.NoError(t, err)
	s = readSettings(t, out)
	assert.Equal(t, types.BackendJSON, s.Backend, "flag beats config.yaml")
	assert.Equal(t, "warn", s.LogLevel, "environment beats config.yaml")
}

func TestNoColorEnablesPlain(t *testing.T) {
	e := newEnv(t)
	t.Setenv("NO_COLOR", "1")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir, "config"})
	require.NoError(t, root.Execute())
	assert.True(t, readSettings(t, out.String()).Plain)
}

func TestUnknownBackend(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "", "--backend", "csv", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestList(t *testing.T) {
	e := newEnv(t)
	e.seedJSON(t)

	out, err := e.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "EPICS")
	assert.Contains(t, out, "Epic1")
	assert.Contains(t, out, "Epic2")
	assert.Less(t, strings.Index(out, "Epic1"), strings.Index(out, "Epic2"))
}

func TestListEmptyDatabase(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "[q] quit | [c] create epic")
}

func TestListCheck(t *testing.T) {
	e := newEnv(t)
	e.seedJSON(t)

	out, err := e.run(t, "", "list", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "Epic1")

	broken := `{"last_item_id":1,"epics":{"1":{"name":"E","description":"","status":"Open","stories":[5]}},"stories":{}}`
	require.NoError(t, os.WriteFile(filepath.Join(e.dataDir, "db.json"), []byte(broken), 0o644))

	_, err = e.run(t, "", "list")
	require.NoError(t, err)

	_, err = e.run(t, "", "list", "--check")
	require.ErrorIs(t, err, types.ErrIntegrityViolation)
	assert.Equal(t, exitSysError, exitCode(err))
}

func TestShow(t *testing.T) {
	e := newEnv(t)
	e.seedJSON(t)

	out, err := e.run(t, "", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "first epic")
	assert.Contains(t, out, "Story1")

	out, err = e.run(t, "", "show", "1", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "STORY")
	assert.Contains(t, out, "first story")
}

func TestShowErrors(t *testing.T) {
	e := newEnv(t)
	e.seedJSON(t)

	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{"missing epic", []string{"show", "9"}, types.ErrInvalidEpicID},
		{"missing story", []string{"show", "1", "9"}, types.ErrInvalidStoryID},
		{"story of another epic", []string{"show", "3", "2"}, types.ErrStoryNotInEpic},
		{"story under missing epic", []string{"show", "9", "2"}, types.ErrInvalidEpicID},
		{"bad epic id", []string{"show", "one"}, nil},
		{"bad story id", []string{"show", "1", "x2"}, nil},
		{"too many args", []string{"show", "1", "2", "3"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.run(t, "", tt.args...)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			assert.Equal(t, exitUserError, exitCode(err))
		})
	}
}

func TestInteractiveSession(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "c\nEpic1\ndesc\n1\nc\nStory1\nsdesc\np\nq\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Epic Name:")
	assert.True(t, strings.HasSuffix(out, "Good Bye!\n\n"))

	state, err := jsonfile.New(filepath.Join(e.dataDir, "db.json")).Read()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), state.LastItemID)
	assert.Equal(t, []uint32{2}, state.Epics[1].Stories)

	logData, err := os.ReadFile(filepath.Join(e.configDir, "backlog.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), `msg="session started"`)
	assert.Contains(t, string(logData), "backend=json")
}

func TestInteractiveSessionSQLite(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "c\nEpic1\ndesc\nq\n", "--backend", "sqlite")
	require.NoError(t, err)

	out, err := e.run(t, "", "--backend", "sqlite", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Epic1")
}

func TestInteractiveDeleteEpic(t *testing.T) {
	e := newEnv(t)
	e.seedJSON(t)

	out, err := e.run(t, "3\nd\nY\nq\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure you want to delete this epic?")
	assert.NotContains(t, out, "Error:")

	state, err := jsonfile.New(filepath.Join(e.dataDir, "db.json")).Read()
	require.NoError(t, err)
	assert.NotContains(t, state.Epics, uint32(3))
	assert.Contains(t, state.Epics, uint32(1))
}

func TestRejectsPositionalArgs(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "", "bogus")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(errors.New("unknown flag")))
	assert.Equal(t, exitUserError, exitCode(userError(errors.New("x"))))
	assert.Equal(t, exitSysError, exitCode(sysError(errors.New("x"))))
	assert.Equal(t, exitSysError, exitCode(classify(types.ErrStore)))
	assert.Equal(t, exitUserError, exitCode(classify(types.ErrStoryNotInEpic)))
	assert.Nil(t, classify(nil))
}
