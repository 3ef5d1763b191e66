package types

import "errors"

// Config holds backend selection and parameters for opening a Store.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
	DBFile  string `json:"db_file" yaml:"db_file"`
}

// Supported backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendJSON:   true,
	BackendSQLite: true,
}

// DefaultDBFile returns the database file name used when DBFile is empty.
func DefaultDBFile(backend string) string {
	if backend == BackendSQLite {
		return "db.sqlite"
	}
	return "db.json"
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}
