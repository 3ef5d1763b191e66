package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mesh-intelligence/backlog/internal/jiradb"
	"github.com/mesh-intelligence/backlog/internal/jsonfile"
	"github.com/mesh-intelligence/backlog/internal/sqlite"
	"github.com/mesh-intelligence/backlog/pkg/types"
)

// openStore opens the configured backend. The caller must close the
// returned closer.
func openStore(s settings) (types.Store, io.Closer, error) {
	switch s.Backend {
	case types.BackendSQLite:
		st, err := sqlite.Open(s.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return st, st, nil
	case types.BackendJSON:
		return jsonfile.New(s.DBPath), io.NopCloser(nil), nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, s.Backend)
	}
}

// openDatabase opens the configured store and wraps it in a Database.
func openDatabase(s settings, logger *slog.Logger) (*jiradb.Database, io.Closer, error) {
	store, closer, err := openStore(s)
	if err != nil {
		return nil, nil, err
	}
	return jiradb.New(store, jiradb.WithLogger(logger)), closer, nil
}
