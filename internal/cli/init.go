package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/backlog/internal/jsonfile"
	"github.com/mesh-intelligence/backlog/internal/sqlite"
	"github.com/mesh-intelligence/backlog/pkg/types"
)

func (c *command) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize backlog storage",
		Long:  "Create the configuration and data directories and an empty database if none exists.",
		Args:  cobra.NoArgs,
		RunE:  c.runInit,
	}
}

// runInit relies on load having created the config directory and
// config.yaml already.
func (c *command) runInit(cmd *cobra.Command, args []string) error {
	s := c.settings

	if err := os.MkdirAll(s.DataDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create data directory: %w", err))
	}

	switch s.Backend {
	case types.BackendSQLite:
		st, err := sqlite.Open(s.DBPath)
		if err != nil {
			return sysError(fmt.Errorf("initialize storage: %w", err))
		}
		if err := st.Close(); err != nil {
			return sysError(fmt.Errorf("finalize storage: %w", err))
		}
	default:
		if err := jsonfile.New(s.DBPath).Init(); err != nil {
			return sysError(fmt.Errorf("initialize storage: %w", err))
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "backlog initialized successfully")
	fmt.Fprintln(out, "  config:  ", s.ConfigDir)
	fmt.Fprintln(out, "  data:    ", s.DataDir)
	fmt.Fprintln(out, "  database:", s.DBPath)
	return nil
}
