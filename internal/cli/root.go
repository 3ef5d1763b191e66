// Package cli implements the backlog command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/backlog/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	plain     bool
}

// command carries the flags and the effective settings shared by the
// subcommands of one root command.
type command struct {
	flags    rootFlags
	settings settings
}

// NewRootCmd creates the top-level "backlog" command with global flags and
// all subcommands registered. Without a subcommand it starts an interactive
// session.
func NewRootCmd() *cobra.Command {
	c := &command{}

	root := &cobra.Command{
		Use:   "backlog",
		Short: "Track epics and stories from the terminal",
		Long: `backlog keeps epics and the stories under them in a local database and
lets you browse and edit them page by page in the terminal.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return c.load()
		},
		RunE: c.runInteractive,
	}

	root.PersistentFlags().StringVar(&c.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/backlog)")
	root.PersistentFlags().StringVar(&c.flags.dataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/backlog)")
	root.PersistentFlags().StringVar(&c.flags.backend, "backend", "", "storage backend: json or sqlite")
	root.PersistentFlags().BoolVar(&c.flags.plain, "plain", false, "disable colors and screen clearing")

	root.AddCommand(newVersionCmd())
	root.AddCommand(c.newInitCmd())
	root.AddCommand(c.newConfigCmd())
	root.AddCommand(c.newListCmd())
	root.AddCommand(c.newShowCmd())
	root.AddCommand(c.newExportCmd())
	root.AddCommand(c.newImportCmd())

	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "backlog:", err)
	}
	os.Exit(exitCode(err))
}

// exitError attaches a process exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }

func sysError(err error) error { return &exitError{code: exitSysError, err: err} }

// classify marks repository lookups and config mistakes as user errors and
// everything else as a system error.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrInvalidEpicID),
		errors.Is(err, types.ErrInvalidStoryID),
		errors.Is(err, types.ErrBackendEmpty),
		errors.Is(err, types.ErrBackendUnknown):
		return userError(err)
	default:
		return sysError(err)
	}
}

// exitCode maps an Execute error to a process exit code. Errors without an
// attached code come from argument parsing and count as user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}
