package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/backlog/internal/transfer"
)

var errNotEmpty = errors.New("database is not empty")

func (c *command) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the whole database as JSON Lines",
		Long: `Write every epic and story as JSON Lines, to the file if one is given and
to standard output otherwise. The output can be loaded with "backlog import",
also into a different backend.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closer, err := openStore(c.settings)
			if err != nil {
				return classify(err)
			}
			defer closeQuietly(closer)

			state, err := store.Read()
			if err != nil {
				return classify(err)
			}
			if len(args) == 0 {
				return classify(transfer.Export(cmd.OutOrStdout(), state))
			}
			if err := transfer.WriteFile(args[0], state); err != nil {
				return sysError(fmt.Errorf("export: %w", err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d epics and %d stories to %s\n", len(state.Epics), len(state.Stories), args[0])
			return nil
		},
	}
}

func (c *command) newImportCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the database with a JSON Lines export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := transfer.ReadFile(args[0])
			if err != nil {
				return userError(fmt.Errorf("import: %w", err))
			}

			store, closer, err := openStore(c.settings)
			if err != nil {
				return classify(err)
			}
			defer closeQuietly(closer)

			current, err := store.Read()
			if err != nil {
				return classify(err)
			}
			if !force && (current.LastItemID > 0 || len(current.Epics) > 0) {
				return userError(fmt.Errorf("import: %w (use --force to replace it)", errNotEmpty))
			}
			if err := store.Write(state); err != nil {
				return classify(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d epics and %d stories into %s\n", len(state.Epics), len(state.Stories), c.settings.DBPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace a database that already holds data")
	return cmd
}
