package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/mesh-intelligence/backlog"

// Version is the release version. Builds override it with -ldflags -X.
var Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the backlog version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "backlog v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
