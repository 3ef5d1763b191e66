package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/backlog/internal/app"
	"github.com/mesh-intelligence/backlog/internal/navigator"
	"github.com/mesh-intelligence/backlog/internal/ui"
)

// runInteractive starts the page loop on the command's input and output.
// On a terminal it asks through huh forms and clears the screen between
// pages; otherwise it reads plain answer lines.
func (c *command) runInteractive(cmd *cobra.Command, args []string) error {
	s := c.settings

	logger, logCloser, err := app.NewLogger(app.LogConfig{File: s.LogFile, Level: s.LogLevel})
	if err != nil {
		return sysError(fmt.Errorf("logger: %w", err))
	}
	defer closeQuietly(logCloser)

	db, closer, err := openDatabase(s, logger)
	if err != nil {
		return classify(err)
	}
	defer closeQuietly(closer)

	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	lines := ui.NewLineReader(in)
	opts := app.Options{In: lines, Out: out, Logger: logger}

	var prompts ui.Prompts
	switch {
	case !isTerminal(in):
		prompts = ui.NewLinePrompts(lines, out)
	case s.Accessible:
		prompts = ui.NewPrompts(lines, out, true)
	default:
		prompts = ui.NewPrompts(in, out, false)
	}
	if isTerminal(in) && !s.Plain {
		opts.Clear = app.ScreenClearer(out)
	}

	nav := navigator.New(db,
		navigator.WithPrompts(prompts),
		navigator.WithTheme(ui.NewTheme(out, s.Plain)),
		navigator.WithLogger(logger),
	)

	logger.Info("session started", "backend", s.Backend, "db", s.DBPath)
	if err := app.Run(cmd.Context(), nav, opts); err != nil {
		return sysError(err)
	}
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && app.IsTerminal(f)
}
