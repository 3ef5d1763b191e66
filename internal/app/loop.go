// Package app runs the interactive session: render the current page, read a
// line, hand it to the page, and pass the resulting action to the navigator.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/mesh-intelligence/backlog/internal/ui"
)

// Navigator is the part of the navigator the loop drives.
type Navigator interface {
	CurrentPage() ui.Page
	HandleAction(action *ui.Action) error
}

// Options configures Run.
type Options struct {
	// In supplies input lines. A ui.LineSource is used as is so that the
	// loop and line prompts can share one reader.
	In io.Reader
	Out io.Writer

	// Clear, if set, runs before each page is rendered.
	Clear func()

	Logger *slog.Logger
}

const farewell = "Good Bye!"

// Run drives nav until its page stack is empty, input ends, or ctx is
// cancelled. Render and action errors are printed and the loop goes on.
func Run(ctx context.Context, nav Navigator, opts Options) error {
	in := lineSource(opts.In)
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	defer fmt.Fprintf(out, "%s\n\n", farewell)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		page := nav.CurrentPage()
		if page == nil {
			logger.Info("session finished")
			return nil
		}
		if opts.Clear != nil {
			opts.Clear()
		}

		if err := page.Render(out); err != nil {
			logger.Warn("render failed", "page", page.Kind().String(), "err", err)
			fmt.Fprintf(out, "Error rendering page: %v\nEnter p to go back...\n", err)
		}

		line, err := in.ReadLine()
		if err != nil {
			return endOfInput(err, logger)
		}
		input := strings.TrimRightFunc(line, unicode.IsSpace)

		action, err := page.HandleInput(input)
		if err == nil {
			err = nav.HandleAction(action)
		}
		if err == nil {
			continue
		}

		logger.Warn("action failed", "page", page.Kind().String(), "input", input, "err", err)
		fmt.Fprintf(out, "Error: %v\n", err)
		if opts.Clear != nil {
			fmt.Fprintln(out, "Press enter to continue...")
			if _, err := in.ReadLine(); err != nil {
				return endOfInput(err, logger)
			}
		}
	}
}

func lineSource(r io.Reader) ui.LineSource {
	if r == nil {
		r = strings.NewReader("")
	}
	if ls, ok := r.(ui.LineSource); ok {
		return ls
	}
	return ui.NewLineReader(r)
}

// endOfInput ends the session cleanly on EOF and reports any other read error.
func endOfInput(err error, logger *slog.Logger) error {
	if errors.Is(err, io.EOF) {
		logger.Info("input closed")
		return nil
	}
	return fmt.Errorf("reading input: %w", err)
}

// ScreenClearer returns a function that clears the terminal behind out.
func ScreenClearer(out io.Writer) func() {
	o := termenv.NewOutput(out)
	return o.ClearScreen
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
