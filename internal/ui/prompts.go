package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/text/unicode/norm"

	"github.com/mesh-intelligence/backlog/pkg/types"
)

// ErrPromptAborted is returned by a create prompt the user abandoned. The
// navigator treats it as "no action".
var ErrPromptAborted = errors.New("prompt aborted")

// Prompts collects the extra values some actions need. Each field can be
// replaced, which is how tests script user answers.
type Prompts struct {
	CreateEpic  func() (types.Epic, error)
	CreateStory func() (types.Story, error)
	DeleteEpic  func() (bool, error)
	DeleteStory func() (bool, error)

	// UpdateStatus returns nil when the user picked no valid status.
	UpdateStatus func() (*types.Status, error)
}

const promptRule = "----------------------------"

// ParseStatusChoice maps the status menu numbers 1 to 4 to a status.
func ParseStatusChoice(choice string) (types.Status, bool) {
	switch choice {
	case "1":
		return types.StatusOpen, true
	case "2":
		return types.StatusInProgress, true
	case "3":
		return types.StatusResolved, true
	case "4":
		return types.StatusClosed, true
	}
	return 0, false
}

// normalizeText trims s and puts it in Unicode NFC form, so names typed with
// combining marks compare equal to their precomposed spelling.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NewPrompts returns prompts built on huh forms. In accessible mode huh asks
// one plain question per line instead of drawing a form.
func NewPrompts(in io.Reader, out io.Writer, accessible bool) Prompts {
	f := formPrompter{in: in, out: out, accessible: accessible}
	return Prompts{
		CreateEpic:   f.createEpic,
		CreateStory:  f.createStory,
		DeleteEpic:   f.confirm("Delete this epic? All stories in this epic will also be deleted."),
		DeleteStory:  f.confirm("Delete this story?"),
		UpdateStatus: f.updateStatus,
	}
}

type formPrompter struct {
	in         io.Reader
	out        io.Writer
	accessible bool
}

func (f formPrompter) run(fields ...huh.Field) error {
	form := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(huh.ThemeCharm()).
		WithAccessible(f.accessible).
		WithInput(f.in).
		WithOutput(f.out)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrPromptAborted
		}
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}

func (f formPrompter) createEpic() (types.Epic, error) {
	var name, description string
	err := f.run(
		huh.NewInput().Title("Epic Name").Value(&name),
		huh.NewText().Title("Epic Description").Value(&description),
	)
	if err != nil {
		return types.Epic{}, err
	}
	return types.NewEpic(normalizeText(name), normalizeText(description)), nil
}

func (f formPrompter) createStory() (types.Story, error) {
	var name, description string
	err := f.run(
		huh.NewInput().Title("Story Name").Value(&name),
		huh.NewText().Title("Story Description").Value(&description),
	)
	if err != nil {
		return types.Story{}, err
	}
	return types.NewStory(normalizeText(name), normalizeText(description)), nil
}

func (f formPrompter) confirm(title string) func() (bool, error) {
	return func() (bool, error) {
		var ok bool
		err := f.run(huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&ok))
		if errors.Is(err, ErrPromptAborted) {
			return false, nil
		}
		return ok, err
	}
}

func (f formPrompter) updateStatus() (*types.Status, error) {
	options := make([]huh.Option[types.Status], 0, len(types.Statuses))
	for _, s := range types.Statuses {
		options = append(options, huh.NewOption(s.String(), s))
	}

	var status types.Status
	err := f.run(huh.NewSelect[types.Status]().
		Title("New Status").
		Options(options...).
		Value(&status))
	if errors.Is(err, ErrPromptAborted) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// NewLinePrompts returns prompts that print a question to out and read one
// answer line from in. They are used when input is not a terminal.
func NewLinePrompts(in LineSource, out io.Writer) Prompts {
	l := linePrompter{in: in, out: out}
	return Prompts{
		CreateEpic: func() (types.Epic, error) {
			name, description, err := l.nameAndDescription("Epic")
			if err != nil {
				return types.Epic{}, err
			}
			return types.NewEpic(name, description), nil
		},
		CreateStory: func() (types.Story, error) {
			name, description, err := l.nameAndDescription("Story")
			if err != nil {
				return types.Story{}, err
			}
			return types.NewStory(name, description), nil
		},
		DeleteEpic:   l.confirm("Are you sure you want to delete this epic? All stories in this epic will also be deleted [Y/n]:"),
		DeleteStory:  l.confirm("Are you sure you want to delete this story? [Y/n]:"),
		UpdateStatus: l.updateStatus,
	}
}

type linePrompter struct {
	in  LineSource
	out io.Writer
}

func (l linePrompter) ask(question string) (string, error) {
	if _, err := fmt.Fprintf(l.out, "%s\n%s\n", promptRule, question); err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	return l.answer()
}

func (l linePrompter) answer() (string, error) {
	line, err := l.in.ReadLine()
	if errors.Is(err, io.EOF) {
		return "", ErrPromptAborted
	}
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	return strings.TrimRight(line, " \t\r\n"), nil
}

func (l linePrompter) nameAndDescription(what string) (string, string, error) {
	name, err := l.ask(what + " Name:")
	if err != nil {
		return "", "", err
	}
	if _, err := fmt.Fprintf(l.out, "%s Description:\n", what); err != nil {
		return "", "", fmt.Errorf("prompt: %w", err)
	}
	description, err := l.answer()
	if err != nil {
		return "", "", err
	}
	return normalizeText(name), normalizeText(description), nil
}

// confirm accepts only an exact "Y".
func (l linePrompter) confirm(question string) func() (bool, error) {
	return func() (bool, error) {
		reply, err := l.ask(question)
		if errors.Is(err, ErrPromptAborted) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return reply == "Y", nil
	}
}

func (l linePrompter) updateStatus() (*types.Status, error) {
	reply, err := l.ask("New Status (1 - OPEN, 2 - IN-PROGRESS, 3 - RESOLVED, 4 - CLOSED):")
	if errors.Is(err, ErrPromptAborted) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	status, ok := ParseStatusChoice(reply)
	if !ok {
		return nil, nil
	}
	return &status, nil
}
