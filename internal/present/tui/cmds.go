package tui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/notebook/internal/editor"
	"github.com/mithrel/notebook/internal/notebook"
)

// changeMsg reports a write to the notebook, possibly from outside the TUI.
type changeMsg notebook.Change

// saveResultMsg conveys the outcome of a save back to Update.
type saveResultMsg struct {
	rev uint64
	err error
}

// externalEditMsg conveys the outcome of an $EDITOR round trip.
type externalEditMsg struct {
	path    string
	initial []byte
	err     error
}

// listen subscribes to the notebook. Notifications coalesce: a pending
// message already makes the model resync with the latest content.
func listen(nb *notebook.Notebook) (<-chan notebook.Change, func()) {
	ch := make(chan notebook.Change, 1)
	cancel := nb.Subscribe(func(c notebook.Change) {
		select {
		case ch <- c:
		default:
		}
	})
	return ch, cancel
}

func waitForChange(ch <-chan notebook.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return changeMsg(c)
	}
}

func saveCmd(save func(string) error, content string, rev uint64) tea.Cmd {
	return func() tea.Msg {
		return saveResultMsg{rev: rev, err: save(content)}
	}
}

// externalEditCmd suspends the program and runs the user's editor on a
// scratch copy of the note.
func externalEditCmd(ctx context.Context, name, content string) tea.Cmd {
	path, err := editor.PathForNote(name)
	if err != nil {
		return func() tea.Msg { return externalEditMsg{err: err} }
	}
	initial := []byte(content)
	if err := editor.PrepareAt(path, initial); err != nil {
		return func() tea.Msg { return externalEditMsg{err: err} }
	}
	c, err := editor.Command(ctx, path)
	if err != nil {
		return func() tea.Msg { return externalEditMsg{err: err} }
	}
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return externalEditMsg{path: path, initial: initial, err: err}
	})
}

func removeScratch(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}
