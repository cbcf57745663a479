// Package tui implements the split-pane live editor: Markdown on the left,
// the rendered note on the right, re-rendered on every keystroke.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/notebook/internal/editor"
	"github.com/mithrel/notebook/internal/notebook"
	"github.com/mithrel/notebook/internal/render"
)

// Options configures the editor.
type Options struct {
	// Name labels the note in the status bar and scratch files.
	Name string
	// Pretty builds a terminal renderer wrapping at width.
	Pretty func(width int) (render.Converter, error)
	// Save persists content; nil disables ctrl+s.
	Save func(content string) error
}

// Result summarizes the session once the program exits.
type Result struct {
	// Dirty is true when the note changed after the last successful save.
	Dirty bool
}

type pane int

const (
	paneInput pane = iota
	panePreview
)

type Model struct {
	ctx  context.Context
	nb   *notebook.Notebook
	opts Options

	input   textarea.Model
	preview previewPane
	keys    keyMap
	help    help.Model

	// pretty tracks the notebook through the terminal renderer; it is
	// rebuilt when the preview width changes.
	pretty    *notebook.Computed[string, string]
	prettyW   int
	showHTML  bool
	focus     pane
	changes   <-chan notebook.Change
	unsub     func()
	savedRev  uint64
	status    string
	renderErr error
	width     int
	height    int
}

// New builds the model. The caller must call Close when done.
func New(ctx context.Context, nb *notebook.Notebook, opts Options) *Model {
	in := textarea.New()
	in.CharLimit = 0
	in.MaxHeight = 0
	in.ShowLineNumbers = false
	in.Placeholder = "Write Markdown…"
	in.SetValue(nb.Content())
	in.Focus()

	changes, unsub := listen(nb)
	m := &Model{
		ctx:      ctx,
		nb:       nb,
		opts:     opts,
		input:    in,
		preview:  newPreviewPane(),
		keys:     defaultKeys(),
		help:     help.New(),
		changes:  changes,
		unsub:    unsub,
		savedRev: nb.Revision(),
	}
	m.resize(80, 24)
	return m
}

// Close drops the notebook subscription.
func (m *Model) Close() { m.unsub() }

// Dirty reports whether the note changed since it was last saved.
func (m *Model) Dirty() bool { return m.nb.Revision() != m.savedRev }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForChange(m.changes))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case changeMsg:
		// Writes made outside the textarea (e.g. $EDITOR) flow back here.
		if cur := m.nb.Content(); cur != m.input.Value() {
			m.input.SetValue(cur)
		}
		m.refresh()
		return m, waitForChange(m.changes)

	case saveResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Save failed: %v", msg.err)
			return m, nil
		}
		m.savedRev = msg.rev
		m.status = "Saved"
		return m, nil

	case externalEditMsg:
		defer removeScratch(msg.path)
		if msg.err != nil {
			m.status = fmt.Sprintf("Editor failed: %v", msg.err)
			return m, nil
		}
		final, changed, err := editor.ReadBack(msg.path, msg.initial)
		if err != nil {
			m.status = fmt.Sprintf("Editor failed: %v", err)
			return m, nil
		}
		if changed {
			m.nb.SetContent(string(final))
			m.status = "Updated from editor"
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Save):
			if m.opts.Save == nil {
				m.status = "No file to save to"
				return m, nil
			}
			m.status = "Saving…"
			content, rev := m.nb.Value()
			return m, saveCmd(m.opts.Save, content, rev)
		case key.Matches(msg, m.keys.SwitchPane):
			m.toggleFocus()
			return m, nil
		case key.Matches(msg, m.keys.ToggleHTML):
			m.showHTML = !m.showHTML
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.External):
			return m, externalEditCmd(m.ctx, m.opts.Name, m.nb.Content())
		}
	}

	if m.focus == panePreview {
		return m, m.preview.update(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.nb.Content() {
		m.nb.SetContent(v)
		m.refresh()
	}
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == paneInput {
		m.focus = panePreview
		m.input.Blur()
		return
	}
	m.focus = paneInput
	m.input.Focus()
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	bodyH := max(5, h-2)
	leftW := w / 2
	rightW := w - leftW

	m.input.SetWidth(max(10, leftW-2))
	m.input.SetHeight(max(3, bodyH-2))
	m.preview.resize(rightW, bodyH)
	m.help.Width = w
	m.refresh()
}

// refresh re-reads the derived output for the current note into the
// preview pane.
func (m *Model) refresh() {
	out, err := m.render()
	m.renderErr = err
	if err != nil {
		m.preview.setContent("render error: " + err.Error())
		return
	}
	m.preview.setContent(out)
}

func (m *Model) render() (string, error) {
	if m.showHTML {
		return m.nb.Preview()
	}
	if m.opts.Pretty == nil {
		return "", errors.New("no terminal renderer configured")
	}
	if w := m.preview.innerWidth(); m.pretty == nil || w != m.prettyW {
		conv, err := m.opts.Pretty(w)
		if err != nil {
			return "", err
		}
		m.pretty = notebook.NewComputed[string, string](m.nb, conv.Convert)
		m.prettyW = w
	}
	return m.pretty.Get()
}

func (m *Model) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		box(m.focus == paneInput).Render(m.input.View()),
		m.preview.view(m.focus == panePreview),
	)
	return body + "\n" + m.footer()
}

func (m *Model) footer() string {
	name := m.opts.Name
	if name == "" {
		name = notebook.Title(m.nb.Content())
	}
	mode := "pretty"
	if m.showHTML {
		mode = "html"
	}
	right := fmt.Sprintf("%s • %s • rev %d", name, mode, m.nb.Revision())
	if m.Dirty() {
		right += " •"
	}
	if m.status != "" {
		right = m.status + " • " + right
	}
	left := m.help.View(m.keys)
	space := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", space) + right
}

// Run starts the editor on nb and blocks until the user quits.
func Run(ctx context.Context, nb *notebook.Notebook, opts Options) (Result, error) {
	m := New(ctx, nb, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return Result{}, err
	}
	return Result{Dirty: m.Dirty()}, nil
}
