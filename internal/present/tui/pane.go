package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	focusedBorder = lipgloss.Color("63")
	blurredBorder = lipgloss.Color("240")
)

// previewPane shows rendered note output inside a bordered, scrollable
// viewport.
type previewPane struct {
	vp      viewport.Model
	content string
	width   int
	height  int
}

func newPreviewPane() previewPane {
	return previewPane{vp: viewport.New(10, 5)}
}

// resize sets the outer size including the border.
func (p *previewPane) resize(w, h int) {
	p.width, p.height = w, h
	p.vp.Width = max(10, w-2)
	p.vp.Height = max(3, h-2)
	// Re-apply current content with new size
	p.vp.SetContent(p.content)
}

// innerWidth is the width available to rendered text.
func (p *previewPane) innerWidth() int { return p.vp.Width }

func (p *previewPane) setContent(s string) {
	p.content = s
	p.vp.SetContent(s)
}

func (p *previewPane) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

func (p *previewPane) view(focused bool) string {
	return box(focused).Render(p.vp.View())
}

func box(focused bool) lipgloss.Style {
	c := blurredBorder
	if focused {
		c = focusedBorder
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c)
}
