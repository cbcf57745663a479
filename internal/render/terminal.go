package render

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	DefaultStyle    = "dracula"
	DefaultWordWrap = 80
)

// StyleNames lists the glamour standard styles accepted by NewTerminal.
var StyleNames = []string{"ascii", "auto", "dark", "dracula", "light", "notty", "pink", "tokyo-night"}

// ValidStyle reports whether name is a known glamour standard style.
func ValidStyle(name string) bool {
	return slices.Contains(StyleNames, name)
}

// Terminal renders Markdown to ANSI-styled text for terminal display.
type Terminal struct {
	r *glamour.TermRenderer
}

// NewTerminal builds a glamour renderer. A wrap of 0 disables word wrapping.
func NewTerminal(style string, wrap int) (*Terminal, error) {
	if style == "" {
		style = DefaultStyle
	}
	if !ValidStyle(style) {
		return nil, fmt.Errorf("unknown style %q", style)
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return &Terminal{r: r}, nil
}

func (t *Terminal) Convert(source string) (string, error) {
	out, err := t.r.Render(source)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
