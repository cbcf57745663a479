package present

import (
	"errors"
	"html/template"
	"io"

	"github.com/mithrel/notebook/internal/notebook"
	"github.com/mithrel/notebook/internal/present/format"
	"github.com/mithrel/notebook/internal/render"
)

type Mode int

const (
	ModeHTML Mode = iota
	ModePretty
	ModeJSON
	ModePage
)

// Modes lists the accepted --output values.
var Modes = []string{"html", "pretty", "json", "page"}

// ParseMode parses a string like "html", "pretty", "json", "page".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "html", "":
		return ModeHTML, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "page":
		return ModePage, true
	default:
		return ModeHTML, false
	}
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(Modes) {
		return Modes[m]
	}
	return "unknown"
}

type Options struct {
	Mode       Mode
	JSONIndent bool
	// Sanitizer, when set, cleans HTML output before it is written.
	Sanitizer *render.Sanitizer
	// Terminal is required for ModePretty.
	Terminal *render.Terminal
}

// RenderNote writes the notebook's current state according to options.
func RenderNote(w io.Writer, nb *notebook.Notebook, opts Options) error {
	snap, err := nb.Snapshot()
	if err != nil {
		return err
	}
	if opts.Sanitizer != nil {
		snap.Preview = opts.Sanitizer.Sanitize(snap.Preview)
	}
	switch opts.Mode {
	case ModePretty:
		if opts.Terminal == nil {
			return errors.New("pretty output needs a terminal renderer")
		}
		return format.WritePretty(w, opts.Terminal, snap.Content)
	case ModeJSON:
		return format.WriteJSONSnapshot(w, snap, opts.JSONIndent)
	case ModePage:
		return format.WritePage(w, format.Page{
			Title: notebook.Title(snap.Content),
			Body:  template.HTML(snap.Preview),
		})
	default:
		return format.WriteHTML(w, snap.Preview)
	}
}
