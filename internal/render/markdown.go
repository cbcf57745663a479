package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter turns Markdown source into another textual form.
type Converter interface {
	Convert(source string) (string, error)
}

// ConverterFunc adapts a plain function to the Converter interface.
type ConverterFunc func(source string) (string, error)

func (f ConverterFunc) Convert(source string) (string, error) { return f(source) }

// Options toggles goldmark extensions and renderer flags.
// The zero value renders plain CommonMark with raw HTML omitted.
type Options struct {
	GFM         bool
	Footnotes   bool
	HardWraps   bool
	Unsafe      bool
	Typographer bool
}

// Markdown converts Markdown to HTML using goldmark.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown builds a goldmark-backed HTML converter.
func NewMarkdown(opts Options) *Markdown {
	var exts []goldmark.Extender
	if opts.GFM {
		exts = append(exts, extension.GFM)
	}
	if opts.Footnotes {
		exts = append(exts, extension.Footnote)
	}
	if opts.Typographer {
		exts = append(exts, extension.Typographer)
	}

	var ropts []renderer.Option
	if opts.HardWraps {
		ropts = append(ropts, html.WithHardWraps())
	}
	if opts.Unsafe {
		ropts = append(ropts, html.WithUnsafe())
	}

	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithRendererOptions(ropts...),
		),
	}
}

// Convert renders source to an HTML fragment. Errors from goldmark are
// returned as-is.
func (m *Markdown) Convert(source string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToHTML renders source with the default CommonMark converter.
func ToHTML(source string) (string, error) {
	return defaultMarkdown.Convert(source)
}

var defaultMarkdown = NewMarkdown(Options{})
