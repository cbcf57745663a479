package format

import (
	"io"

	"github.com/mithrel/notebook/internal/render"
)

// WritePretty renders Markdown source for the terminal using glamour.
func WritePretty(w io.Writer, term *render.Terminal, source string) error {
	out, err := term.Convert(source)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
