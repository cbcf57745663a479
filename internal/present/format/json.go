package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/notebook/internal/notebook"
)

// WriteJSONSnapshot writes s as one JSON document. HTML in the preview is
// left unescaped.
func WriteJSONSnapshot(w io.Writer, s notebook.Snapshot, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(s)
}
