package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/notebook/internal/notebook"
)

// NDJSONStreamWriter incrementally writes snapshots as NDJSON, one line
// per note revision.
type NDJSONStreamWriter struct {
	enc *json.Encoder
}

func NewNDJSONStreamWriter(w io.Writer) *NDJSONStreamWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &NDJSONStreamWriter{enc: enc}
}

func (nw *NDJSONStreamWriter) WriteSnapshot(s notebook.Snapshot) error {
	return nw.enc.Encode(s)
}
