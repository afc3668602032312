package views

import (
	"encoding/json"
	"io"
)

// JSON renders response data as a JSON object. The template argument is
// ignored: the serialized form is the data itself.
type JSON struct {
	// Indent pretty-prints the output when true. Off by default; API
	// responses do not pay for whitespace.
	Indent bool
}

// NewJSON returns a compact JSON view.
func NewJSON() *JSON { return &JSON{} }

func (v *JSON) ContentType() string { return "application/json; charset=utf-8" }

func (v *JSON) Render(w io.Writer, data map[string]any, _ string) error {
	enc := json.NewEncoder(w)
	if v.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(data)
}
