package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Envelope is the top-level shape of every CLI payload.
type Envelope struct {
	Data  any      `json:"data"`
	Meta  any      `json:"meta,omitempty"`
	Hints []string `json:"_hints,omitempty"`
}

// Write writes v in the requested format.
//
// Supported formats:
// - json (default)
// - edn
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s (expected json|edn)", format)
	}
}

// Valid reports whether Write understands format.
func Valid(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json", "edn":
		return true
	}
	return false
}

// WriteJSON writes strict JSON followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
