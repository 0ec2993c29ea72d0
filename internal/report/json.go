package report

import (
	"encoding/json"
	"io"

	"github.com/specialistvlad/declc/internal/diag"
)

type jsonError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type jsonReport struct {
	Unit       string           `json:"unit,omitempty"`
	Diagnostic *diag.Diagnostic `json:"diagnostic,omitempty"`
	Error      *jsonError       `json:"error,omitempty"`
}

// JSON writes err as an indented JSON document.
func JSON(w io.Writer, unit string, err error) error {
	r := jsonReport{Unit: unit}
	if d, ok := diag.As(err); ok {
		r.Diagnostic = d
	} else {
		r.Error = &jsonError{Kind: "error", Message: err.Error()}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
