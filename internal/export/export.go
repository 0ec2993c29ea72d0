package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/specialistvlad/declc/internal/model"
	"gopkg.in/yaml.v3"
)

// Format names an export format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Write renders the artifact in the requested format. When sections are given
// only those sections are written.
func Write(w io.Writer, a *model.Artifact, format Format, sections ...model.SectionPath) error {
	doc := NewDocument(a, sections...)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode artifact as yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode artifact as json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
