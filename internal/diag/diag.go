package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Location points at the offending section, entity and field. Any part may be
// empty when it does not apply.
type Location struct {
	Section []string `json:"section,omitempty"`
	Entity  string   `json:"entity,omitempty"`
	Field   string   `json:"field,omitempty"`
}

// IsZero reports whether the location carries no information.
func (l Location) IsZero() bool {
	return len(l.Section) == 0 && l.Entity == "" && l.Field == ""
}

// String renders the location as "section → entity → field".
func (l Location) String() string {
	var parts []string
	if len(l.Section) > 0 {
		parts = append(parts, strings.Join(l.Section, "/"))
	}
	if l.Entity != "" {
		parts = append(parts, l.Entity)
	}
	if l.Field != "" {
		parts = append(parts, l.Field)
	}
	return strings.Join(parts, " → ")
}

// Violation is a single detected breach of an invariant.
type Violation struct {
	Kind     Kind       `json:"kind"`
	Detail   string     `json:"detail,omitempty"`
	Message  string     `json:"message"`
	Location Location   `json:"location"`
	Related  []string   `json:"related,omitempty"`
	Allowed  []string   `json:"allowed,omitempty"`
	Subject  *hcl.Range `json:"-"`
}

// Error lets a lone violation travel as an error.
func (v Violation) Error() string {
	if v.Location.IsZero() {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Location, v.Message)
}

// Diagnostic is the single terminal error of a failed compilation.
type Diagnostic struct {
	Kind       Kind        `json:"kind"`
	Message    string      `json:"message"`
	Violations []Violation `json:"violations"`
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Names returns every related name carried by the violations, in order and
// without repeats.
func (d *Diagnostic) Names() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, v := range d.Violations {
		for _, name := range v.Related {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// New builds a diagnostic with an explicit summary message.
func New(kind Kind, message string, violations ...Violation) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: message, Violations: violations}
}

// FromViolations aggregates violations into one diagnostic. The kind is taken
// from the first violation and the message joins the individual messages.
func FromViolations(violations []Violation) *Diagnostic {
	if len(violations) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		msgs = append(msgs, v.Message)
	}
	return &Diagnostic{
		Kind:       violations[0].Kind,
		Message:    strings.Join(msgs, "; "),
		Violations: violations,
	}
}

// Single wraps one violation into a diagnostic.
func Single(v Violation) *Diagnostic {
	return &Diagnostic{Kind: v.Kind, Message: v.Message, Violations: []Violation{v}}
}

// As extracts a *Diagnostic from an error chain.
func As(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// IsKind reports whether err carries a diagnostic of the given kind.
func IsKind(err error, kind Kind) bool {
	d, ok := As(err)
	return ok && d.Kind == kind
}
