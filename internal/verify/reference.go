package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/declc/internal/diag"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/specialistvlad/declc/internal/pass"
)

// Ref describes a reference field: entities in sections matched by From carry
// Field, whose values must name entities of the To section. A value may be the
// bare identifier (`event`) or qualified by the target section name
// (`schemas.event`).
type Ref struct {
	From  model.Pattern
	Field string
	To    model.SectionPath
}

// Reference reports every reference that does not resolve. All unresolved
// names across all refs are reported together.
func Reference(name string, refs []Ref, ordering ...pass.Info) pass.Verifier {
	return pass.Verifier{
		Info: info(name, ordering),
		Fn: func(_ context.Context, s *model.State) []diag.Violation {
			var out []diag.Violation
			for _, ref := range refs {
				for _, section := range s.Match(ref.From) {
					for _, e := range s.Entities(section) {
						for _, target := range referencedNames(e, ref.Field) {
							if Resolve(s, ref.To, target) {
								continue
							}
							out = append(out, diag.Violation{
								Kind: diag.KindUndefinedReference,
								Message: fmt.Sprintf("%s %q refers to undefined %s %q",
									e.Kind(), e.ID(), ref.To.Last(), target),
								Location: diag.Location{Section: section, Entity: e.ID(), Field: ref.Field},
								Related:  []string{target},
								Subject:  e.Range().Ptr(),
							})
						}
					}
				}
			}
			return out
		},
	}
}

// Resolve reports whether name designates an entity of section, either bare
// or prefixed with the section name.
func Resolve(s *model.State, section model.SectionPath, name string) bool {
	if s.Has(section, name) {
		return true
	}
	prefix := section.Last() + "."
	if id, ok := strings.CutPrefix(name, prefix); ok {
		return s.Has(section, id)
	}
	return false
}

// referencedNames returns the names held by a string or list-of-string field.
func referencedNames(e *model.Entity, field string) []string {
	if v, ok := e.StringField(field); ok {
		return []string{v}
	}
	return e.StringListField(field)
}
