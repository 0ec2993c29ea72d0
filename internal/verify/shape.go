package verify

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/declc/internal/diag"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/specialistvlad/declc/internal/pass"
)

// ShapeRule lists what an entity carrying one tag value must and must not
// declare. Fields are checked by presence; children by block name.
type ShapeRule struct {
	RequireFields   []string
	ForbidFields    []string
	RequireChildren []string
	ForbidChildren  []string
}

// Shape checks entities in sections matched by pattern against the rule
// selected by the value of their tagField. Entities without the tag, or with
// a tag that has no rule, are not checked.
func Shape(name string, pattern model.Pattern, tagField string, rules map[string]ShapeRule, ordering ...pass.Info) pass.Verifier {
	return pass.Verifier{
		Info: info(name, ordering),
		Fn: func(_ context.Context, s *model.State) []diag.Violation {
			var out []diag.Violation
			for _, section := range s.Match(pattern) {
				for _, e := range s.Entities(section) {
					tag, ok := e.StringField(tagField)
					if !ok {
						continue
					}
					rule, ok := rules[tag]
					if !ok {
						continue
					}
					out = append(out, checkShape(section, e, tagField, tag, rule)...)
				}
			}
			return out
		},
	}
}

func checkShape(section model.SectionPath, e *model.Entity, tagField, tag string, rule ShapeRule) []diag.Violation {
	var out []diag.Violation
	add := func(field, format string, args ...any) {
		out = append(out, diag.Violation{
			Kind:     diag.KindStructuralConstraint,
			Message:  fmt.Sprintf("%s %q with %s %q ", e.Kind(), e.ID(), tagField, tag) + fmt.Sprintf(format, args...),
			Location: diag.Location{Section: section, Entity: e.ID(), Field: field},
			Related:  []string{e.ID()},
			Subject:  e.Range().Ptr(),
		})
	}

	for _, f := range rule.RequireFields {
		if !hasField(e, f) {
			add(f, "must declare %q", f)
		}
	}
	for _, f := range rule.ForbidFields {
		if hasField(e, f) {
			add(f, "must not declare %q", f)
		}
	}
	for _, c := range rule.RequireChildren {
		if len(e.ChildrenOf(c)) == 0 {
			add("", "must declare at least one %q block", c)
		}
	}
	for _, c := range rule.ForbidChildren {
		if len(e.ChildrenOf(c)) > 0 {
			add("", "must not declare %q blocks", c)
		}
	}
	return out
}

// hasField treats empty lists and maps as absent, so defaults such as
// `required = []` do not count as a declaration.
func hasField(e *model.Entity, name string) bool {
	v, ok := e.Field(name)
	if !ok || v.IsNull() {
		return false
	}
	if v.IsKnown() && v.CanIterateElements() && v.LengthInt() == 0 {
		return false
	}
	return true
}

// RequiredSubset checks that every name in listField is the identifier of one
// of the entity's childKind children.
func RequiredSubset(name string, pattern model.Pattern, listField, childKind string, ordering ...pass.Info) pass.Verifier {
	return pass.Verifier{
		Info: info(name, ordering),
		Fn: func(_ context.Context, s *model.State) []diag.Violation {
			var out []diag.Violation
			for _, section := range s.Match(pattern) {
				for _, e := range s.Entities(section) {
					var declared []string
					for _, c := range e.ChildrenOf(childKind) {
						declared = append(declared, c.ID())
					}
					for _, req := range e.StringListField(listField) {
						if slices.Contains(declared, req) {
							continue
						}
						out = append(out, diag.Violation{
							Kind: diag.KindStructuralConstraint,
							Message: fmt.Sprintf("%s %q lists %q in %s but declares no such %s",
								e.Kind(), e.ID(), req, listField, childKind),
							Location: diag.Location{Section: section, Entity: e.ID(), Field: listField},
							Related:  []string{req},
							Subject:  e.Range().Ptr(),
						})
					}
				}
			}
			return out
		},
	}
}
