package builder

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/declc/internal/diag"
	"github.com/specialistvlad/declc/internal/hclutil"
	"github.com/specialistvlad/declc/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// evalExpr evaluates an attribute expression without variables. Bare
// identifiers are read as names when the field type is symbolic, or is a list
// of a symbolic type.
func evalExpr(expr hclsyntax.Expression, fs schema.FieldSpec) (cty.Value, *diag.Violation) {
	t := fs.Type
	if t.Symbolic() {
		if name, ok := hclutil.SymbolName(expr); ok {
			return cty.StringVal(name), nil
		}
		if v := notSymbol(fs.Name, expr); v != nil {
			return cty.NilVal, v
		}
	}
	if t.Kind == schema.KindList && t.Elem != nil && t.Elem.Symbolic() {
		if items, diags := hcl.ExprList(expr); !diags.HasErrors() {
			vals := make([]cty.Value, 0, len(items))
			for _, item := range items {
				if name, ok := hclutil.SymbolName(item); ok {
					vals = append(vals, cty.StringVal(name))
					continue
				}
				if v := notSymbol(fs.Name, item); v != nil {
					return cty.NilVal, v
				}
				v, diags := item.Value(nil)
				if diags.HasErrors() {
					return cty.NilVal, notLiteral(fs.Name, diags)
				}
				vals = append(vals, v)
			}
			if len(vals) == 0 {
				return cty.EmptyTupleVal, nil
			}
			return cty.TupleVal(vals), nil
		}
	}

	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, notLiteral(fs.Name, diags)
	}
	return v, nil
}

// notSymbol rejects traversals that index or splat, e.g. `schemas.event[0]`,
// which read like a name but cannot designate an entity.
func notSymbol(field string, expr hcl.Expression) *diag.Violation {
	t, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() {
		return nil
	}
	return &diag.Violation{
		Kind:     diag.KindSchemaViolation,
		Detail:   diag.DetailTypeMismatch,
		Message:  fmt.Sprintf("%s must be a plain name, got %s", field, hclutil.TraversalKey(t)),
		Location: diag.Location{Field: field},
	}
}

func notLiteral(field string, diags hcl.Diagnostics) *diag.Violation {
	return &diag.Violation{
		Kind:     diag.KindSchemaViolation,
		Detail:   diag.DetailTypeMismatch,
		Message:  fmt.Sprintf("%s must be a literal value: %s", field, diags[0].Summary),
		Location: diag.Location{Field: field},
	}
}

// located completes a field-level violation with where it happened.
func located(v *diag.Violation, loc diag.Location, rng hcl.Range) *diag.Diagnostic {
	out := *v
	field := v.Location.Field
	out.Location = loc
	if field != "" {
		out.Location.Field = field
	}
	out.Subject = rng.Ptr()
	return diag.Single(out)
}

func unknownConstruct(loc diag.Location, rng hcl.Range, format string, args ...any) *diag.Diagnostic {
	return diag.Single(diag.Violation{
		Kind:     diag.KindUnknownConstruct,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
		Subject:  rng.Ptr(),
	})
}

func withField(loc diag.Location, field string) diag.Location {
	loc.Field = field
	return loc
}

func entityLabel(spec *schema.EntitySpec, id string) string {
	if id != "" {
		return id
	}
	return spec.Name
}

func describeEntity(spec *schema.EntitySpec, id string) string {
	if id == "" || id == spec.Name {
		return fmt.Sprintf("%q", spec.Name)
	}
	return fmt.Sprintf("%s %q", spec.Name, id)
}

// assignable lists the field names a user may set, for suggestions.
func assignable(spec *schema.EntitySpec) []string {
	var names []string
	for _, f := range spec.Fields {
		if f.Name != spec.Identifier {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names
}
