package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/declc/internal/hclutil"
	"github.com/specialistvlad/declc/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// TypeFromExpr converts a type expression such as `list(atom)` or
// `one_of("sh", "bash")` into a schema.Type.
func TypeFromExpr(expr hcl.Expression) (schema.Type, hcl.Diagnostics) {
	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return schema.Type{}, typeError(expr, "A type keyword must be a single identifier.")
		}
		keyword := v.Traversal.RootName()
		kind, ok := schema.KindByKeyword(keyword)
		if !ok {
			return schema.Type{}, typeError(expr, fmt.Sprintf("The keyword %q is not a valid type.", keyword))
		}
		return schema.Type{Kind: kind}, nil

	case *hclsyntax.FunctionCallExpr:
		return typeFromCall(v)

	default:
		return schema.Type{}, typeError(expr, fmt.Sprintf("Unsupported expression for a type definition: %T.", v))
	}
}

func typeFromCall(call *hclsyntax.FunctionCallExpr) (schema.Type, hcl.Diagnostics) {
	switch call.Name {
	case "list":
		if len(call.Args) != 1 {
			return schema.Type{}, typeError(call, "list() takes exactly one element type.")
		}
		elem, diags := TypeFromExpr(call.Args[0])
		if diags.HasErrors() {
			return schema.Type{}, diags
		}
		return schema.ListOf(elem), nil

	case "map":
		var key, value schema.Type
		var diags hcl.Diagnostics
		switch len(call.Args) {
		case 1:
			key = schema.String()
			value, diags = TypeFromExpr(call.Args[0])
		case 2:
			key, diags = TypeFromExpr(call.Args[0])
			if !diags.HasErrors() {
				value, diags = TypeFromExpr(call.Args[1])
			}
		default:
			return schema.Type{}, typeError(call, "map() takes a value type, or a key type and a value type.")
		}
		if diags.HasErrors() {
			return schema.Type{}, diags
		}
		return schema.MapOf(key, value), nil

	case "one_of":
		if len(call.Args) == 0 {
			return schema.Type{}, typeError(call, "one_of() needs at least one allowed value.")
		}
		values := make([]cty.Value, 0, len(call.Args))
		for _, arg := range call.Args {
			if name, ok := hclutil.SymbolName(arg); ok {
				values = append(values, cty.StringVal(name))
				continue
			}
			val, diags := arg.Value(nil)
			if diags.HasErrors() {
				return schema.Type{}, diags
			}
			values = append(values, val)
		}
		return schema.OneOf(values...), nil

	case "keyword_list":
		if len(call.Args) != 1 {
			return schema.Type{}, typeError(call, "keyword_list() takes exactly one object of option types.")
		}
		obj, ok := call.Args[0].(*hclsyntax.ObjectConsExpr)
		if !ok {
			return schema.Type{}, typeError(call.Args[0], "The argument to keyword_list() must be an object like { key = type, ... }.")
		}
		options := make([]schema.FieldSpec, 0, len(obj.Items))
		for _, item := range obj.Items {
			key := hcl.ExprAsKeyword(item.KeyExpr)
			if key == "" {
				return schema.Type{}, typeError(item.KeyExpr, "Option names must be simple identifiers.")
			}
			t, diags := TypeFromExpr(item.ValueExpr)
			if diags.HasErrors() {
				return schema.Type{}, diags
			}
			options = append(options, schema.FieldSpec{Name: key, Type: t})
		}
		return schema.KeywordList(options...), nil

	default:
		return schema.Type{}, typeError(call, fmt.Sprintf("Unknown type constructor %q.", call.Name))
	}
}

func typeError(expr hcl.Expression, detail string) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Invalid type specification",
		Detail:   detail,
		Subject:  expr.Range().Ptr(),
	}}
}
