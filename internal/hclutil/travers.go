package hclutil

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// TraversalKey renders a traversal in canonical HCL syntax, index steps
// included, e.g. `schemas.event[0]`.
func TraversalKey(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// TraversalName renders a traversal made only of attribute steps as a dotted
// name, e.g. `schemas.event`. It reports false for index or splat steps.
func TraversalName(t hcl.Traversal) (string, bool) {
	if len(t) == 0 {
		return "", false
	}
	parts := make([]string, 0, len(t))
	for _, step := range t {
		switch s := step.(type) {
		case hcl.TraverseRoot:
			parts = append(parts, s.Name)
		case hcl.TraverseAttr:
			parts = append(parts, s.Name)
		default:
			return "", false
		}
	}
	return strings.Join(parts, "."), true
}

// SymbolName reads an expression written as a bare identifier or dotted
// traversal, e.g. `lint` or `schemas.event`. String literals are not symbols.
func SymbolName(expr hcl.Expression) (string, bool) {
	if t, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() {
		return TraversalName(t)
	}
	return "", false
}
