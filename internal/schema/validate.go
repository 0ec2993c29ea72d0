package schema

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/declc/internal/diag"
	"github.com/zclconf/go-cty/cty"
)

var (
	atomRegex      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]*$`)
	moduleRefRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]*(\.[A-Za-z_][A-Za-z0-9_\-]*)*$`)
)

// Validate checks value against spec and returns the coerced value.
//
// An absent value (cty.NilVal or null) fails when the field is required and
// otherwise yields the field default, which is cty.NilVal when none is
// declared. The returned violation carries Kind, Detail, Message and the field
// part of its Location; callers fill in the section and entity.
func Validate(value cty.Value, spec FieldSpec) (cty.Value, *diag.Violation) {
	if absent(value) {
		if spec.Required {
			return cty.NilVal, violation(spec.Name, diag.DetailRequired,
				fmt.Sprintf("required field %q is missing", spec.Name))
		}
		return spec.Default, nil
	}
	return check(value, spec.Type, spec.Name)
}

// CheckDefault verifies that a declared default satisfies the field's own type.
func CheckDefault(spec FieldSpec) *diag.Violation {
	if !spec.HasDefault() || spec.Default.IsNull() {
		return nil
	}
	_, v := check(spec.Default, spec.Type, spec.Name)
	return v
}

func absent(v cty.Value) bool {
	return v == cty.NilVal || v.IsNull()
}

func check(v cty.Value, t Type, path string) (cty.Value, *diag.Violation) {
	if !v.IsWhollyKnown() {
		return cty.NilVal, violation(path, diag.DetailTypeMismatch,
			fmt.Sprintf("%s must be a literal value", path))
	}

	switch t.Kind {
	case KindAny:
		return v, nil

	case KindString:
		if !v.Type().Equals(cty.String) {
			return cty.NilVal, mismatch(path, t, v)
		}
		return v, nil

	case KindAtom:
		if !v.Type().Equals(cty.String) || !atomRegex.MatchString(v.AsString()) {
			return cty.NilVal, mismatch(path, t, v)
		}
		return v, nil

	case KindModuleReference:
		if !v.Type().Equals(cty.String) || !moduleRefRegex.MatchString(v.AsString()) {
			return cty.NilVal, mismatch(path, t, v)
		}
		return v, nil

	case KindBool:
		if !v.Type().Equals(cty.Bool) {
			return cty.NilVal, mismatch(path, t, v)
		}
		return v, nil

	case KindInteger, KindPositiveInteger, KindNonNegativeInteger:
		return checkInteger(v, t, path)

	case KindOneOf:
		for _, allowed := range t.Values {
			if v.Type().Equals(allowed.Type()) && v.Equals(allowed).True() {
				return v, nil
			}
		}
		allowedStr := make([]string, 0, len(t.Values))
		for _, a := range t.Values {
			allowedStr = append(allowedStr, FormatValue(a))
		}
		viol := violation(path, diag.DetailOneOf,
			fmt.Sprintf("%s must be one of [%s], got %s", path, strings.Join(allowedStr, ", "), FormatValue(v)))
		viol.Allowed = allowedStr
		return cty.NilVal, viol

	case KindList:
		return checkList(v, t, path)

	case KindMap:
		return checkMap(v, t, path)

	case KindKeywordList:
		return checkKeywordList(v, t, path)
	}

	return cty.NilVal, violation(path, diag.DetailTypeMismatch,
		fmt.Sprintf("%s has an unsupported declared type", path))
}

func checkInteger(v cty.Value, t Type, path string) (cty.Value, *diag.Violation) {
	if !v.Type().Equals(cty.Number) {
		return cty.NilVal, mismatch(path, t, v)
	}
	bf := v.AsBigFloat()
	if !bf.IsInt() {
		return cty.NilVal, mismatch(path, t, v)
	}
	if _, acc := bf.Int64(); acc != big.Exact {
		return cty.NilVal, violation(path, diag.DetailRange,
			fmt.Sprintf("%s is out of the 64-bit integer range", path))
	}
	switch t.Kind {
	case KindPositiveInteger:
		if bf.Sign() <= 0 {
			return cty.NilVal, violation(path, diag.DetailRange,
				fmt.Sprintf("%s must be a positive integer, got %s", path, FormatValue(v)))
		}
	case KindNonNegativeInteger:
		if bf.Sign() < 0 {
			return cty.NilVal, violation(path, diag.DetailRange,
				fmt.Sprintf("%s must be a non-negative integer, got %s", path, FormatValue(v)))
		}
	}
	return v, nil
}

func checkList(v cty.Value, t Type, path string) (cty.Value, *diag.Violation) {
	ty := v.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return cty.NilVal, mismatch(path, t, v)
	}
	elem := t.elem()
	var out []cty.Value
	i := 0
	for it := v.ElementIterator(); it.Next(); i++ {
		_, ev := it.Element()
		if absent(ev) {
			return cty.NilVal, violation(fmt.Sprintf("%s[%d]", path, i), diag.DetailTypeMismatch,
				fmt.Sprintf("%s[%d] must not be null", path, i))
		}
		cv, viol := check(ev, elem, fmt.Sprintf("%s[%d]", path, i))
		if viol != nil {
			return cty.NilVal, viol
		}
		out = append(out, cv)
	}
	return collection(elem.CtyType(), out), nil
}

func checkMap(v cty.Value, t Type, path string) (cty.Value, *diag.Violation) {
	ty := v.Type()
	if !ty.IsMapType() && !ty.IsObjectType() {
		return cty.NilVal, mismatch(path, t, v)
	}
	keyType := t.key()
	elem := t.elem()
	out := make(map[string]cty.Value)
	for it := v.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		key := k.AsString()
		entryPath := path + "." + key
		if _, viol := check(k, keyType, entryPath); viol != nil {
			viol.Message = fmt.Sprintf("key %q of %s must be %s", key, path, keyType)
			return cty.NilVal, viol
		}
		if absent(ev) {
			return cty.NilVal, violation(entryPath, diag.DetailTypeMismatch,
				fmt.Sprintf("%s must not be null", entryPath))
		}
		cv, viol := check(ev, elem, entryPath)
		if viol != nil {
			return cty.NilVal, viol
		}
		out[key] = cv
	}
	et := elem.CtyType()
	if et == cty.DynamicPseudoType {
		if len(out) == 0 {
			return cty.EmptyObjectVal, nil
		}
		return cty.ObjectVal(out), nil
	}
	if len(out) == 0 {
		return cty.MapValEmpty(et), nil
	}
	return cty.MapVal(out), nil
}

func checkKeywordList(v cty.Value, t Type, path string) (cty.Value, *diag.Violation) {
	ty := v.Type()
	if !ty.IsMapType() && !ty.IsObjectType() {
		return cty.NilVal, mismatch(path, t, v)
	}
	given := make(map[string]cty.Value)
	for it := v.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		given[k.AsString()] = ev
	}
	for key := range given {
		known := false
		for _, opt := range t.Options {
			if opt.Name == key {
				known = true
				break
			}
		}
		if !known {
			return cty.NilVal, violation(path+"."+key, diag.DetailTypeMismatch,
				fmt.Sprintf("%s does not accept option %q", path, key))
		}
	}
	out := make(map[string]cty.Value)
	for _, opt := range t.Options {
		optPath := path + "." + opt.Name
		raw, ok := given[opt.Name]
		if !ok || absent(raw) {
			if opt.Required {
				return cty.NilVal, violation(optPath, diag.DetailRequired,
					fmt.Sprintf("required option %q of %s is missing", opt.Name, path))
			}
			if opt.HasDefault() {
				out[opt.Name] = opt.Default
			}
			continue
		}
		cv, viol := check(raw, opt.Type, optPath)
		if viol != nil {
			return cty.NilVal, viol
		}
		out[opt.Name] = cv
	}
	if len(out) == 0 {
		return cty.EmptyObjectVal, nil
	}
	return cty.ObjectVal(out), nil
}

// collection builds a list when the element type is concrete and a tuple
// otherwise, so heterogeneous "list(any)" values survive coercion.
func collection(et cty.Type, vals []cty.Value) cty.Value {
	if et == cty.DynamicPseudoType {
		if len(vals) == 0 {
			return cty.EmptyTupleVal
		}
		return cty.TupleVal(vals)
	}
	if len(vals) == 0 {
		return cty.ListValEmpty(et)
	}
	return cty.ListVal(vals)
}

func violation(path, detail, msg string) *diag.Violation {
	return &diag.Violation{
		Kind:     diag.KindSchemaViolation,
		Detail:   detail,
		Message:  msg,
		Location: diag.Location{Field: path},
	}
}

func mismatch(path string, want Type, got cty.Value) *diag.Violation {
	return violation(path, diag.DetailTypeMismatch,
		fmt.Sprintf("%s must be %s, got %s", path, describe(want), describeValue(got)))
}

func describe(t Type) string {
	switch t.Kind {
	case KindAtom:
		return "an atom"
	case KindString:
		return "a string"
	case KindBool:
		return "a bool"
	case KindInteger:
		return "an integer"
	case KindPositiveInteger:
		return "a positive integer"
	case KindNonNegativeInteger:
		return "a non-negative integer"
	case KindModuleReference:
		return "a module reference"
	case KindKeywordList:
		return "a keyword list"
	case KindMap:
		return "a map"
	case KindList:
		return "a list"
	}
	return t.String()
}

func describeValue(v cty.Value) string {
	ty := v.Type()
	if ty.IsPrimitiveType() {
		return fmt.Sprintf("%s %s", ty.FriendlyName(), FormatValue(v))
	}
	return ty.FriendlyName()
}

// FormatValue renders a value as an HCL literal, e.g. `"halt"` or `3`.
func FormatValue(v cty.Value) string {
	if v == cty.NilVal {
		return "null"
	}
	return string(hclwrite.TokensForValue(v).Bytes())
}
