package schema

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Kind is the declared type of a field.
type Kind int

const (
	KindAny Kind = iota
	KindAtom
	KindString
	KindBool
	KindInteger
	KindPositiveInteger
	KindNonNegativeInteger
	KindModuleReference
	KindKeywordList
	KindMap
	KindList
	KindOneOf
)

var kindKeywords = map[Kind]string{
	KindAny:                "any",
	KindAtom:               "atom",
	KindString:             "string",
	KindBool:               "bool",
	KindInteger:            "integer",
	KindPositiveInteger:    "positive_integer",
	KindNonNegativeInteger: "non_negative_integer",
	KindModuleReference:    "module_reference",
	KindKeywordList:        "keyword_list",
	KindMap:                "map",
	KindList:               "list",
	KindOneOf:              "one_of",
}

// KindByKeyword resolves a primitive type keyword such as "positive_integer".
// Constructor kinds (list, map, one_of, keyword_list) are not returned.
func KindByKeyword(keyword string) (Kind, bool) {
	switch keyword {
	case "module":
		return KindModuleReference, true
	case "list", "map", "one_of", "keyword_list":
		return 0, false
	}
	for k, name := range kindKeywords {
		if name == keyword {
			return k, true
		}
	}
	return 0, false
}

// Type is a declared field type. Elem, Key, Options and Values are only
// meaningful for the constructor kinds that use them.
type Type struct {
	Kind Kind
	// Elem is the element type of a list or the value type of a map.
	Elem *Type
	// Key is the key type of a map; string when nil.
	Key *Type
	// Options are the accepted entries of a keyword list.
	Options []FieldSpec
	// Values is the allowed set of a one_of constraint.
	Values []cty.Value
}

func Any() Type                { return Type{Kind: KindAny} }
func Atom() Type               { return Type{Kind: KindAtom} }
func String() Type             { return Type{Kind: KindString} }
func Bool() Type               { return Type{Kind: KindBool} }
func Integer() Type            { return Type{Kind: KindInteger} }
func PositiveInteger() Type    { return Type{Kind: KindPositiveInteger} }
func NonNegativeInteger() Type { return Type{Kind: KindNonNegativeInteger} }
func ModuleReference() Type    { return Type{Kind: KindModuleReference} }

// ListOf declares a list whose elements all satisfy elem.
func ListOf(elem Type) Type {
	return Type{Kind: KindList, Elem: &elem}
}

// MapOf declares a map with the given key and value types.
func MapOf(key, value Type) Type {
	return Type{Kind: KindMap, Key: &key, Elem: &value}
}

// OneOf declares a value that must be element-equal to one of values.
func OneOf(values ...cty.Value) Type {
	return Type{Kind: KindOneOf, Values: values}
}

// KeywordList declares an options object whose keys are limited to options.
func KeywordList(options ...FieldSpec) Type {
	return Type{Kind: KindKeywordList, Options: options}
}

// Symbolic reports whether values of this type may be written as bare
// identifiers or dotted traversals in the source.
func (t Type) Symbolic() bool {
	switch t.Kind {
	case KindAtom, KindModuleReference:
		return true
	case KindOneOf:
		for _, v := range t.Values {
			if !v.Type().Equals(cty.String) {
				return false
			}
		}
		return len(t.Values) > 0
	}
	return false
}

// String renders the type the way it is written in a language manifest.
func (t Type) String() string {
	switch t.Kind {
	case KindList:
		return fmt.Sprintf("list(%s)", t.elem())
	case KindMap:
		return fmt.Sprintf("map(%s, %s)", t.key(), t.elem())
	case KindOneOf:
		vals := make([]string, 0, len(t.Values))
		for _, v := range t.Values {
			vals = append(vals, FormatValue(v))
		}
		return fmt.Sprintf("one_of(%s)", strings.Join(vals, ", "))
	case KindKeywordList:
		opts := make([]string, 0, len(t.Options))
		for _, o := range t.Options {
			opts = append(opts, fmt.Sprintf("%s = %s", o.Name, o.Type))
		}
		return fmt.Sprintf("keyword_list({ %s })", strings.Join(opts, ", "))
	}
	return kindKeywords[t.Kind]
}

func (t Type) elem() Type {
	if t.Elem == nil {
		return Any()
	}
	return *t.Elem
}

func (t Type) key() Type {
	if t.Key == nil {
		return String()
	}
	return *t.Key
}

// CtyType is the cty type a validated value of this type carries.
func (t Type) CtyType() cty.Type {
	switch t.Kind {
	case KindAtom, KindString, KindModuleReference:
		return cty.String
	case KindBool:
		return cty.Bool
	case KindInteger, KindPositiveInteger, KindNonNegativeInteger:
		return cty.Number
	case KindList:
		et := t.elem().CtyType()
		if et == cty.DynamicPseudoType {
			return cty.DynamicPseudoType
		}
		return cty.List(et)
	case KindMap:
		et := t.elem().CtyType()
		if et == cty.DynamicPseudoType {
			return cty.DynamicPseudoType
		}
		return cty.Map(et)
	case KindOneOf:
		if len(t.Values) == 0 {
			return cty.DynamicPseudoType
		}
		first := t.Values[0].Type()
		for _, v := range t.Values[1:] {
			if !v.Type().Equals(first) {
				return cty.DynamicPseudoType
			}
		}
		return first
	}
	return cty.DynamicPseudoType
}
