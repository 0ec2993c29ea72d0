package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/declc/internal/hclutil"
	"github.com/specialistvlad/declc/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Language is the declarative part of a language definition.
type Language struct {
	Name        string
	Description string
	Root        *schema.EntitySpec
}

// fileRoot is used to decode all top-level blocks of a manifest file.
type fileRoot struct {
	Languages []*languageBlock `hcl:"language,block"`
}

type languageBlock struct {
	Name        string         `hcl:"name,label"`
	Description *string        `hcl:"description,optional"`
	Fields      []*fieldBlock  `hcl:"field,block"`
	Entities    []*entityBlock `hcl:"entity,block"`
}

type entityBlock struct {
	Name        string         `hcl:"name,label"`
	Section     *string        `hcl:"section,optional"`
	Identifier  *string        `hcl:"identifier,optional"`
	Singleton   *bool          `hcl:"singleton,optional"`
	Recursive   *bool          `hcl:"recursive,optional"`
	Description *string        `hcl:"description,optional"`
	Fields      []*fieldBlock  `hcl:"field,block"`
	Entities    []*entityBlock `hcl:"entity,block"`
}

type fieldBlock struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type,attr"`
	Required    *bool          `hcl:"required,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Description *string        `hcl:"description,optional"`
}

// Parse reads every language declared in a manifest source.
func Parse(src []byte, filename string) ([]*Language, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", filename, diags)
	}

	langs := make([]*Language, 0, len(root.Languages))
	for _, lb := range root.Languages {
		lang, diags := translateLanguage(lb)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid language %q in %s: %w", lb.Name, filename, diags)
		}
		langs = append(langs, lang)
	}
	return langs, nil
}

// MustParse parses a manifest declaring exactly one language and panics on
// any error. It is meant for manifests embedded in the binary.
func MustParse(src []byte, filename string) *Language {
	langs, err := Parse(src, filename)
	if err != nil {
		panic(err)
	}
	if len(langs) != 1 {
		panic(fmt.Sprintf("manifest %s: expected exactly one language, got %d", filename, len(langs)))
	}
	return langs[0]
}

func translateLanguage(lb *languageBlock) (*Language, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	root := &schema.EntitySpec{Name: lb.Name}

	for _, fb := range lb.Fields {
		fs, fDiags := translateField(fb)
		diags = append(diags, fDiags...)
		root.Fields = append(root.Fields, fs)
	}
	for _, eb := range lb.Entities {
		child, eDiags := translateEntity(eb)
		diags = append(diags, eDiags...)
		root.Children = append(root.Children, child)
	}

	return &Language{Name: lb.Name, Description: deref(lb.Description), Root: root}, diags
}

func translateEntity(eb *entityBlock) (*schema.EntitySpec, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	spec := &schema.EntitySpec{
		Name:        eb.Name,
		Section:     deref(eb.Section),
		Identifier:  deref(eb.Identifier),
		Singleton:   eb.Singleton != nil && *eb.Singleton,
		Description: deref(eb.Description),
	}

	for _, fb := range eb.Fields {
		fs, fDiags := translateField(fb)
		diags = append(diags, fDiags...)
		spec.Fields = append(spec.Fields, fs)
	}
	if spec.Identifier != "" {
		if _, ok := spec.Field(spec.Identifier); !ok {
			spec.Fields = append([]schema.FieldSpec{{Name: spec.Identifier, Type: schema.String()}}, spec.Fields...)
		}
	}

	for _, child := range eb.Entities {
		c, cDiags := translateEntity(child)
		diags = append(diags, cDiags...)
		spec.Children = append(spec.Children, c)
	}
	if eb.Recursive != nil && *eb.Recursive {
		spec.Children = append(spec.Children, spec)
	}
	return spec, diags
}

func translateField(fb *fieldBlock) (schema.FieldSpec, hcl.Diagnostics) {
	fs := schema.FieldSpec{
		Name:        fb.Name,
		Required:    fb.Required != nil && *fb.Required,
		Description: deref(fb.Description),
	}

	t, diags := TypeFromExpr(fb.Type)
	if diags.HasErrors() {
		return fs, diags
	}
	fs.Type = t

	if fb.Default == nil {
		return fs, diags
	}
	raw, ok := symbolOrValue(fb.Default, t, &diags)
	if !ok || raw.IsNull() {
		return fs, diags
	}
	coerced, v := schema.Validate(raw, fs)
	if v != nil {
		return fs, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid default",
			Detail:   fmt.Sprintf("The default of field %q does not satisfy its type: %s.", fb.Name, v.Message),
			Subject:  fb.Default.Range().Ptr(),
		})
	}
	fs.Default = coerced
	return fs, diags
}

// symbolOrValue evaluates a literal, reading bare identifiers as names where
// the type is symbolic.
func symbolOrValue(expr hcl.Expression, t schema.Type, diags *hcl.Diagnostics) (cty.Value, bool) {
	if t.Symbolic() {
		if name, ok := hclutil.SymbolName(expr); ok {
			return cty.StringVal(name), true
		}
	}
	v, vDiags := expr.Value(nil)
	if vDiags.HasErrors() {
		*diags = append(*diags, vDiags...)
		return cty.NilVal, false
	}
	return v, true
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
