package builder

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/declc/internal/ctxlog"
	"github.com/specialistvlad/declc/internal/diag"
	"github.com/specialistvlad/declc/internal/hclutil"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/specialistvlad/declc/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Build parses the files of one compilation unit against the root spec of a
// language. The root spec's fields are the top-level attributes and its
// children are the top-level block types. Files are merged in the order given.
func Build(ctx context.Context, root *schema.EntitySpec, files []*hcl.File) (*model.State, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Entity tree build started.", "language", root.Name, "files", len(files))

	b := &builder{sb: model.NewStateBuilder()}
	for _, child := range root.Children {
		b.sb.Declare(model.Path(child.SectionName()))
	}

	var (
		attrs     []*hclsyntax.Attribute
		blocks    []*hclsyntax.Block
		rootRange hcl.Range
	)
	seenAttrs := make(map[string]hcl.Range)
	for i, f := range files {
		body, ok := f.Body.(*hclsyntax.Body)
		if !ok {
			return nil, fmt.Errorf("file %d: only HCL native syntax is supported", i)
		}
		if i == 0 {
			rootRange = body.SrcRange
		}
		for _, a := range hclutil.SortedAttributes(body) {
			if prev, dup := seenAttrs[a.Name]; dup {
				return nil, diag.Single(diag.Violation{
					Kind:     diag.KindUnknownConstruct,
					Message:  fmt.Sprintf("top-level field %q is already set at %s", a.Name, prev),
					Location: diag.Location{Field: a.Name},
					Subject:  a.SrcRange.Ptr(),
				})
			}
			seenAttrs[a.Name] = a.SrcRange
			attrs = append(attrs, a)
		}
		blocks = append(blocks, body.Blocks...)
	}

	fields, err := b.fields(root, nil, "", attrs, rootRange)
	if err != nil {
		return nil, err
	}
	children, err := b.children(root, nil, "", blocks)
	if err != nil {
		return nil, err
	}
	b.sb.SetRoot(model.NewEntity(root, "", nil, rootRange, fields, children))

	state := b.sb.Build()
	logger.Debug("Entity tree build finished.", "sections", len(state.Sections()), "top_level_entities", len(children))
	return state, nil
}

type builder struct {
	sb *model.StateBuilder
}

// entity builds one block and appends it, and its descendants, to the state.
func (b *builder) entity(spec *schema.EntitySpec, section model.SectionPath, block *hclsyntax.Block) (*model.Entity, error) {
	id, err := b.identifier(spec, section, block)
	if err != nil {
		return nil, err
	}

	fields, err := b.fields(spec, section, id, hclutil.SortedAttributes(block.Body), block.DefRange())
	if err != nil {
		return nil, err
	}
	if spec.Identifier != "" {
		fields[spec.Identifier] = cty.StringVal(id)
	}

	segment := id
	if segment == "" {
		segment = spec.Name
	}
	children, err := b.children(spec, section, segment, block.Body.Blocks)
	if err != nil {
		return nil, err
	}

	e := model.NewEntity(spec, id, section, block.DefRange(), fields, children)
	b.sb.Append(e)
	return e, nil
}

func (b *builder) identifier(spec *schema.EntitySpec, section model.SectionPath, block *hclsyntax.Block) (string, error) {
	loc := diag.Location{Section: section, Entity: spec.Name}

	if spec.Identifier == "" {
		if len(block.Labels) > 0 {
			return "", unknownConstruct(loc, block.LabelRanges[0],
				"block %q does not take a label, got %q", block.Type, block.Labels[0])
		}
		return "", nil
	}

	switch {
	case len(block.Labels) == 0 || block.Labels[0] == "":
		loc.Field = spec.Identifier
		return "", diag.Single(diag.Violation{
			Kind:     diag.KindSchemaViolation,
			Detail:   diag.DetailRequired,
			Message:  fmt.Sprintf("block %q requires a %s label", block.Type, spec.Identifier),
			Location: loc,
			Subject:  block.TypeRange.Ptr(),
		})
	case len(block.Labels) > 1:
		return "", unknownConstruct(loc, block.LabelRanges[1],
			"block %q takes exactly one label, got %d", block.Type, len(block.Labels))
	}

	id := block.Labels[0]
	if fs, ok := spec.Field(spec.Identifier); ok {
		if _, v := schema.Validate(cty.StringVal(id), fs); v != nil {
			loc.Entity = id
			return "", located(v, loc, block.LabelRanges[0])
		}
	}
	return id, nil
}

// fields evaluates the given attributes against spec, then fills defaults and
// reports missing required fields in declaration order.
func (b *builder) fields(spec *schema.EntitySpec, section model.SectionPath, id string, attrs []*hclsyntax.Attribute, rng hcl.Range) (map[string]cty.Value, error) {
	loc := diag.Location{Section: section, Entity: entityLabel(spec, id)}
	out := make(map[string]cty.Value)

	for _, a := range attrs {
		fs, ok := spec.Field(a.Name)
		if !ok || a.Name == spec.Identifier {
			msg := fmt.Sprintf("unknown field %q in %s", a.Name, describeEntity(spec, id))
			if s := hclutil.Suggest(a.Name, assignable(spec)); s != "" {
				msg += fmt.Sprintf("; did you mean %q?", s)
			}
			return nil, diag.Single(diag.Violation{
				Kind:     diag.KindUnknownConstruct,
				Message:  msg,
				Location: withField(loc, a.Name),
				Related:  []string{a.Name},
				Subject:  a.NameRange.Ptr(),
			})
		}

		raw, v := evalExpr(a.Expr, fs)
		var val cty.Value
		if v == nil {
			val, v = schema.Validate(raw, fs)
		}
		if v != nil {
			return nil, located(v, withField(loc, a.Name), a.Expr.Range())
		}
		if val != cty.NilVal {
			out[a.Name] = val
		}
	}

	for _, fs := range spec.Fields {
		if _, given := out[fs.Name]; given || fs.Name == spec.Identifier {
			continue
		}
		val, v := schema.Validate(cty.NilVal, fs)
		if v != nil {
			v.Message = fmt.Sprintf("%s is missing required field %q", describeEntity(spec, id), fs.Name)
			return nil, located(v, withField(loc, fs.Name), rng)
		}
		if val != cty.NilVal {
			out[fs.Name] = val
		}
	}
	return out, nil
}

// children builds the nested blocks of an entity whose own path segment is
// segment. Top-level blocks are built with an empty segment.
func (b *builder) children(spec *schema.EntitySpec, section model.SectionPath, segment string, blocks []*hclsyntax.Block) ([]*model.Entity, error) {
	loc := diag.Location{Section: section, Entity: segment}

	hclBlocks := make(hcl.Blocks, len(blocks))
	for i, blk := range blocks {
		hclBlocks[i] = blk.AsHCLBlock()
	}
	for _, child := range spec.Children {
		if !child.Singleton {
			continue
		}
		if _, diags := hclutil.FindUniqueBlock(hclBlocks, child.Name); diags.HasErrors() {
			d := diags[0]
			return nil, diag.Single(diag.Violation{
				Kind:     diag.KindUnknownConstruct,
				Message:  fmt.Sprintf("%s: %s", d.Summary, d.Detail),
				Location: loc,
				Related:  []string{child.Name},
				Subject:  d.Subject,
			})
		}
	}

	var out []*model.Entity
	for _, blk := range blocks {
		child, ok := spec.Child(blk.Type)
		if !ok {
			msg := fmt.Sprintf("unknown block %q in %s", blk.Type, describeEntity(spec, segment))
			if s := hclutil.Suggest(blk.Type, spec.ChildNames()); s != "" {
				msg += fmt.Sprintf("; did you mean %q?", s)
			}
			return nil, diag.Single(diag.Violation{
				Kind:     diag.KindUnknownConstruct,
				Message:  msg,
				Location: loc,
				Related:  []string{blk.Type},
				Subject:  blk.TypeRange.Ptr(),
			})
		}

		path := model.Path(child.SectionName())
		if segment != "" {
			path = section.Child(segment, child.SectionName())
		}
		b.sb.Declare(path)

		e, err := b.entity(child, path, blk)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
