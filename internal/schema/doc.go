// Package schema describes the shape of entities (EntitySpec, FieldSpec) and
// validates individual field values against their declared types.
//
// Values are cty.Values. Validate is the only entry point that decides whether
// a value is acceptable; it also coerces it into the canonical representation
// stored on an entity (tuples become lists, objects become maps where the
// element type is known) and applies defaults for absent optional fields.
package schema
