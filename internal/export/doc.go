// Package export renders a compiled artifact as YAML or JSON for downstream
// generators.
//
// The document lists the root fields, every section in declaration order and
// the persisted side data of passes that know how to export themselves.
package export
