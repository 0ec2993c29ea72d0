// Package source loads compilation units from disk.
//
// A unit is either a single .hcl file or every .hcl file below a directory,
// parsed in lexical path order. Syntax errors are returned as wrapped
// hcl.Diagnostics, never as compilation diagnostics.
package source
