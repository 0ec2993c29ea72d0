// Package hclutil holds small helpers shared by the code that reads HCL
// bodies: block lookup, traversal rendering and name suggestions.
package hclutil
