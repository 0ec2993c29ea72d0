// Package report renders compilation failures for people and machines.
//
// Text is the default terminal form, Source adds HCL source snippets for
// violations that carry a subject range, and JSON is the machine form.
// Errors that are not diagnostics are rendered as a single "error:" line.
package report
