// Package diag defines the structured diagnostics produced by a compilation.
//
// Every failure the engine reports to a user is a *Diagnostic: a single
// terminal error carrying a Kind, a summary message, and the Violations that
// caused it. A Diagnostic aggregates violations of one kind only; the engine
// stops at the first phase (or verifier) that reports anything.
//
// Infrastructure failures (unreadable files, HCL syntax errors) are plain
// wrapped errors and never Diagnostics.
package diag
