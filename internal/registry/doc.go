// Package registry provides the central "glue" for the language system.
//
// Each language is contributed by a Module that registers its root EntitySpec
// and its passes. During application startup the registry is populated,
// frozen, and then validated so that broken language definitions are caught
// before any compilation starts. After Freeze the registry is read-only and
// may be shared by concurrent compilations without locking.
package registry
