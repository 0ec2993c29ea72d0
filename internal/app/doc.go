// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the compile, inspect and languages
// workflows, decoupled from any specific entrypoint like a CLI.
package app
