// Package builder turns parsed HCL bodies into the typed entity tree of a
// compilation unit.
//
// The builder walks the native-syntax AST directly instead of decoding into Go
// structs, because the shape of every block comes from the language's
// EntitySpecs at run time. For each block it:
//
//  1. Matches the block type against the child specs of the enclosing entity.
//  2. Reads the identifier from the block label.
//  3. Evaluates each attribute without an evaluation context, accepting bare
//     identifiers where the declared type is symbolic, and validates the
//     result with the schema package.
//  4. Fills defaults and reports missing required fields.
//  5. Recurses into nested blocks.
//
// Unknown fields and blocks, and repeated singleton blocks, fail the build
// with an UnknownConstruct diagnostic. Uniqueness of identifiers and
// cross-references are left to verifiers so that every occurrence can be
// reported at once.
package builder
