package pass

import (
	"context"

	"github.com/specialistvlad/declc/internal/diag"
	"github.com/specialistvlad/declc/internal/model"
)

// Info names a pass and its ordering constraints. Constraints that name passes
// outside the scheduled set are ignored.
type Info struct {
	Name string
	// Before lists passes this pass must run before.
	Before []string
	// After lists passes this pass must run after.
	After []string
}

// TransformFunc rewrites the state. It must not modify its input.
type TransformFunc func(ctx context.Context, s *model.State) (*model.State, error)

// VerifyFunc checks an invariant and returns every violation it finds.
type VerifyFunc func(ctx context.Context, s *model.State) []diag.Violation

// Transformer is a state-rewriting pass.
type Transformer struct {
	Info
	Fn TransformFunc
}

// Verifier is an invariant-checking pass.
type Verifier struct {
	Info
	Fn VerifyFunc
}
