package pass

import (
	"context"
	"fmt"

	"github.com/specialistvlad/declc/internal/ctxlog"
	"github.com/specialistvlad/declc/internal/diag"
	"github.com/specialistvlad/declc/internal/model"
)

// Execute applies the transformers in the given order. The first failure
// aborts the run and no state is returned. Diagnostics raised by a
// transformer pass through unchanged; any other error, or a nil state, is
// reported as a TransformError.
func Execute(ctx context.Context, transformers []Transformer, s *model.State) (*model.State, error) {
	logger := ctxlog.FromContext(ctx)

	for _, t := range transformers {
		logger.Debug("Running transformer.", "pass", t.Name)
		next, err := t.Fn(ctx, s)
		if err != nil {
			if d, ok := diag.As(err); ok {
				logger.Debug("Transformer reported a diagnostic.", "pass", t.Name, "kind", d.Kind)
				return nil, d
			}
			return nil, transformError(t.Name, err.Error())
		}
		if next == nil {
			return nil, transformError(t.Name, "returned no state")
		}
		s = next
	}

	logger.Debug("All transformers applied.", "count", len(transformers))
	return s, nil
}

func transformError(name, msg string) *diag.Diagnostic {
	return diag.Single(diag.Violation{
		Kind:    diag.KindTransformError,
		Message: fmt.Sprintf("pass %q: %s", name, msg),
		Related: []string{name},
	})
}

// RunVerifiers runs the verifiers in order and stops at the first one that
// reports violations. Its violations are aggregated into one diagnostic.
// Verifiers only read the state, so running them twice gives the same result.
func RunVerifiers(ctx context.Context, verifiers []Verifier, s *model.State) error {
	logger := ctxlog.FromContext(ctx)

	for _, v := range verifiers {
		violations := v.Fn(ctx, s)
		if len(violations) == 0 {
			logger.Debug("Verifier passed.", "pass", v.Name)
			continue
		}
		logger.Debug("Verifier failed.", "pass", v.Name, "violations", len(violations))
		return diag.FromViolations(violations)
	}
	return nil
}
