package testutil

import (
	"testing"

	"github.com/specialistvlad/declc/internal/diag"
	"github.com/stretchr/testify/require"
)

// RequireDiagnostic asserts that err carries a diagnostic of the given kind
// and returns it.
func RequireDiagnostic(t *testing.T, err error, kind diag.Kind) *diag.Diagnostic {
	t.Helper()
	require.Error(t, err)
	d, ok := diag.As(err)
	require.True(t, ok, "expected a diagnostic, got %v", err)
	require.Equal(t, kind, d.Kind, d.Error())
	return d
}
