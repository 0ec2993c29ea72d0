package cli

import (
	"errors"

	"github.com/specialistvlad/declc/internal/app"
)

// Exit codes returned by the declc binary.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// appError classifies an error returned by the application. Compilation
// failures have already been reported, so only a short message remains.
// Errors caused by the invocation itself are usage errors.
func appError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if errors.Is(err, app.ErrUnsupportedFormat) || errors.Is(err, app.ErrInvalidManifest) {
		return usageError(err)
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}
