package cmd

import "fmt"

// ExitCodeError carries a specific process exit code up to main.
// It is used to propagate the child's exit code and the fixed
// interrupted-confirmation code without printing a redundant error.
type ExitCodeError struct {
	Code int
}

// NewExitCodeError creates an ExitCodeError with the given code.
func NewExitCodeError(code int) *ExitCodeError {
	return &ExitCodeError{Code: code}
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}
