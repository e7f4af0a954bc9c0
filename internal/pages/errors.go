// File: internal/pages/errors.go
package pages

import "fmt"

// ActionFailure signals that a page operation failed against the driver.
// The operation name identifies the failing façade call; Cause preserves
// the driver's structured error for programmatic inspection via
// errors.Is/errors.As, it is never flattened to text.
type ActionFailure struct {
	Operation string
	Cause     error
}

func (e *ActionFailure) Error() string {
	return fmt.Sprintf("action %q failed: %v", e.Operation, e.Cause)
}

func (e *ActionFailure) Unwrap() error { return e.Cause }

// fail wraps a non-nil driver error into an ActionFailure.
func fail(operation string, cause error) error {
	if cause == nil {
		return nil
	}
	return &ActionFailure{Operation: operation, Cause: cause}
}
