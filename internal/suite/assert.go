// File: internal/suite/assert.go
package suite

import "fmt"

// AssertionFailure is an expected-vs-actual mismatch in a Then step. The
// message always carries both literal values; a bare "assertion failed"
// is useless when triaging a red run from its log alone.
type AssertionFailure struct {
	Subject  string
	Expected string
	Actual   string
}

func (e *AssertionFailure) Error() string {
	return fmt.Sprintf("%s mismatch: expected %q, got %q", e.Subject, e.Expected, e.Actual)
}

// assertEquals returns an AssertionFailure unless actual equals expected.
func assertEquals(subject, expected, actual string) error {
	if actual == expected {
		return nil
	}
	return &AssertionFailure{Subject: subject, Expected: expected, Actual: actual}
}
