// File: internal/stepdef/errors.go
package stepdef

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/greenlight-cli/internal/gherkin"
)

// DuplicatePatternError is returned by Register when a structurally
// equivalent pattern already exists in the same category namespace.
type DuplicatePatternError struct {
	Category gherkin.Category
	Pattern  string
	Existing string
}

func (e *DuplicatePatternError) Error() string {
	return fmt.Sprintf("stepdef: %s pattern %q is equivalent to already registered %q",
		e.Category, e.Pattern, e.Existing)
}

// NoMatchError is returned by Resolve when no registered pattern in the
// category matches the step line. It is always fatal to the scenario.
type NoMatchError struct {
	Category gherkin.Category
	Line     string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("stepdef: no %s step definition matches %q", e.Category, e.Line)
}

// AmbiguousMatchError is returned by Resolve when more than one pattern
// matches the step line. Ties are never broken silently: picking one
// candidate would let a scenario pass against the wrong handler.
type AmbiguousMatchError struct {
	Category gherkin.Category
	Line     string
	Patterns []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("stepdef: %d %s step definitions match %q: %s",
		len(e.Patterns), e.Category, e.Line, strings.Join(e.Patterns, "; "))
}
