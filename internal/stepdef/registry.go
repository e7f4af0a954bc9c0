// File: internal/stepdef/registry.go
package stepdef

import (
	"context"

	"github.com/xkilldash9x/greenlight-cli/internal/gherkin"
)

// Handler executes one resolved step against the scenario's world (the
// per-scenario page/context bundle). A nil return means the step passed.
type Handler[W any] func(ctx context.Context, world W, args Args) error

// Definition is the immutable pairing of a compiled pattern and its
// handler. Definitions are owned by the registry: registered once at
// process start and never mutated afterwards.
type Definition[W any] struct {
	Category gherkin.Category
	Pattern  *Pattern
	Handler  Handler[W]
}

// Match is a successful resolution: the winning definition plus the
// extracted arguments for the concrete line.
type Match[W any] struct {
	Definition *Definition[W]
	Args       Args
}

// Registry maps textual step patterns to handlers. Given, When and Then
// form three separate namespaces: a When pattern can never shadow or
// collide with a Then pattern.
type Registry[W any] struct {
	defs map[gherkin.Category][]*Definition[W]
}

// NewRegistry creates an empty step registry.
func NewRegistry[W any]() *Registry[W] {
	return &Registry[W]{defs: map[gherkin.Category][]*Definition[W]{}}
}

// Register compiles pattern and adds the binding for the category. A
// structurally equivalent pattern already present in the same category is
// rejected with DuplicatePatternError.
func (r *Registry[W]) Register(category gherkin.Category, pattern string, handler Handler[W]) error {
	compiled, err := Compile(pattern)
	if err != nil {
		return err
	}
	for _, existing := range r.defs[category] {
		if existing.Pattern.EquivalentTo(compiled) {
			return &DuplicatePatternError{
				Category: category,
				Pattern:  pattern,
				Existing: existing.Pattern.Source(),
			}
		}
	}
	r.defs[category] = append(r.defs[category], &Definition[W]{
		Category: category,
		Pattern:  compiled,
		Handler:  handler,
	})
	return nil
}

// MustRegister is Register for the static registration block at process
// start, where a bad pattern is a programming error.
func (r *Registry[W]) MustRegister(category gherkin.Category, pattern string, handler Handler[W]) {
	if err := r.Register(category, pattern, handler); err != nil {
		panic(err)
	}
}

// Resolve finds the single definition matching the literal step line
// within the category namespace. Zero matches yield NoMatchError; more
// than one yields AmbiguousMatchError with every candidate listed.
func (r *Registry[W]) Resolve(category gherkin.Category, line string) (*Match[W], error) {
	var (
		winner     *Match[W]
		candidates []string
	)
	for _, def := range r.defs[category] {
		args, ok := def.Pattern.Match(line)
		if !ok {
			continue
		}
		candidates = append(candidates, def.Pattern.Source())
		if winner == nil {
			winner = &Match[W]{Definition: def, Args: args}
		}
	}
	switch len(candidates) {
	case 0:
		return nil, &NoMatchError{Category: category, Line: line}
	case 1:
		return winner, nil
	default:
		return nil, &AmbiguousMatchError{Category: category, Line: line, Patterns: candidates}
	}
}

// Patterns lists every registered pattern source for the category, in
// registration order. Used by the `steps` command.
func (r *Registry[W]) Patterns(category gherkin.Category) []string {
	out := make([]string, 0, len(r.defs[category]))
	for _, def := range r.defs[category] {
		out = append(out, def.Pattern.Source())
	}
	return out
}
