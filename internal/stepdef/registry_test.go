// File: internal/stepdef/registry_test.go
package stepdef

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/greenlight-cli/internal/gherkin"
)

type recordedCall struct {
	args Args
}

func noopHandler(ctx context.Context, world *recordedCall, args Args) error {
	world.args = args
	return nil
}

func TestRegisterRejectsEquivalentPattern(t *testing.T) {
	r := NewRegistry[*recordedCall]()

	require.NoError(t, r.Register(gherkin.When, `I open the "{section}" section`, noopHandler))

	err := r.Register(gherkin.When, `I open the "{label}" section`, noopHandler)
	require.Error(t, err)
	var dup *DuplicatePatternError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, gherkin.When, dup.Category)
	assert.Equal(t, `I open the "{section}" section`, dup.Existing)
}

func TestRegisterSeparateCategoryNamespaces(t *testing.T) {
	r := NewRegistry[*recordedCall]()

	require.NoError(t, r.Register(gherkin.When, `the page is loaded`, noopHandler))
	// Identical pattern in another category is a distinct binding.
	require.NoError(t, r.Register(gherkin.Then, `the page is loaded`, noopHandler))

	m, err := r.Resolve(gherkin.Then, "the page is loaded")
	require.NoError(t, err)
	assert.Equal(t, gherkin.Then, m.Definition.Category)
}

func TestRegisterPropagatesCompileError(t *testing.T) {
	r := NewRegistry[*recordedCall]()
	err := r.Register(gherkin.Given, `broken {placeholder`, noopHandler)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated placeholder")
}

func TestMustRegisterPanicsOnBadPattern(t *testing.T) {
	r := NewRegistry[*recordedCall]()
	assert.Panics(t, func() {
		r.MustRegister(gherkin.Given, `broken {`, noopHandler)
	})
}

func TestResolveNoMatch(t *testing.T) {
	r := NewRegistry[*recordedCall]()
	require.NoError(t, r.Register(gherkin.When, `I click the button`, noopHandler))

	_, err := r.Resolve(gherkin.When, "I click the link")
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, gherkin.When, noMatch.Category)
	assert.Equal(t, "I click the link", noMatch.Line)

	// Matching text in a different category still fails.
	_, err = r.Resolve(gherkin.Then, "I click the button")
	require.ErrorAs(t, err, &noMatch)
}

func TestResolveAmbiguous(t *testing.T) {
	r := NewRegistry[*recordedCall]()
	require.NoError(t, r.Register(gherkin.When, `I copy the text from tile {index:d}`, noopHandler))
	require.NoError(t, r.Register(gherkin.When, `I copy the text from {source}`, noopHandler))

	_, err := r.Resolve(gherkin.When, "I copy the text from tile 3")
	var ambiguous *AmbiguousMatchError
	require.ErrorAs(t, err, &ambiguous)
	assert.Len(t, ambiguous.Patterns, 2)
	assert.Contains(t, ambiguous.Patterns, `I copy the text from tile {index:d}`)
	assert.Contains(t, ambiguous.Patterns, `I copy the text from {source}`)
}

func TestResolveExtractsTypedArgs(t *testing.T) {
	r := NewRegistry[*recordedCall]()
	require.NoError(t, r.Register(gherkin.When,
		`I hover over "{menu}" and copy tile {index:d}`, noopHandler))

	m, err := r.Resolve(gherkin.When, `I hover over "Industries" and copy tile 3`)
	require.NoError(t, err)

	world := &recordedCall{}
	require.NoError(t, m.Definition.Handler(context.Background(), world, m.Args))
	assert.Equal(t, "Industries", world.args.String("menu"))
	assert.Equal(t, 3, world.args.Int("index"))
}

func TestResolveTypeMismatchFallsThrough(t *testing.T) {
	// A line that only fails the {index:d} coercion must still reach a
	// looser string pattern without tripping ambiguity.
	r := NewRegistry[*recordedCall]()
	require.NoError(t, r.Register(gherkin.When, `I copy the text from tile {index:d}`, noopHandler))
	require.NoError(t, r.Register(gherkin.When, `I copy the text from tile {name}`, noopHandler))

	m, err := r.Resolve(gherkin.When, "I copy the text from tile three")
	require.NoError(t, err)
	assert.Equal(t, "three", m.Args.String("name"))

	_, err = r.Resolve(gherkin.When, "I copy the text from tile 3")
	var ambiguous *AmbiguousMatchError
	require.ErrorAs(t, err, &ambiguous)
}

func TestPatternsListsRegistrationOrder(t *testing.T) {
	r := NewRegistry[*recordedCall]()
	require.NoError(t, r.Register(gherkin.Given, `first`, noopHandler))
	require.NoError(t, r.Register(gherkin.Given, `second`, noopHandler))
	require.NoError(t, r.Register(gherkin.Then, `third`, noopHandler))

	assert.Equal(t, []string{"first", "second"}, r.Patterns(gherkin.Given))
	assert.Equal(t, []string{"third"}, r.Patterns(gherkin.Then))
	assert.Empty(t, r.Patterns(gherkin.When))
}
