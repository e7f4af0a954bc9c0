// File: internal/gherkin/parser_test.go
package gherkin

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeature = `
@site
Feature: Marketing site

  # Smoke path through the industries menu.
  @smoke
  Scenario: Open an industry section
    Given I navigate to the home page
    When I hover over "Industries" and open the "Payments" section
    And I copy the text from tile 3
    Then I verify the page title is "Payments | Example"
    But I verify that no error banner is shown

  Scenario Outline: Sections resolve to their pages
    Given I navigate to the home page
    When I open the "<section>" section
    Then I verify the page url is "<url>"

    Examples:
      | section  | url                   |
      | Payments | https://x.test/pay/   |
      | Insurance | https://x.test/ins/  |
`

func TestParseFeature(t *testing.T) {
	feature, err := Parse(strings.NewReader(sampleFeature), "sample.feature")
	require.NoError(t, err)

	assert.Equal(t, "Marketing site", feature.Name)
	assert.Equal(t, []string{"site"}, feature.Tags)
	require.Len(t, feature.Scenarios, 2)

	sc := feature.Scenarios[0]
	assert.Equal(t, "Open an industry section", sc.Name)
	assert.ElementsMatch(t, []string{"site", "smoke"}, sc.Tags)
	assert.True(t, sc.HasTag("smoke"))
	assert.False(t, sc.HasTag("nightly"))
	assert.False(t, sc.IsOutline())
	require.Len(t, sc.Steps, 5)

	// And/But inherit the category of the preceding step.
	assert.Equal(t, Given, sc.Steps[0].Category)
	assert.Equal(t, When, sc.Steps[1].Category)
	assert.Equal(t, When, sc.Steps[2].Category)
	assert.Equal(t, "And", sc.Steps[2].Keyword)
	assert.Equal(t, Then, sc.Steps[3].Category)
	assert.Equal(t, Then, sc.Steps[4].Category)
	assert.Equal(t, "But", sc.Steps[4].Keyword)

	// Keyword is stripped from the text.
	assert.Equal(t, "I copy the text from tile 3", sc.Steps[2].Text)

	outline := feature.Scenarios[1]
	assert.True(t, outline.IsOutline())
	require.NotNil(t, outline.Examples)
	assert.Equal(t, []string{"section", "url"}, outline.Examples.Columns)
	require.Len(t, outline.Examples.Rows, 2)
	assert.Equal(t, []string{"Payments", "https://x.test/pay/"}, outline.Examples.Rows[0])
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "no feature",
			input:   "# just a comment\n",
			wantMsg: "no Feature declaration",
		},
		{
			name:    "scenario before feature",
			input:   "Scenario: early\n  Given something\n",
			wantMsg: "Scenario before Feature",
		},
		{
			name:    "and without predecessor",
			input:   "Feature: f\nScenario: s\n  And something\n",
			wantMsg: "no preceding step",
		},
		{
			name:    "step outside scenario",
			input:   "Feature: f\n  Given floating\n",
			wantMsg: "step outside a scenario",
		},
		{
			name:    "unrecognized line",
			input:   "Feature: f\nScenario: s\n  Whenever I do things\n",
			wantMsg: "unrecognized line",
		},
		{
			name:    "examples outside outline",
			input:   "Feature: f\nScenario: s\n  Given a step\n  Examples:\n",
			wantMsg: "Examples block outside a Scenario Outline",
		},
		{
			name:    "ragged example row",
			input:   "Feature: f\nScenario Outline: s\n  Given a <x>\n  Examples:\n    | x | y |\n    | 1 |\n",
			wantMsg: "example row has 1 cells, header has 2",
		},
		{
			name:    "empty scenario",
			input:   "Feature: f\nScenario: empty\n",
			wantMsg: "has no steps",
		},
		{
			name:    "outline without rows",
			input:   "Feature: f\nScenario Outline: s\n  Given a <x>\n  Examples:\n    | x |\n",
			wantMsg: "has no example rows",
		},
		{
			name:    "duplicate feature",
			input:   "Feature: f\nFeature: g\n",
			wantMsg: "multiple Feature declarations",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input), "bad.feature")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "bad.feature", perr.Source)
		})
	}
}

func TestExpandOutline(t *testing.T) {
	feature, err := Parse(strings.NewReader(sampleFeature), "sample.feature")
	require.NoError(t, err)

	outline := feature.Scenarios[1]
	concrete := outline.Expand()
	require.Len(t, concrete, 2)

	first := concrete[0]
	assert.Equal(t, "Sections resolve to their pages [example 1]", first.Name)
	assert.Nil(t, first.Examples)
	assert.Equal(t, `I open the "Payments" section`, first.Steps[1].Text)
	assert.Equal(t, `I verify the page url is "https://x.test/pay/"`, first.Steps[2].Text)

	second := concrete[1]
	assert.Equal(t, `I open the "Insurance" section`, second.Steps[1].Text)

	// Expansion must not mutate the template's steps.
	assert.Equal(t, `I open the "<section>" section`, outline.Steps[1].Text)
}

func TestExpandPlainScenarioIsIdentity(t *testing.T) {
	sc := Scenario{
		Name:  "plain",
		Steps: []Step{{Category: Given, Keyword: "Given", Text: "a thing"}},
	}
	out := sc.Expand()
	require.Len(t, out, 1)
	if diff := cmp.Diff(sc, out[0]); diff != "" {
		t.Errorf("expanded scenario differs from template (-want +got):\n%s", diff)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	a, err := Parse(strings.NewReader(sampleFeature), "sample.feature")
	require.NoError(t, err)
	b, err := Parse(strings.NewReader(sampleFeature), "sample.feature")
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("two parses of the same source differ (-first +second):\n%s", diff)
	}
}
