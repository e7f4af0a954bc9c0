// File: internal/gherkin/model.go
package gherkin

import (
	"fmt"
	"strings"
)

// Category classifies a step line. And/But lines are resolved to the
// category of the preceding step during parsing, so consumers only ever
// see the three primary categories.
type Category int

const (
	Given Category = iota
	When
	Then
)

// String returns the canonical keyword for the category.
func (c Category) String() string {
	switch c {
	case Given:
		return "Given"
	case When:
		return "When"
	case Then:
		return "Then"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Step is one line of a scenario: a resolved category plus the literal
// step text. Keyword preserves the keyword as written (e.g. "And") for
// display purposes.
type Step struct {
	Category Category
	Keyword  string
	Text     string
	Line     int
}

// Table holds a tabular Examples block: a header row of column names and
// zero or more value rows, all of equal width.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Scenario is an ordered sequence of steps with a title. Examples is
// non-nil for a Scenario Outline; concrete scenarios are produced via
// Expand before execution.
type Scenario struct {
	Name     string
	Tags     []string
	Steps    []Step
	Examples *Table
	Source   string
	Line     int
}

// Feature is a named collection of scenarios parsed from one source file.
type Feature struct {
	Name      string
	Tags      []string
	Scenarios []Scenario
	Source    string
}

// IsOutline reports whether the scenario is templated by an Examples table.
func (s Scenario) IsOutline() bool {
	return s.Examples != nil
}

// Expand materializes the concrete scenarios for execution. A plain
// scenario expands to itself. A Scenario Outline produces one independent
// scenario per example row by substituting "<column>" slots in every step
// line textually, before any pattern resolution happens.
func (s Scenario) Expand() []Scenario {
	if s.Examples == nil {
		return []Scenario{s}
	}

	out := make([]Scenario, 0, len(s.Examples.Rows))
	for i, row := range s.Examples.Rows {
		concrete := Scenario{
			Name:   fmt.Sprintf("%s [example %d]", s.Name, i+1),
			Tags:   s.Tags,
			Source: s.Source,
			Line:   s.Line,
			Steps:  make([]Step, len(s.Steps)),
		}
		for j, step := range s.Steps {
			text := step.Text
			for k, col := range s.Examples.Columns {
				text = strings.ReplaceAll(text, "<"+col+">", row[k])
			}
			concrete.Steps[j] = Step{
				Category: step.Category,
				Keyword:  step.Keyword,
				Text:     text,
				Line:     step.Line,
			}
		}
		out = append(out, concrete)
	}
	return out
}

// HasTag reports whether the scenario carries the given tag, either
// directly or inherited from its feature.
func (s Scenario) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
