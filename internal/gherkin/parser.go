// File: internal/gherkin/parser.go
package gherkin

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseError reports a malformed scenario source with its position.
type ParseError struct {
	Source  string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Message)
}

// ParseFile reads and parses one .feature file.
func ParseFile(path string) (*Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feature file: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse parses a feature from r. The source name is used for error
// positions only.
func Parse(r io.Reader, source string) (*Feature, error) {
	p := &parser{source: source}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := p.consume(strings.TrimSpace(scanner.Text()), lineNo); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feature file: %w", err)
	}
	return p.finish(lineNo)
}

// parser is a small line-oriented state machine. Gherkin is shallow
// enough that tracking the current scenario and examples table is all the
// state required.
type parser struct {
	source  string
	feature *Feature

	current      *Scenario
	pendingTags  []string
	inExamples   bool
	lastCategory Category
	sawStep      bool
}

func (p *parser) errf(line int, format string, args ...interface{}) error {
	return &ParseError{Source: p.source, Line: line, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) consume(line string, n int) error {
	switch {
	case line == "" || strings.HasPrefix(line, "#"):
		return nil

	case strings.HasPrefix(line, "@"):
		for _, tag := range strings.Fields(line) {
			if !strings.HasPrefix(tag, "@") {
				return p.errf(n, "malformed tag line: %q", line)
			}
			p.pendingTags = append(p.pendingTags, strings.TrimPrefix(tag, "@"))
		}
		return nil

	case strings.HasPrefix(line, "Feature:"):
		if p.feature != nil {
			return p.errf(n, "multiple Feature declarations in one file")
		}
		p.feature = &Feature{
			Name:   strings.TrimSpace(strings.TrimPrefix(line, "Feature:")),
			Tags:   p.pendingTags,
			Source: p.source,
		}
		p.pendingTags = nil
		return nil

	case strings.HasPrefix(line, "Scenario Outline:"), strings.HasPrefix(line, "Scenario:"):
		if p.feature == nil {
			return p.errf(n, "Scenario before Feature declaration")
		}
		p.closeScenario()
		name := strings.TrimSpace(line[strings.Index(line, ":")+1:])
		if name == "" {
			return p.errf(n, "scenario requires a title")
		}
		p.current = &Scenario{
			Name:   name,
			Tags:   append(append([]string(nil), p.feature.Tags...), p.pendingTags...),
			Source: p.source,
			Line:   n,
		}
		if strings.HasPrefix(line, "Scenario Outline:") {
			p.current.Examples = &Table{}
		}
		p.pendingTags = nil
		p.inExamples = false
		p.sawStep = false
		return nil

	case strings.HasPrefix(line, "Examples:"):
		if p.current == nil || p.current.Examples == nil {
			return p.errf(n, "Examples block outside a Scenario Outline")
		}
		p.inExamples = true
		return nil

	case strings.HasPrefix(line, "|"):
		if !p.inExamples {
			return p.errf(n, "table row outside an Examples block")
		}
		cells, err := splitTableRow(line)
		if err != nil {
			return p.errf(n, "%v", err)
		}
		table := p.current.Examples
		if table.Columns == nil {
			table.Columns = cells
			return nil
		}
		if len(cells) != len(table.Columns) {
			return p.errf(n, "example row has %d cells, header has %d", len(cells), len(table.Columns))
		}
		table.Rows = append(table.Rows, cells)
		return nil

	default:
		return p.consumeStep(line, n)
	}
}

// stepKeywords in match order. "Given"/"When"/"Then" set the category;
// "And"/"But" inherit the previous step's category.
var stepKeywords = []struct {
	keyword  string
	category Category
	inherits bool
}{
	{"Given", Given, false},
	{"When", When, false},
	{"Then", Then, false},
	{"And", 0, true},
	{"But", 0, true},
}

func (p *parser) consumeStep(line string, n int) error {
	for _, kw := range stepKeywords {
		if !strings.HasPrefix(line, kw.keyword+" ") {
			continue
		}
		if p.current == nil {
			return p.errf(n, "step outside a scenario: %q", line)
		}
		if p.inExamples {
			return p.errf(n, "step after Examples block: %q", line)
		}
		category := kw.category
		if kw.inherits {
			if !p.sawStep {
				return p.errf(n, "%q step has no preceding step to inherit from", kw.keyword)
			}
			category = p.lastCategory
		}
		text := strings.TrimSpace(strings.TrimPrefix(line, kw.keyword))
		if text == "" {
			return p.errf(n, "empty step text")
		}
		p.current.Steps = append(p.current.Steps, Step{
			Category: category,
			Keyword:  kw.keyword,
			Text:     text,
			Line:     n,
		})
		p.lastCategory = category
		p.sawStep = true
		return nil
	}
	return p.errf(n, "unrecognized line: %q", line)
}

func (p *parser) closeScenario() {
	if p.current != nil {
		p.feature.Scenarios = append(p.feature.Scenarios, *p.current)
		p.current = nil
	}
}

func (p *parser) finish(lastLine int) (*Feature, error) {
	if p.feature == nil {
		return nil, p.errf(lastLine, "no Feature declaration found")
	}
	p.closeScenario()
	for _, sc := range p.feature.Scenarios {
		if len(sc.Steps) == 0 {
			return nil, p.errf(sc.Line, "scenario %q has no steps", sc.Name)
		}
		if sc.Examples != nil && len(sc.Examples.Rows) == 0 {
			return nil, p.errf(sc.Line, "scenario outline %q has no example rows", sc.Name)
		}
	}
	return p.feature, nil
}

// splitTableRow splits "| a | b |" into trimmed cell values.
func splitTableRow(line string) ([]string, error) {
	if !strings.HasSuffix(line, "|") {
		return nil, fmt.Errorf("table row must end with '|': %q", line)
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(line, "|"), "|")
	parts := strings.Split(inner, "|")
	cells := make([]string, len(parts))
	for i, part := range parts {
		cells[i] = strings.TrimSpace(part)
	}
	return cells, nil
}
