// File: internal/stepdef/pattern.go
package stepdef

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the declared type of a placeholder. The kind participates in
// matching: text that does not parse into the kind fails the MATCH (so
// other patterns still get a chance), it never fails as a late coercion
// error.
type Kind int

const (
	// KindString matches greedily within the boundary set by the next
	// literal segment. This is the default for an unannotated placeholder.
	KindString Kind = iota
	// KindInt matches an optionally signed decimal integer.
	KindInt
	// KindWord matches a single whitespace-free token.
	KindWord
	// KindEnum matches one of a fixed set of literal alternatives.
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindWord:
		return "word"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// segment is one compiled piece of a pattern: either a literal run of
// text, or a named typed placeholder.
type segment struct {
	literal string // non-empty for literal segments
	name    string // placeholder name, empty for literals
	kind    Kind
	options []string // for KindEnum
}

func (s segment) isPlaceholder() bool { return s.literal == "" }

// Pattern is a compiled step template. Compilation happens once at
// registration; Match never re-parses the source text.
type Pattern struct {
	source   string
	segments []segment
}

// Compile parses a pattern source such as
//
//	`I hover over "{menu}" and open the "{section}" section`
//	`I copy the text from tile {index:d}`
//	`I pick the {choice:(first|last)} entry`
//
// into a fixed segment sequence. Placeholder annotations: none for a
// greedy string, ":d" for an integer, ":w" for a single word, and
// ":(a|b|c)" for an enumeration.
func Compile(source string) (*Pattern, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("pattern must not be empty")
	}

	p := &Pattern{source: source}
	seen := map[string]bool{}
	rest := source
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			p.segments = append(p.segments, segment{literal: rest})
			break
		}
		if open > 0 {
			p.segments = append(p.segments, segment{literal: rest[:open]})
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return nil, fmt.Errorf("pattern %q: unterminated placeholder", source)
		}
		body := rest[open+1 : open+closing]
		rest = rest[open+closing+1:]

		seg, err := parsePlaceholder(body)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", source, err)
		}
		if seen[seg.name] {
			return nil, fmt.Errorf("pattern %q: duplicate placeholder name %q", source, seg.name)
		}
		seen[seg.name] = true

		if n := len(p.segments); n > 0 && p.segments[n-1].isPlaceholder() {
			// Two placeholders with no literal between them have no
			// deterministic boundary.
			return nil, fmt.Errorf("pattern %q: adjacent placeholders without a separating literal", source)
		}
		p.segments = append(p.segments, seg)
	}
	return p, nil
}

// MustCompile is Compile for statically known patterns.
func MustCompile(source string) *Pattern {
	p, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return p
}

func parsePlaceholder(body string) (segment, error) {
	name := body
	annotation := ""
	if i := strings.IndexByte(body, ':'); i >= 0 {
		name = body[:i]
		annotation = body[i+1:]
	}
	if name == "" {
		return segment{}, fmt.Errorf("placeholder requires a name")
	}
	if strings.ContainsAny(name, " \t") {
		return segment{}, fmt.Errorf("placeholder name %q must not contain whitespace", name)
	}

	switch {
	case annotation == "":
		return segment{name: name, kind: KindString}, nil
	case annotation == "d":
		return segment{name: name, kind: KindInt}, nil
	case annotation == "w":
		return segment{name: name, kind: KindWord}, nil
	case strings.HasPrefix(annotation, "(") && strings.HasSuffix(annotation, ")"):
		options := strings.Split(annotation[1:len(annotation)-1], "|")
		for _, opt := range options {
			if opt == "" {
				return segment{}, fmt.Errorf("placeholder %q has an empty enum option", name)
			}
		}
		return segment{name: name, kind: KindEnum, options: options}, nil
	default:
		return segment{}, fmt.Errorf("placeholder %q has unknown annotation %q", name, annotation)
	}
}

// Source returns the original pattern text.
func (p *Pattern) Source() string { return p.source }

// EquivalentTo reports whether two patterns are structurally identical:
// same literal segments and the same placeholder kinds (and enum options)
// at the same positions. Placeholder names do not participate, so two
// patterns differing only in naming are still duplicates of each other.
func (p *Pattern) EquivalentTo(other *Pattern) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, seg := range p.segments {
		o := other.segments[i]
		if seg.literal != o.literal || seg.kind != o.kind {
			return false
		}
		if seg.kind == KindEnum {
			if len(seg.options) != len(o.options) {
				return false
			}
			for j := range seg.options {
				if seg.options[j] != o.options[j] {
					return false
				}
			}
		}
	}
	return true
}

// Match attempts to bind line against the pattern. On success it returns
// the extracted, type-coerced arguments. String placeholders are greedy:
// when several boundaries are possible the longest capture wins.
func (p *Pattern) Match(line string) (Args, bool) {
	args := Args{values: map[string]interface{}{}}
	if !matchSegments(p.segments, line, args) {
		return Args{}, false
	}
	return args, true
}

func matchSegments(segs []segment, rest string, args Args) bool {
	if len(segs) == 0 {
		return rest == ""
	}
	seg := segs[0]

	if !seg.isPlaceholder() {
		if !strings.HasPrefix(rest, seg.literal) {
			return false
		}
		return matchSegments(segs[1:], rest[len(seg.literal):], args)
	}

	// Placeholder segment. Its right boundary is every position where the
	// following literal could begin; the tail after the whole line when it
	// is the final segment. Candidates are tried longest-first so string
	// captures are greedy.
	for _, end := range candidateEnds(segs, rest) {
		value, ok := coerce(seg, rest[:end])
		if !ok {
			continue
		}
		if matchSegments(segs[1:], rest[end:], args) {
			args.values[seg.name] = value
			return true
		}
	}
	return false
}

// candidateEnds lists the possible capture lengths for the placeholder at
// segs[0] within rest, longest first.
func candidateEnds(segs []segment, rest string) []int {
	if len(segs) == 1 {
		// Final segment consumes the remainder.
		return []int{len(rest)}
	}
	next := segs[1].literal
	var ends []int
	for i := len(rest) - len(next); i >= 0; i-- {
		if strings.HasPrefix(rest[i:], next) {
			ends = append(ends, i)
		}
	}
	return ends
}

// coerce validates and converts captured text per the placeholder kind.
// A failed parse rejects the candidate capture rather than erroring, so
// matching can backtrack or fall through to other patterns.
func coerce(seg segment, text string) (interface{}, bool) {
	if text == "" {
		return nil, false
	}
	switch seg.kind {
	case KindString:
		return text, true
	case KindInt:
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, false
		}
		return n, true
	case KindWord:
		if strings.ContainsAny(text, " \t") {
			return nil, false
		}
		return text, true
	case KindEnum:
		for _, opt := range seg.options {
			if text == opt {
				return text, true
			}
		}
		return nil, false
	default:
		return nil, false
	}
}
