// File: internal/stepdef/args.go
package stepdef

// Args carries the extracted, already type-coerced placeholder values for
// one resolved step line. Handlers look values up by the placeholder name
// declared in the pattern; asking for a name the pattern does not declare
// is a programming error and yields the zero value.
type Args struct {
	values map[string]interface{}
}

// Has reports whether a value was captured under name.
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// String returns the string captured under name, or "" if absent or of a
// different kind.
func (a Args) String(name string) string {
	s, _ := a.values[name].(string)
	return s
}

// Int returns the integer captured under name, or 0 if absent or of a
// different kind.
func (a Args) Int(name string) int {
	n, _ := a.values[name].(int)
	return n
}

// Len returns the number of captured values.
func (a Args) Len() int { return len(a.values) }
