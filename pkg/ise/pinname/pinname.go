// Package pinname parses and formats ISE schematic pin names.
//
// A pin name is either a plain base name ("sel") or a base name followed by
// a bus range ("i0(7:0)"). The base name is one or more letters, digits or
// underscores; the bounds are non-negative decimal integers written without
// leading zeros. Formatting a parsed name reproduces the original string.
package pinname

import (
	"fmt"
	"regexp"
	"strconv"
)

// ParseError reports a string that is not a valid pin name.
type ParseError struct {
	Name string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("pinname: invalid pin name %q", e.Name)
	}
	return fmt.Sprintf("pinname: invalid pin name %q: %v", e.Name, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Range is the bit range of a bus pin. Left is written first, so an MSB-left
// bus such as "d(7:0)" has Left 7 and Right 0.
type Range struct {
	Left  int
	Right int
}

// Width returns the number of bits covered by the range.
func (r Range) Width() int {
	if r.Left > r.Right {
		return r.Left - r.Right + 1
	}
	return r.Right - r.Left + 1
}

// Ascending reports whether the range counts up from left to right.
func (r Range) Ascending() bool {
	return r.Right > r.Left
}

// Name is a parsed pin name. Bus is nil for a single-bit pin.
type Name struct {
	Base string
	Bus  *Range
}

// Scalar returns a non-bus pin name.
func Scalar(base string) Name {
	return Name{Base: base}
}

// Bus returns a bus pin name with the given bounds.
func Bus(base string, left, right int) Name {
	return Name{Base: base, Bus: &Range{Left: left, Right: right}}
}

// IsBus reports whether the name carries a bit range.
func (n Name) IsBus() bool {
	return n.Bus != nil
}

// Width returns the bus width, or 1 for a scalar pin.
func (n Name) Width() int {
	if n.Bus == nil {
		return 1
	}
	return n.Bus.Width()
}

// String formats the name as it appears in a symbol file.
func (n Name) String() string {
	return Format(n.Base, n.Bus)
}

// Format renders base with an optional bus range: "base(left:right)" when r
// is non-nil, otherwise base unchanged.
func Format(base string, r *Range) string {
	if r == nil {
		return base
	}
	return fmt.Sprintf("%s(%d:%d)", base, r.Left, r.Right)
}

var boundPattern = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

// Parse splits a pin name into its base name and optional bus range. The
// whole string must match; there is no partial result on error.
func Parse(s string) (Name, error) {
	ast, err := pinParser.ParseString("", s)
	if err != nil {
		return Name{}, &ParseError{Name: s, Err: err}
	}

	name := Name{Base: ast.Base}
	if ast.Range == nil {
		return name, nil
	}

	left, err := parseBound(ast.Range.Left)
	if err != nil {
		return Name{}, &ParseError{Name: s, Err: err}
	}
	right, err := parseBound(ast.Range.Right)
	if err != nil {
		return Name{}, &ParseError{Name: s, Err: err}
	}
	name.Bus = &Range{Left: left, Right: right}
	return name, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Name {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

func parseBound(tok string) (int, error) {
	if !boundPattern.MatchString(tok) {
		return 0, fmt.Errorf("bound %q is not a decimal integer", tok)
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("bound %q: %w", tok, err)
	}
	return v, nil
}
