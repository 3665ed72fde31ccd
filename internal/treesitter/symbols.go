// Package treesitter provides tree-sitter based structural queries over
// TypeScript and JavaScript source. It locates classes, class methods and
// their parameter lists so a caller can build a REPL invocation for the
// method under the cursor or inside a selection.
package treesitter

import "fmt"

// ShapeKind classifies the function-like node shapes the queries match.
type ShapeKind int

const (
	ShapeMethod ShapeKind = iota
	ShapeArrowField
	ShapeFunctionDecl
	ShapeArrowFunction
	ShapeFunctionExpr
	ShapeIIFE
	ShapeClass
)

// String returns a short label for the shape kind.
func (k ShapeKind) String() string {
	switch k {
	case ShapeMethod:
		return "method"
	case ShapeArrowField:
		return "arrow-field"
	case ShapeFunctionDecl:
		return "function"
	case ShapeArrowFunction:
		return "arrow"
	case ShapeFunctionExpr:
		return "function-expr"
	case ShapeIIFE:
		return "iife"
	case ShapeClass:
		return "class"
	default:
		return "unknown"
	}
}

// DefaultType is the declared type of a parameter with no annotation.
const DefaultType = "any"

// Parameter is one accepted entry of a method's parameter list.
type Parameter struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional"`
}

// MethodInfo describes a located class method. Values are never mutated
// after extraction.
type MethodInfo struct {
	Name  string      `json:"name"`
	Args  []Parameter `json:"args"`
	Line  int         `json:"line"` // 1-indexed
	Async bool        `json:"async"`
	Shape ShapeKind   `json:"-"`
}

// Signature renders the method as "name(a: number, b?: string)".
func (m MethodInfo) Signature() string {
	s := m.Name + "("
	for i, a := range m.Args {
		if i > 0 {
			s += ", "
		}
		s += a.Name
		if a.Optional {
			s += "?"
		}
		s += ": " + a.Type
	}
	s += ")"
	if m.Async {
		s = "async " + s
	}
	return s
}

// Range is a 1-indexed inclusive line span.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewRange returns a Range, rejecting spans that end before they start or
// start before line 1.
func NewRange(start, end int) (Range, error) {
	if start < 1 {
		return Range{}, fmt.Errorf("range start %d must be >= 1", start)
	}
	if start > end {
		return Range{}, fmt.Errorf("range start %d is after end %d", start, end)
	}
	return Range{Start: start, End: end}, nil
}

// Contains reports whether line falls inside r.
func (r Range) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// Within reports whether r is nested inside (or equal to) outer.
func (r Range) Within(outer Range) bool {
	return r.Start >= outer.Start && r.End <= outer.End
}

// Intersects reports whether r and other share at least one line.
func (r Range) Intersects(other Range) bool {
	return r.Start <= other.End && other.Start <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}
