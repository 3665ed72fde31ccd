package treesitter

import (
	"context"
	"fmt"
)

// Selection is either an explicit line range or a cursor line. When Range
// is nil the method enclosing Cursor is located first.
type Selection struct {
	Range  *Range
	Cursor int
}

// Cursor returns a cursor-based selection.
func Cursor(line int) Selection {
	return Selection{Cursor: line}
}

// Lines returns an explicit range selection.
func Lines(start, end int) (Selection, error) {
	r, err := NewRange(start, end)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Range: &r}, nil
}

// Extraction is everything the core reports for one request.
type Extraction struct {
	Language string       `json:"language"`
	Classes  []string     `json:"classes"`
	Methods  []MethodInfo `json:"methods"`
	Range    *Range       `json:"range,omitempty"` // the range methods were searched in
}

// Extract parses src and resolves the class names and the methods covered
// by sel. A cursor outside every function yields no methods and a nil
// Range; that is not an error.
func Extract(ctx context.Context, src []byte, hint string, sel Selection) (*Extraction, error) {
	tree, err := Build(ctx, src, hint)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return tree.Extract(sel)
}

// Extract resolves sel against an already built tree.
func (t *SourceTree) Extract(sel Selection) (*Extraction, error) {
	classes, err := t.ClassNames()
	if err != nil {
		return nil, fmt.Errorf("class names: %w", err)
	}
	out := &Extraction{Language: t.g.name, Classes: classes, Methods: []MethodInfo{}}

	r := sel.Range
	if r == nil {
		r, err = t.EnclosingMethod(sel.Cursor)
		if err != nil {
			return nil, fmt.Errorf("enclosing method: %w", err)
		}
		if r == nil {
			return out, nil
		}
	}
	out.Range = r

	methods, err := t.MethodsInRange(r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("methods: %w", err)
	}
	out.Methods = methods
	return out, nil
}
