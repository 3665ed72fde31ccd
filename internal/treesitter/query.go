package treesitter

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	sitter "github.com/smacker/go-tree-sitter"
)

// Capture names shared by the patterns below.
const (
	capClass      = "class.name"
	capMethod     = "method"
	capMethodName = "method.name"
	capParams     = "method.params"
	capFunc       = "func"
)

// pattern is a single structural query and the shape it matches.
type pattern struct {
	shape ShapeKind
	src   string
}

// classPatterns match class declarations and capture the identifier.
func classPatterns(d Dialect) []pattern {
	if d == DialectJavaScript {
		return []pattern{
			{ShapeClass, `(class_declaration name: (identifier) @class.name)`},
		}
	}
	return []pattern{
		{ShapeClass, `(class_declaration name: (type_identifier) @class.name)`},
		{ShapeClass, `(abstract_class_declaration name: (type_identifier) @class.name)`},
	}
}

// methodPatterns match the outer node of every class method shape. Only
// the node itself is captured; name and parameters come from the scoped
// signature pass.
func methodPatterns(d Dialect) []pattern {
	field := "public_field_definition"
	if d == DialectJavaScript {
		field = "field_definition"
	}
	return []pattern{
		{ShapeMethod, `(class_body (method_definition) @method)`},
		{ShapeArrowField, `(class_body (` + field + ` value: (arrow_function)) @method)`},
	}
}

// signaturePatterns capture name and parameter list of a single method
// node. They are run against one method's subtree at a time.
func signaturePatterns(d Dialect) []pattern {
	if d == DialectJavaScript {
		return []pattern{
			{ShapeMethod, `(method_definition
  name: (_) @method.name
  parameters: (formal_parameters) @method.params) @method`},
			{ShapeArrowField, `(field_definition
  property: (_) @method.name
  value: (arrow_function parameters: (formal_parameters) @method.params)) @method`},
			{ShapeArrowField, `(field_definition
  property: (_) @method.name
  value: (arrow_function parameter: (identifier) @method.params)) @method`},
		}
	}
	return []pattern{
		{ShapeMethod, `(method_definition
  name: (_) @method.name
  parameters: (formal_parameters) @method.params) @method`},
		{ShapeArrowField, `(public_field_definition
  name: (_) @method.name
  value: (arrow_function parameters: (formal_parameters) @method.params)) @method`},
		{ShapeArrowField, `(public_field_definition
  name: (_) @method.name
  value: (arrow_function parameter: (identifier) @method.params)) @method`},
	}
}

// functionPatterns match every function-like node a cursor can sit in.
// Every pattern compiles against both the TypeScript and JavaScript
// grammars.
func functionPatterns() []pattern {
	return []pattern{
		{ShapeFunctionDecl, `(function_declaration) @func`},
		{ShapeFunctionDecl, `(generator_function_declaration) @func`},
		{ShapeMethod, `(method_definition) @func`},
		{ShapeArrowFunction, `(arrow_function) @func`},
		{ShapeFunctionExpr, `(function_expression) @func`},
		{ShapeFunctionExpr, `(generator_function) @func`},
		{ShapeIIFE, `(call_expression function: (parenthesized_expression (function_expression))) @func`},
		{ShapeIIFE, `(call_expression function: (parenthesized_expression (arrow_function))) @func`},
	}
}

// compiled pairs a compiled query with the shape its pattern matches.
type compiled struct {
	shape ShapeKind
	q     *sitter.Query
}

// compileAll compiles each pattern on its own. Patterns the grammar rejects
// are logged and skipped; ErrQueryCompile is returned only when none compile.
func (t *SourceTree) compileAll(patterns []pattern) ([]compiled, error) {
	lang := t.g.lang()
	out := make([]compiled, 0, len(patterns))
	var lastErr error
	for _, p := range patterns {
		q, err := sitter.NewQuery([]byte(p.src), lang)
		if err != nil {
			log.Debug().Err(err).Str("lang", t.g.name).Str("pattern", p.src).Msg("treesitter: pattern skipped")
			lastErr = err
			continue
		}
		out = append(out, compiled{shape: p.shape, q: q})
	}
	if len(out) == 0 && len(patterns) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrQueryCompile, lastErr)
	}
	return out, nil
}

func closeAll(qs []compiled) {
	for _, c := range qs {
		c.q.Close()
	}
}

// match is one query match flattened to its named captures.
type match struct {
	shape    ShapeKind
	captures map[string]*sitter.Node
}

// runQueries executes every compiled query under node and returns the
// matches ordered by the start byte of their first capture, which is the
// pre-order position of the matched node.
func runQueries(qs []compiled, node *sitter.Node, src []byte) []match {
	var out []match
	for _, c := range qs {
		qc := sitter.NewQueryCursor()
		qc.Exec(c.q, node)
		for {
			m, ok := qc.NextMatch()
			if !ok {
				break
			}
			m = qc.FilterPredicates(m, src)
			if len(m.Captures) == 0 {
				continue
			}
			caps := make(map[string]*sitter.Node, len(m.Captures))
			for _, capture := range m.Captures {
				caps[c.q.CaptureNameForId(capture.Index)] = capture.Node
			}
			out = append(out, match{shape: c.shape, captures: caps})
		}
		qc.Close()
	}
	sortMatches(out)
	return out
}

func sortMatches(ms []match) {
	slices.SortStableFunc(ms, func(a, b match) int {
		return cmp.Compare(a.start(), b.start())
	})
}

func (m match) start() uint32 {
	s := ^uint32(0)
	for _, n := range m.captures {
		s = min(s, n.StartByte())
	}
	return s
}
