package treesitter

import (
	"strings"

	"github.com/rs/zerolog/log"
	sitter "github.com/smacker/go-tree-sitter"
)

// Class is a class declaration and the lines it spans. Range includes any
// decorators the grammar attaches to the declaration; Line is where the
// class name itself sits.
type Class struct {
	Name  string `json:"name"`
	Line  int    `json:"line"`
	Range Range  `json:"range"`
}

// Classes returns every class declaration in pre-order.
func (t *SourceTree) Classes() ([]Class, error) {
	qs, err := t.compileAll(classPatterns(t.g.dialect))
	if err != nil {
		return nil, err
	}
	defer closeAll(qs)

	classes := []Class{}
	for _, m := range runQueries(qs, t.root, t.src) {
		n := m.captures[capClass]
		if n == nil {
			continue
		}
		decl := n.Parent()
		if decl == nil {
			decl = n
		}
		classes = append(classes, Class{Name: content(n, t.src), Line: line(n), Range: nodeRange(decl)})
	}
	return classes, nil
}

// ClassNames returns the identifiers of all class declarations in pre-order.
// A file with no classes yields an empty slice.
func (t *SourceTree) ClassNames() ([]string, error) {
	classes, err := t.Classes()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(classes))
	for _, c := range classes {
		names = append(names, c.Name)
	}
	return names, nil
}

// MethodsInRange returns the class methods whose span intersects the
// 1-indexed inclusive line range [start, end], in source order.
//
// Matching runs in two passes. The first collects the outer method nodes.
// The second re-queries each node's own subtree for its name and
// parameter list, accepting only the match rooted at that node, so a
// method never picks up captures from a nested or sibling definition.
func (t *SourceTree) MethodsInRange(start, end int) ([]MethodInfo, error) {
	sel, err := NewRange(start, end)
	if err != nil {
		return nil, err
	}

	outer, err := t.compileAll(methodPatterns(t.g.dialect))
	if err != nil {
		return nil, err
	}
	defer closeAll(outer)

	inner, err := t.compileAll(signaturePatterns(t.g.dialect))
	if err != nil {
		return nil, err
	}
	defer closeAll(inner)

	// 0-indexed rows from here on.
	lo, hi := uint32(sel.Start-1), uint32(sel.End-1)

	methods := []MethodInfo{}
	for _, m := range runQueries(outer, t.root, t.src) {
		node := m.captures[capMethod]
		if node == nil {
			continue
		}
		if node.EndPoint().Row < lo || node.StartPoint().Row > hi {
			continue
		}
		mi, ok := t.extractSignature(inner, node, m.shape)
		if !ok {
			continue
		}
		methods = append(methods, mi)
	}
	return methods, nil
}

// extractSignature runs the signature queries scoped to node and
// normalises the match rooted at node into a MethodInfo.
func (t *SourceTree) extractSignature(qs []compiled, node *sitter.Node, shape ShapeKind) (MethodInfo, bool) {
	var nameNode, paramsNode *sitter.Node
	for _, m := range runQueries(qs, node, t.src) {
		root := m.captures[capMethod]
		if root == nil || !sameNode(root, node) {
			continue
		}
		nameNode, paramsNode = m.captures[capMethodName], m.captures[capParams]
		break
	}
	if nameNode == nil || paramsNode == nil {
		return MethodInfo{}, false
	}

	name := content(nameNode, t.src)
	if !invocable(nameNode, name) {
		log.Debug().Str("method", name).Int("line", line(node)).Msg("treesitter: method skipped")
		return MethodInfo{}, false
	}
	if shape == ShapeMethod && hasKeyword(node, "get", "set") {
		return MethodInfo{}, false
	}

	fn := node
	if shape == ShapeArrowField {
		fn = node.ChildByFieldName("value")
	}
	return MethodInfo{
		Name:  name,
		Args:  t.extractParams(paramsNode),
		Line:  line(node),
		Async: fn != nil && hasKeyword(fn, "async"),
		Shape: shape,
	}, true
}

// invocable reports whether a method name can be called from a REPL.
func invocable(nameNode *sitter.Node, name string) bool {
	switch nameNode.Type() {
	case "property_identifier", "identifier":
	default:
		return false
	}
	return name != "constructor" && !strings.HasPrefix(name, "_")
}

// extractParams walks the direct children of a parameter list. Only plain
// identifier patterns are accepted; destructuring, rest and `this`
// parameters are left out of the argument list.
func (t *SourceTree) extractParams(params *sitter.Node) []Parameter {
	args := []Parameter{}

	// Unparenthesised single arrow parameter: `x => ...`.
	if params.Type() == "identifier" {
		return append(args, Parameter{Name: content(params, t.src), Type: DefaultType})
	}

	count := int(params.NamedChildCount())
	for i := 0; i < count; i++ {
		child := params.NamedChild(i)
		switch child.Type() {
		case "required_parameter", "optional_parameter":
			pat := paramPattern(child)
			if pat == nil || pat.Type() != "identifier" {
				t.skipParam(child)
				continue
			}
			args = append(args, Parameter{
				Name:     content(pat, t.src),
				Type:     t.paramType(child),
				Optional: child.Type() == "optional_parameter",
			})

		case "identifier":
			args = append(args, Parameter{Name: content(child, t.src), Type: DefaultType})

		case "assignment_pattern":
			left := child.ChildByFieldName("left")
			if left == nil || left.Type() != "identifier" {
				t.skipParam(child)
				continue
			}
			args = append(args, Parameter{Name: content(left, t.src), Type: DefaultType, Optional: true})

		case "comment":
			// ignore

		default:
			t.skipParam(child)
		}
	}
	return args
}

func (t *SourceTree) skipParam(node *sitter.Node) {
	log.Debug().Str("kind", node.Type()).Str("param", content(node, t.src)).Msg("treesitter: parameter skipped")
}

// paramPattern returns the binding of a parameter node.
func paramPattern(param *sitter.Node) *sitter.Node {
	if pat := param.ChildByFieldName("pattern"); pat != nil {
		return pat
	}
	for i := 0; i < int(param.NamedChildCount()); i++ {
		c := param.NamedChild(i)
		switch c.Type() {
		case "decorator", "accessibility_modifier", "override_modifier":
			continue
		}
		return c
	}
	return nil
}

// paramType returns the declared type of a parameter node, or DefaultType.
func (t *SourceTree) paramType(param *sitter.Node) string {
	ann := param.ChildByFieldName("type")
	if ann == nil {
		// Older grammars leave type_annotation unfielded.
		for i := 0; i < int(param.NamedChildCount()); i++ {
			if c := param.NamedChild(i); c.Type() == "type_annotation" {
				ann = c
				break
			}
		}
	}
	if ann == nil {
		return DefaultType
	}
	typ := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(content(ann, t.src)), ":"))
	if typ == "" {
		return DefaultType
	}
	return typ
}

// hasKeyword reports whether one of node's anonymous children is a keyword.
func hasKeyword(node *sitter.Node, keywords ...string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c.IsNamed() {
			continue
		}
		for _, kw := range keywords {
			if c.Type() == kw {
				return true
			}
		}
	}
	return false
}
