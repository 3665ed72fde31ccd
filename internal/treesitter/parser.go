package treesitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

var (
	// ErrParserUnavailable is returned when no grammar exists for a language hint.
	ErrParserUnavailable = errors.New("parser unavailable")
	// ErrParseFailure is returned when the parser yields no tree or no root node.
	ErrParseFailure = errors.New("parse failure")
	// ErrQueryCompile is returned when a structural query cannot be compiled.
	ErrQueryCompile = errors.New("query compile failure")
)

// Dialect identifies which grammar family a tree was parsed with. The
// TypeScript and JavaScript grammars name a few nodes differently.
type Dialect int

const (
	DialectTypeScript Dialect = iota
	DialectJavaScript
)

type grammar struct {
	name    string
	dialect Dialect
	lang    func() *sitter.Language
}

// langForHint returns the grammar for a language hint, or false.
func langForHint(hint string) (grammar, bool) {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "typescript", "ts", "mts", "cts":
		return grammar{"typescript", DialectTypeScript, typescript.GetLanguage}, true
	case "tsx", "typescriptreact":
		return grammar{"tsx", DialectTypeScript, tsx.GetLanguage}, true
	case "javascript", "js", "mjs", "cjs", "jsx", "javascriptreact":
		return grammar{"javascript", DialectJavaScript, javascript.GetLanguage}, true
	default:
		return grammar{}, false
	}
}

// HintForPath derives a language hint from a file extension. It returns ""
// for files without a supported grammar.
func HintForPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if _, ok := langForHint(ext); !ok {
		return ""
	}
	return ext
}

// Supported returns true if the hint has a tree-sitter grammar.
func Supported(hint string) bool {
	_, ok := langForHint(hint)
	return ok
}

// SourceTree owns a parser and the tree parsed from one buffer snapshot.
// It is not safe for concurrent use.
type SourceTree struct {
	g      grammar
	parser *sitter.Parser
	tree   *sitter.Tree
	root   *sitter.Node
	src    []byte
}

// Build parses src with the grammar named by hint.
func Build(ctx context.Context, src []byte, hint string) (*SourceTree, error) {
	g, ok := langForHint(hint)
	if !ok {
		return nil, fmt.Errorf("%w: no grammar for %q", ErrParserUnavailable, hint)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(g.lang())

	t := &SourceTree{g: g, parser: parser}
	if err := t.parse(ctx, src); err != nil {
		parser.Close()
		return nil, err
	}
	return t, nil
}

// Update re-parses when src differs from the text of the last parse.
func (t *SourceTree) Update(ctx context.Context, src []byte) error {
	if t.tree != nil && bytes.Equal(t.src, src) {
		return nil
	}
	return t.parse(ctx, src)
}

func (t *SourceTree) parse(ctx context.Context, src []byte) error {
	tree, err := t.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	if tree == nil {
		return fmt.Errorf("%w: parser returned no tree", ErrParseFailure)
	}
	root := tree.RootNode()
	if root == nil || root.IsNull() {
		tree.Close()
		return fmt.Errorf("%w: tree has no root node", ErrParseFailure)
	}
	if root.HasError() {
		log.Debug().Str("lang", t.g.name).Msg("treesitter: source contains syntax errors")
	}

	if t.tree != nil {
		t.tree.Close()
	}
	t.tree = tree
	t.root = root
	t.src = bytes.Clone(src)
	return nil
}

// Language returns the canonical grammar name.
func (t *SourceTree) Language() string { return t.g.name }

// Dialect returns the grammar family of the tree.
func (t *SourceTree) Dialect() Dialect { return t.g.dialect }

// Source returns the text the tree was parsed from.
func (t *SourceTree) Source() []byte { return t.src }

// Lines returns the source text between two 1-indexed lines, inclusive.
func (t *SourceTree) Lines(r Range) string {
	lines := strings.Split(string(t.src), "\n")
	start := max(r.Start, 1)
	end := min(r.End, len(lines))
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

// Close releases the tree and parser.
func (t *SourceTree) Close() {
	if t == nil {
		return
	}
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
	if t.parser != nil {
		t.parser.Close()
		t.parser = nil
	}
	t.root = nil
}

// helpers

func content(node *sitter.Node, src []byte) string {
	return node.Content(src)
}

func line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1 // 1-indexed
}

func endLine(node *sitter.Node) int {
	return int(node.EndPoint().Row) + 1
}

func nodeRange(node *sitter.Node) Range {
	return Range{Start: line(node), End: endLine(node)}
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
