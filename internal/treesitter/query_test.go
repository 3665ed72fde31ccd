package treesitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAll_SkipsRejectedPatterns(t *testing.T) {
	tree := build(t, userService, "typescript")

	qs, err := tree.compileAll([]pattern{
		{ShapeFunctionDecl, `(no_such_node) @func`},
		{ShapeMethod, `(method_definition) @func`},
		{ShapeFunctionDecl, `(function_declaration @func`},
	})
	require.NoError(t, err)
	defer closeAll(qs)

	require.Len(t, qs, 1)
	assert.Equal(t, ShapeMethod, qs[0].shape)
	assert.NotEmpty(t, runQueries(qs, tree.root, tree.src))
}

func TestCompileAll_AllRejected(t *testing.T) {
	tree := build(t, userService, "typescript")

	qs, err := tree.compileAll([]pattern{
		{ShapeFunctionDecl, `(no_such_node) @func`},
		{ShapeMethod, `((unbalanced`},
	})
	require.ErrorIs(t, err, ErrQueryCompile)
	assert.Nil(t, qs)
}

func TestCompileAll_NoPatterns(t *testing.T) {
	tree := build(t, userService, "typescript")
	qs, err := tree.compileAll(nil)
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestFunctionPatterns_CompileForEveryGrammar(t *testing.T) {
	for _, hint := range []string{"typescript", "tsx", "javascript"} {
		t.Run(hint, func(t *testing.T) {
			tree := build(t, "function f() {}\n", hint)
			qs, err := tree.compileAll(functionPatterns())
			require.NoError(t, err)
			defer closeAll(qs)
			assert.Len(t, qs, len(functionPatterns()))
		})
	}
}
