package treesitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodsInRange_Signature(t *testing.T) {
	src := `export class Calc {
  m(a: number, b?: string) {
    return a;
  }
}
`
	tree := build(t, src, "typescript")
	methods, err := tree.MethodsInRange(1, 5)
	require.NoError(t, err)
	require.Len(t, methods, 1)

	m := methods[0]
	assert.Equal(t, "m", m.Name)
	assert.Equal(t, 2, m.Line)
	assert.False(t, m.Async)
	assert.Equal(t, []Parameter{
		{Name: "a", Type: "number", Optional: false},
		{Name: "b", Type: "string", Optional: true},
	}, m.Args)
}

func TestMethodsInRange_WholeClass(t *testing.T) {
	tree := build(t, userService, "typescript")
	methods, err := tree.MethodsInRange(1, 21)
	require.NoError(t, err)

	names := make([]string, 0, len(methods))
	for _, m := range methods {
		names = append(names, m.Name)
	}
	// constructor and _internal are never callable targets.
	assert.Equal(t, []string{"find", "handler", "plain"}, names)
}

func TestMethodsInRange_ArrowField(t *testing.T) {
	tree := build(t, userService, "typescript")
	methods, err := tree.MethodsInRange(14, 16)
	require.NoError(t, err)
	require.Len(t, methods, 1)

	assert.Equal(t, MethodInfo{
		Name:  "handler",
		Args:  []Parameter{{Name: "x", Type: "number"}},
		Line:  14,
		Async: true,
		Shape: ShapeArrowField,
	}, methods[0])
}

func TestMethodsInRange_AsyncAndDefaultType(t *testing.T) {
	tree := build(t, userService, "typescript")

	methods, err := tree.MethodsInRange(4, 4)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.True(t, methods[0].Async)
	assert.Equal(t, ShapeMethod, methods[0].Shape)

	methods, err = tree.MethodsInRange(19, 19)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, []Parameter{{Name: "name", Type: DefaultType}}, methods[0].Args)
}

func TestMethodsInRange_ConstructorOnly(t *testing.T) {
	tree := build(t, userService, "typescript")
	methods, err := tree.MethodsInRange(2, 2)
	require.NoError(t, err)
	assert.Empty(t, methods)

	methods, err = tree.MethodsInRange(10, 12)
	require.NoError(t, err)
	assert.Empty(t, methods)
}

func TestMethodsInRange_NoCaptureBleed(t *testing.T) {
	src := `class Svc {
  build(x: number) {
    return {
      inner(y: string) {
        return y;
      },
    };
  }

  other(p: boolean, q: Date) {
    class Local {
      deep(z: number) {}
    }
    return new Local();
  }
}
`
	tree := build(t, src, "typescript")
	methods, err := tree.MethodsInRange(1, 16)
	require.NoError(t, err)

	byName := map[string][]Parameter{}
	for _, m := range methods {
		byName[m.Name] = m.Args
	}
	assert.Equal(t, []Parameter{{Name: "x", Type: "number"}}, byName["build"])
	assert.Equal(t, []Parameter{{Name: "p", Type: "boolean"}, {Name: "q", Type: "Date"}}, byName["other"])
	assert.Equal(t, []Parameter{{Name: "z", Type: "number"}}, byName["deep"])
	assert.NotContains(t, byName, "inner")
}

func TestMethodsInRange_SkipsRestAndDestructuring(t *testing.T) {
	src := `class Svc {
  many(a: string, ...rest: number[]) {}
  pick({ id }: Dto, b: number) {}
  bound(this: Svc, c?: Date) {}
}
`
	tree := build(t, src, "typescript")
	methods, err := tree.MethodsInRange(1, 5)
	require.NoError(t, err)
	require.Len(t, methods, 3)

	assert.Equal(t, []Parameter{{Name: "a", Type: "string"}}, methods[0].Args)
	assert.Equal(t, []Parameter{{Name: "b", Type: "number"}}, methods[1].Args)
	assert.Equal(t, []Parameter{{Name: "c", Type: "Date", Optional: true}}, methods[2].Args)
}

func TestMethodsInRange_SkipsAccessorsAndPrivateNames(t *testing.T) {
	src := `class Svc {
  get size() { return 1; }
  set size(v: number) {}
  #secret() {}
  visible() {}
}
`
	tree := build(t, src, "typescript")
	methods, err := tree.MethodsInRange(1, 6)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, "visible", methods[0].Name)
	assert.Empty(t, methods[0].Args)
}

func TestMethodsInRange_ComplexTypes(t *testing.T) {
	src := `class Repo {
  async save(entity: Partial<User>, opts?: { force: boolean }): Promise<void> {}
}
`
	tree := build(t, src, "typescript")
	methods, err := tree.MethodsInRange(2, 2)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, []Parameter{
		{Name: "entity", Type: "Partial<User>"},
		{Name: "opts", Type: "{ force: boolean }", Optional: true},
	}, methods[0].Args)
}

func TestMethodsInRange_JavaScript(t *testing.T) {
	tree := build(t, greeterJS, "javascript")
	methods, err := tree.MethodsInRange(1, 9)
	require.NoError(t, err)
	require.Len(t, methods, 2)

	assert.Equal(t, "greet", methods[0].Name)
	assert.Equal(t, []Parameter{
		{Name: "name", Type: DefaultType},
		{Name: "greeting", Type: DefaultType, Optional: true},
	}, methods[0].Args)

	assert.Equal(t, "shout", methods[1].Name)
	assert.Equal(t, ShapeArrowField, methods[1].Shape)
	assert.Equal(t, []Parameter{{Name: "msg", Type: DefaultType}}, methods[1].Args)
}

func TestMethodsInRange_BareArrowParameter(t *testing.T) {
	src := `class Svc {
  twice = n => n * 2;
}
`
	tree := build(t, src, "typescript")
	methods, err := tree.MethodsInRange(2, 2)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, []Parameter{{Name: "n", Type: DefaultType}}, methods[0].Args)
}

func TestMethodsInRange_InvalidRange(t *testing.T) {
	tree := build(t, userService, "typescript")
	_, err := tree.MethodsInRange(5, 2)
	assert.Error(t, err)
}

func TestMethodInfo_Signature(t *testing.T) {
	m := MethodInfo{
		Name:  "find",
		Async: true,
		Args: []Parameter{
			{Name: "id", Type: "number"},
			{Name: "filter", Type: "string", Optional: true},
		},
	}
	assert.Equal(t, "async find(id: number, filter?: string)", m.Signature())
	assert.Equal(t, "ping()", MethodInfo{Name: "ping"}.Signature())
}
