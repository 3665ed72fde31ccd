package discover

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0600))
	}
	return root
}

func project(t *testing.T) string {
	return writeTree(t, map[string]string{
		".gitignore":                       "generated/\n",
		"src/users/users.service.ts":       "export class UsersService {\n  find() {}\n}\n",
		"src/users/users.controller.ts":    "// uses class UsersService\nexport class UsersController {}\n",
		"src/app.js":                       "class App {}\n",
		"src/types.d.ts":                   "declare class UsersService {}\n",
		"src/README.md":                    "class UsersService\n",
		"generated/client.ts":              "export class UsersService {}\n",
		"node_modules/pkg/index.js":        "class UsersService {}\n",
		"src/legacy/users.service.old.tsx": "export class UsersService {\n}\n",
		"src/admin/admin.service.ts":       "@Injectable()\nclass AdminService {\n  list() {}\n}\n",
	})
}

func TestSources(t *testing.T) {
	root := project(t)
	files, err := Sources(context.Background(), root)
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.ElementsMatch(t, []string{
		"src/users/users.service.ts",
		"src/users/users.controller.ts",
		"src/app.js",
		"src/admin/admin.service.ts",
		"src/legacy/users.service.old.tsx",
	}, rel)
}

func TestFindClass(t *testing.T) {
	root := project(t)
	hits, err := FindClass(context.Background(), root, "UsersService")
	require.NoError(t, err)

	var paths []string
	for _, h := range hits {
		assert.Equal(t, 1, h.Line)
		paths = append(paths, filepath.ToSlash(h.Path))
	}
	assert.ElementsMatch(t, []string{
		"src/users/users.service.ts",
		"src/legacy/users.service.old.tsx",
	}, paths)
}

func TestFindClass_NoName(t *testing.T) {
	_, err := FindClass(context.Background(), t.TempDir(), "")
	assert.Error(t, err)
}

func TestSources_Cancelled(t *testing.T) {
	root := project(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sources(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindClass_DecoratedReportsClassLine(t *testing.T) {
	root := project(t)
	hits, err := FindClass(context.Background(), root, "AdminService")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "src/admin/admin.service.ts", filepath.ToSlash(hits[0].Path))
	assert.Equal(t, 2, hits[0].Line)
}
