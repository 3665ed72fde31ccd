// Package discover walks a project for parseable source files and finds the
// file that declares a class.
package discover

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/nestcall/internal/treesitter"
)

const maxFileSize = 2 * 1024 * 1024

// Hit is a class declaration found in a project.
type Hit struct {
	Path string // relative to the walk root
	Line int    // 1-indexed
}

// Sources returns every file under root that a SourceTree can parse, in
// walk order, skipping ignored paths and oversized files.
func Sources(ctx context.Context, root string) ([]string, error) {
	ig, err := LoadIgnore(root)
	if err != nil {
		return nil, fmt.Errorf("load ignore rules: %w", err)
	}

	var out []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			log.Debug().Err(walkErr).Str("path", p).Msg("walk error")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == "." {
			return nil
		}
		if ig.Match(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !treesitter.Supported(treesitter.HintForPath(p)) {
			return nil
		}
		if info, err := d.Info(); err != nil || info.Size() > maxFileSize {
			return nil
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindClass returns the declarations of the named class under root. Lines
// are prefiltered with a regexp, then confirmed by parsing the file so that
// comments and strings never count.
func FindClass(ctx context.Context, root, name string) ([]Hit, error) {
	if name == "" {
		return nil, errors.New("class name is required")
	}
	re, err := regexp.Compile(`\bclass\s+` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return nil, fmt.Errorf("invalid class name: %w", err)
	}

	files, err := Sources(ctx, root)
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for _, p := range files {
		if !mentions(p, re) {
			continue
		}
		found, err := declarations(ctx, p, name)
		if err != nil {
			log.Debug().Err(err).Str("path", p).Msg("skipping unparseable file")
			continue
		}
		rel, _ := filepath.Rel(root, p)
		for _, line := range found {
			hits = append(hits, Hit{Path: rel, Line: line})
		}
	}
	return hits, nil
}

func mentions(p string, re *regexp.Regexp) bool {
	f, err := os.Open(p) //nolint:gosec // G304: path comes from the project walk
	if err != nil {
		return false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxFileSize)
	for sc.Scan() {
		if re.Match(sc.Bytes()) {
			return true
		}
	}
	return false
}

func declarations(ctx context.Context, p, name string) ([]int, error) {
	src, err := os.ReadFile(p) //nolint:gosec // G304: path comes from the project walk
	if err != nil {
		return nil, err
	}
	tree, err := treesitter.Build(ctx, src, treesitter.HintForPath(p))
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	classes, err := tree.Classes()
	if err != nil {
		return nil, err
	}
	var lines []int
	for _, c := range classes {
		if c.Name == name {
			lines = append(lines, c.Line)
		}
	}
	return lines, nil
}
