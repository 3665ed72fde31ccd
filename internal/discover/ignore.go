package discover

import (
	"bufio"
	"errors"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultIgnores are skipped in every project, with or without a .gitignore.
var DefaultIgnores = []string{".git/", "node_modules/", "dist/", "coverage/", "*.d.ts"}

// Ignore decides which paths of a project are not walked.
type Ignore struct {
	rules []rule
}

type rule struct {
	re      *regexp.Regexp
	negate  bool
	dirOnly bool
	rooted  bool
}

// LoadIgnore reads root/.gitignore on top of DefaultIgnores. A missing
// file is not an error.
func LoadIgnore(root string) (*Ignore, error) {
	ig := NewIgnore(DefaultIgnores...)

	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if errors.Is(err, os.ErrNotExist) {
		return ig, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ig.Add(sc.Text())
	}
	return ig, sc.Err()
}

// NewIgnore builds a matcher from gitignore-style lines.
func NewIgnore(lines ...string) *Ignore {
	ig := &Ignore{}
	for _, l := range lines {
		ig.Add(l)
	}
	return ig
}

// Add appends one gitignore line. Blank lines, comments and patterns that
// do not compile are dropped.
func (ig *Ignore) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	var r rule
	if rest, ok := strings.CutPrefix(line, "!"); ok {
		r.negate = true
		line = rest
	}
	if rest, ok := strings.CutSuffix(line, "/"); ok {
		r.dirOnly = true
		line = rest
	}
	if rest, ok := strings.CutPrefix(line, "/"); ok {
		r.rooted = true
		line = rest
	}
	re, err := regexp.Compile(globRegexp(line, r.rooted))
	if err != nil {
		return
	}
	r.re = re
	ig.rules = append(ig.rules, r)
}

// Match reports whether rel (relative to the project root) is ignored. The
// last matching rule wins.
func (ig *Ignore) Match(rel string, isDir bool) bool {
	if ig == nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	ignored := false
	for _, r := range ig.rules {
		if r.matches(rel, isDir) {
			ignored = !r.negate
		}
	}
	return ignored
}

func (r rule) matches(rel string, isDir bool) bool {
	if r.dirOnly {
		if isDir {
			return r.re.MatchString(rel)
		}
		return r.re.MatchString(path.Dir(rel))
	}
	if r.rooted {
		return r.re.MatchString(rel)
	}
	return r.re.MatchString(rel) || r.re.MatchString(path.Base(rel))
}

// globRegexp translates a gitignore glob. Unrooted globs may match at any
// depth and also cover everything beneath a matched directory.
func globRegexp(glob string, rooted bool) string {
	var b strings.Builder
	if rooted {
		b.WriteString("^")
	} else {
		b.WriteString("(^|/)")
	}

	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch c {
		case '*':
			switch {
			case strings.HasPrefix(glob[i:], "**/"):
				b.WriteString("(.*/)?")
				i += 2
			case strings.HasPrefix(glob[i:], "**"):
				b.WriteString(".*")
				i++
			default:
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		case '[':
			end := strings.IndexByte(glob[i:], ']')
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(glob[i : i+end+1])
			i += end
		case '\\':
			if i+1 < len(glob) {
				b.WriteString(regexp.QuoteMeta(glob[i+1 : i+2]))
				i++
			} else {
				b.WriteString(`\\`)
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	if rooted {
		b.WriteString("$")
	} else {
		b.WriteString("(/.*)?$")
	}
	return b.String()
}
