package treesitter

import (
	"fmt"
	"strings"
)

// MaxOutlineBytes caps the rendered outline.
const MaxOutlineBytes = 16 * 1024

// FileOutline is the callable surface of one file: every class with the
// methods declared inside it.
type FileOutline struct {
	Path    string
	Classes []ClassOutline
}

// ClassOutline groups the methods found inside one class declaration.
type ClassOutline struct {
	Class
	Methods []MethodInfo
}

// Outline collects classes and their methods from the tree.
func (t *SourceTree) Outline(path string) (FileOutline, error) {
	classes, err := t.Classes()
	if err != nil {
		return FileOutline{}, err
	}
	out := FileOutline{Path: path}
	for _, c := range classes {
		methods, err := t.MethodsInRange(c.Range.Start, c.Range.End)
		if err != nil {
			return FileOutline{}, err
		}
		// Methods of a nested class also intersect the outer span.
		own := methods[:0]
		for _, m := range methods {
			if innermostClass(classes, m.Line) == c {
				own = append(own, m)
			}
		}
		out.Classes = append(out.Classes, ClassOutline{Class: c, Methods: own})
	}
	return out, nil
}

func innermostClass(classes []Class, line int) Class {
	var best Class
	for _, c := range classes {
		if !c.Range.Contains(line) {
			continue
		}
		if best.Name == "" || c.Range.Within(best.Range) {
			best = c
		}
	}
	return best
}

// FormatOutline renders outlines as a compact listing, one class per
// block and one method signature per line. Output is capped at
// MaxOutlineBytes.
//
// Example output:
//
//	src/users/users.service.ts:
//	  UsersService (4-30):
//	    async findOne(id: number)
//	    create(dto: CreateUserDto, notify?: boolean)
func FormatOutline(files []FileOutline) string {
	var b strings.Builder
	for _, f := range files {
		text := formatFile(f)
		if text == "" {
			continue
		}
		entry := fmt.Sprintf("%s:\n%s", f.Path, text)
		if b.Len()+len(entry) > MaxOutlineBytes {
			fmt.Fprintf(&b, "# ... truncated (%d files total)\n", len(files))
			break
		}
		b.WriteString(entry)
	}
	return b.String()
}

func formatFile(f FileOutline) string {
	var b strings.Builder
	for _, c := range f.Classes {
		fmt.Fprintf(&b, "  %s (%s):\n", c.Name, c.Range)
		if len(c.Methods) == 0 {
			b.WriteString("    (no callable methods)\n")
			continue
		}
		for _, m := range c.Methods {
			fmt.Fprintf(&b, "    %s\n", m.Signature())
		}
	}
	return b.String()
}
