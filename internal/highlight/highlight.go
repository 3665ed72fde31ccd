// Package highlight renders located source with Chroma and derives prompt
// colors from the configured Chroma theme.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultTheme is used when no syntax theme is configured.
const DefaultTheme = "github-dark"

// LexerFor maps a tree-sitter language hint to a Chroma lexer name.
func LexerFor(hint string) string {
	switch strings.ToLower(hint) {
	case "typescript", "ts", "mts", "cts":
		return "typescript"
	case "tsx", "typescriptreact":
		return "tsx"
	case "jsx", "javascriptreact":
		return "react"
	case "javascript", "js", "mjs", "cjs":
		return "javascript"
	default:
		return "text"
	}
}

// Highlight returns an ANSI-highlighted version of text using the given
// Chroma language and theme. Unknown languages come back unchanged.
func Highlight(text, language, theme string) string {
	lex := lexers.Get(language)
	if lex == nil {
		return text
	}
	lex = chroma.Coalesce(lex)
	sty := styles.Get(theme)
	fmtr := formatters.Get("terminal16m")
	if fmtr == nil {
		fmtr = formatters.Fallback
	}
	it, err := lex.Tokenise(nil, text)
	if err != nil {
		return text
	}
	var buf strings.Builder
	if err := fmtr.Format(&buf, sty, it); err != nil {
		return text
	}
	return strings.TrimRight(buf.String(), "\n")
}

// Number prefixes each line of block with its 1-indexed line number,
// starting at first.
func Number(block string, first int) string {
	lines := strings.Split(block, "\n")
	width := len(fmt.Sprint(first + len(lines) - 1))
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%*d │ %s", width, first+i, l)
	}
	return b.String()
}

// Palette holds prompt colors derived deterministically from a Chroma theme.
type Palette struct {
	Dim    string // 35% bg→fg, secondary text
	Accent string // Most saturated token color
}

// ThemePalette derives a palette from a Chroma theme name. Same theme,
// same output.
func ThemePalette(theme string) Palette {
	sty := styles.Get(theme)
	if sty == nil {
		return defaultPalette()
	}
	entry := sty.Get(chroma.Background)
	bg := "#000000"
	fg := "#c8c8c8"
	if entry.Background.IsSet() {
		bg = entry.Background.String()
	}
	if entry.Colour.IsSet() {
		fg = entry.Colour.String()
	}
	return Palette{
		Dim:    lerpHex(bg, fg, 0.35),
		Accent: pickAccent(sty, fg),
	}
}

func defaultPalette() Palette {
	return Palette{Dim: "#464646", Accent: "#00dfff"}
}

// pickAccent returns the most saturated foreground color across all tokens.
func pickAccent(sty *chroma.Style, fallback string) string {
	best := fallback
	bestSat := 0.0
	for _, tt := range []chroma.TokenType{
		chroma.Keyword, chroma.NameFunction, chroma.NameClass,
		chroma.LiteralString, chroma.LiteralNumber, chroma.NameBuiltin,
	} {
		e := sty.Get(tt)
		if !e.Colour.IsSet() {
			continue
		}
		hex := e.Colour.String()
		r, g, b := hexToRGBf(hex)
		mx := max(r, g, b)
		if mx == 0 {
			continue
		}
		sat := (mx - min(r, g, b)) / mx
		if sat > bestSat {
			bestSat = sat
			best = hex
		}
	}
	return best
}

// lerpHex linearly interpolates between two hex colors at fraction t.
func lerpHex(a, b string, t float64) string {
	ar, ag, ab := hexToRGBf(a)
	br, bg, bb := hexToRGBf(b)
	return fmt.Sprintf("#%02x%02x%02x",
		clampByte(ar+(br-ar)*t),
		clampByte(ag+(bg-ag)*t),
		clampByte(ab+(bb-ab)*t),
	)
}

func hexToRGBf(hex string) (float64, float64, float64) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	return float64(hexByte(hex[1], hex[2])),
		float64(hexByte(hex[3], hex[4])),
		float64(hexByte(hex[5], hex[6]))
}

func hexByte(hi, lo byte) int {
	return hexNibble(hi)<<4 | hexNibble(lo)
}

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}

func clampByte(v float64) int {
	return int(min(max(v, 0), 255) + 0.5)
}
