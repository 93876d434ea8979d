package gridshell

import (
	"errors"
	"image/color"
	"strings"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned when a color name is neither a known name nor a valid literal.
// Callers should keep their current color.
var ErrInvalidColor = errors.New("gridshell: invalid color")

// DefaultForeground is the default text color (black).
var DefaultForeground = color.RGBA{0, 0, 0, 255}

// DefaultBackground is the default background color (white).
var DefaultBackground = color.RGBA{255, 255, 255, 255}

// DefaultSpecial is the default undercurl color (red).
var DefaultSpecial = color.RGBA{255, 0, 0, 255}

// Transparent is returned for the color name "transparent".
var Transparent = color.RGBA{}

// editorColors are the editor's own names that the X11 set does not define.
var editorColors = map[string]color.RGBA{
	"darkyellow":   {0xBB, 0xBB, 0x00, 255},
	"lightred":     {0xFF, 0xBB, 0xBB, 255},
	"lightmagenta": {0xFF, 0xBB, 0xFF, 255},
	"gray10":       {0x1A, 0x1A, 0x1A, 255},
	"gray20":       {0x33, 0x33, 0x33, 255},
	"gray30":       {0x4D, 0x4D, 0x4D, 255},
	"gray40":       {0x66, 0x66, 0x66, 255},
	"gray50":       {0x7F, 0x7F, 0x7F, 255},
	"gray60":       {0x99, 0x99, 0x99, 255},
	"gray70":       {0xB3, 0xB3, 0xB3, 255},
	"gray80":       {0xCC, 0xCC, 0xCC, 255},
	"gray90":       {0xE5, 0xE5, 0xE5, 255},
}

// colorTable maps lower-cased, space-stripped names to colors. Built once, never mutated.
var colorTable = buildColorTable()

func buildColorTable() map[string]color.RGBA {
	table := make(map[string]color.RGBA, len(tcell.ColorNames)+2*len(editorColors))

	for name, c := range tcell.ColorNames {
		r, g, b := c.RGB()
		if r < 0 {
			continue
		}
		table[normalizeColorName(name)] = color.RGBA{uint8(r), uint8(g), uint8(b), 255}
	}

	for name, c := range editorColors {
		if _, ok := table[name]; !ok {
			table[name] = c
		}
		if strings.HasPrefix(name, "gray") {
			grey := "grey" + strings.TrimPrefix(name, "gray")
			if _, ok := table[grey]; !ok {
				table[grey] = c
			}
		}
	}

	return table
}

func normalizeColorName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}

// LookupColor returns the named color. Names are case and space insensitive,
// so "Dark Blue" and "darkblue" are the same color.
func LookupColor(name string) (color.RGBA, bool) {
	c, ok := colorTable[normalizeColorName(name)]
	return c, ok
}

// ParseColor resolves a color name, the literal "transparent", or a #RGB/#RRGGBB literal.
// Returns ErrInvalidColor for anything else.
func ParseColor(name string) (color.RGBA, error) {
	cname := normalizeColorName(name)
	if c, ok := colorTable[cname]; ok {
		return c, nil
	}
	if cname == "transparent" {
		return Transparent, nil
	}
	if strings.HasPrefix(cname, "#") {
		c, err := colorful.Hex(cname)
		if err == nil {
			r, g, b := c.RGB255()
			return color.RGBA{r, g, b, 255}, nil
		}
	}
	return color.RGBA{}, ErrInvalidColor
}
