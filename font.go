package gridshell

import (
	"strconv"
	"strings"
)

// DefaultPointSize is used when a font name carries no point size.
const DefaultPointSize = 10

// FallbackFamily is the generic family the font system substitutes for unknown fonts.
// Requesting it never counts as a family mismatch.
const FallbackFamily = "Monospace"

// regularStyles lists style names that mean "regular", in order of preference.
// Many families have no style literally named "Regular".
var regularStyles = []string{
	"Regular",
	"Normal",
	"Book",
	"Roman",
	"Plain",
	"Upright",
	"Medium",
	"Light",
	"Sans",
}

// FontDescriptor identifies a font as requested by the editor and as resolved by the font system.
type FontDescriptor struct {
	Name         string // font name as given, e.g. "DejaVu Sans Mono 10"
	Family       string
	PointSize    int
	FixedPitch   bool   // false means text must be drawn glyph by glyph
	Substituted  bool   // the font system rendered a different family than requested
	RegularStyle string // style name used for the regular variant
}

// ParseFontName parses a "<family> <point-size>" font name.
// The point size is the last whitespace-delimited token and must be an integer in
// 1..65535; otherwise the whole name is used as the family with DefaultPointSize.
func ParseFontName(name string) FontDescriptor {
	desc := FontDescriptor{
		Name:      name,
		Family:    strings.TrimSpace(name),
		PointSize: DefaultPointSize,
	}

	fields := strings.Fields(name)
	if len(fields) < 2 {
		return desc
	}

	size, err := strconv.ParseUint(fields[len(fields)-1], 10, 16)
	if err != nil || size == 0 {
		return desc
	}

	desc.Family = strings.Join(fields[:len(fields)-1], " ")
	desc.PointSize = int(size)
	return desc
}

// String formats the descriptor back into the font name wire format.
func (d FontDescriptor) String() string {
	return d.Family + " " + strconv.Itoa(d.PointSize)
}

// ResolveRegularStyle picks the style to use as "regular" from the styles a family offers.
// Returns the first style if none of the preferred names is present, or "" for no styles.
func ResolveRegularStyle(styles []string) string {
	for _, want := range regularStyles {
		for _, s := range styles {
			if strings.EqualFold(s, want) {
				return s
			}
		}
	}
	if len(styles) > 0 {
		return styles[0]
	}
	return ""
}
