package gridshell

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ErrNoFont is returned when a requested font cannot be used as the grid font.
var ErrNoFont = errors.New("gridshell: no font")

// ResolveFont parses spec and checks it against what fs actually renders.
//
// A family mismatch (case-insensitive, ignored when FallbackFamily was requested) fails
// with ErrNoFont in strict mode; otherwise the descriptor comes back with Substituted set.
// A proportional font fails in strict mode; otherwise it comes back with FixedPitch false,
// which selects the slow drawing path.
func ResolveFont(fs FontSystem, spec string, strict bool) (FontDescriptor, error) {
	desc := ParseFontName(spec)
	if desc.Family == "" {
		return FontDescriptor{}, fmt.Errorf("%w: empty font name", ErrNoFont)
	}

	m, err := fs.Match(desc)
	if err != nil {
		return FontDescriptor{}, fmt.Errorf("%w: %q: %v", ErrNoFont, spec, err)
	}

	if !strings.EqualFold(m.Family, desc.Family) && !strings.EqualFold(desc.Family, FallbackFamily) {
		if strict {
			return FontDescriptor{}, fmt.Errorf("%w: %q renders as %q", ErrNoFont, desc.Family, m.Family)
		}
		desc.Substituted = true
	}

	desc.FixedPitch = m.FixedPitch
	if !m.FixedPitch && strict {
		return FontDescriptor{}, fmt.Errorf("%w: %q is not fixed pitch", ErrNoFont, m.Family)
	}

	desc.RegularStyle = ResolveRegularStyle(m.Styles)
	return desc, nil
}

// GlyphWidths returns the average and maximum advance over printable ASCII.
// Glyphs the face does not have are ignored.
func GlyphWidths(face font.Face) (avg, max fixed.Int26_6) {
	if face == nil {
		return 0, 0
	}

	var sum fixed.Int26_6
	n := 0
	for r := rune(0x20); r < 0x7F; r++ {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		sum += adv
		n++
		if adv > max {
			max = adv
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / fixed.Int26_6(n), max
}

// IsFakeMonospace reports whether a face set cannot be drawn with uniform advances:
// some variant has an average width different from its maximum, or the
// variants disagree on the maximum.
func IsFakeMonospace(faces FaceSet) bool {
	var first fixed.Int26_6
	for i, face := range faces {
		avg, max := GlyphWidths(face)
		if avg != max {
			return true
		}
		if i == 0 {
			first = max
		} else if max != first {
			return true
		}
	}
	return false
}
