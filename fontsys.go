package gridshell

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// ErrNoFace is returned when a font system cannot produce a face for a descriptor.
var ErrNoFace = errors.New("gridshell: no face")

// DefaultDPI is the resolution used to turn point sizes into pixels.
const DefaultDPI = 72

// Variant selects one of the four style variants of a font.
type Variant int

const (
	VariantRegular Variant = iota
	VariantItalic
	VariantBold
	VariantBoldItalic
)

// FaceSet holds one face per Variant.
type FaceSet [4]font.Face

// FontMatch describes what the font system actually renders for a request.
type FontMatch struct {
	Family     string
	FixedPitch bool
	Styles     []string
}

// FontSystem is the platform font binding used by the validator and the renderer.
type FontSystem interface {
	// Match returns the family, pitch and styles the font system would render for desc.
	Match(desc FontDescriptor) (FontMatch, error)
	// Face returns a face for one style variant of desc.
	Face(desc FontDescriptor, v Variant) (font.Face, error)
}

// FontFinder locates font files by name (useful for avoiding font library dependencies).
type FontFinder interface {
	// Find returns the filesystem path to a font file matching the given name.
	Find(name string) (string, error)
}

type faceSource func(size, dpi float64) (font.Face, error)

type fontFamily struct {
	name   string
	styles []string
	faces  map[string]faceSource
	fixed  bool
}

type faceKey struct {
	family string
	style  string
	size   int
}

// Catalog is a FontSystem backed by parsed TrueType/OpenType data.
// It ships with the Go fonts ("Go Mono", "Go") and the bitmap family "Fixed".
// Unknown families are rendered with FallbackFamily, which maps to Go Mono.
type Catalog struct {
	mu       sync.Mutex
	families map[string]*fontFamily
	aliases  map[string]string
	finder   FontFinder
	dpi      float64
	cache    map[faceKey]font.Face
}

// CatalogOption configures a Catalog during construction.
type CatalogOption func(*Catalog)

// WithFontFinder sets the finder used to load families that are not registered yet.
func WithFontFinder(f FontFinder) CatalogOption {
	return func(c *Catalog) {
		c.finder = f
	}
}

// WithDPI sets the resolution used to build faces. Values <= 0 use DefaultDPI.
func WithDPI(dpi float64) CatalogOption {
	return func(c *Catalog) {
		if dpi > 0 {
			c.dpi = dpi
		}
	}
}

// NewCatalog creates a catalog with the built-in families registered.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		families: make(map[string]*fontFamily),
		aliases:  make(map[string]string),
		dpi:      DefaultDPI,
		cache:    make(map[faceKey]font.Face),
	}

	for _, opt := range opts {
		opt(c)
	}

	builtins := []struct {
		family, style string
		data          []byte
	}{
		{"Go Mono", "Regular", gomono.TTF},
		{"Go Mono", "Bold", gomonobold.TTF},
		{"Go Mono", "Italic", gomonoitalic.TTF},
		{"Go Mono", "Bold Italic", gomonobolditalic.TTF},
		{"Go", "Regular", goregular.TTF},
		{"Go", "Bold", gobold.TTF},
		{"Go", "Italic", goitalic.TTF},
		{"Go", "Bold Italic", gobolditalic.TTF},
	}
	for _, b := range builtins {
		f, err := opentype.Parse(b.data)
		if err != nil {
			continue
		}
		c.addSfnt(b.family, b.style, f)
	}

	c.RegisterFace("Fixed", "Regular", basicfont.Face7x13)
	c.aliases[strings.ToLower(FallbackFamily)] = "go mono"

	return c
}

// Register parses TrueType/OpenType data and adds it under the family and style
// names recorded in the font. Returns the family and style it was registered as.
func (c *Catalog) Register(data []byte) (family, style string, err error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return "", "", err
	}

	var buf sfnt.Buffer
	family, err = f.Name(&buf, sfnt.NameIDTypographicFamily)
	if err != nil || family == "" {
		family, err = f.Name(&buf, sfnt.NameIDFamily)
		if err != nil {
			return "", "", fmt.Errorf("gridshell: font has no family name: %w", err)
		}
	}
	style, err = f.Name(&buf, sfnt.NameIDTypographicSubfamily)
	if err != nil || style == "" {
		style, err = f.Name(&buf, sfnt.NameIDSubfamily)
		if err != nil {
			style = "Regular"
		}
	}

	c.addSfnt(family, style, f)
	return family, style, nil
}

// RegisterFile reads a TrueType/OpenType file and registers it like Register.
func (c *Catalog) RegisterFile(path string) (family, style string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return c.Register(data)
}

// RegisterFace adds a ready-made face (e.g. a bitmap font) that ignores point sizes.
func (c *Catalog) RegisterFace(family, style string, face font.Face) {
	avg, max := GlyphWidths(face)
	c.add(family, style, avg == max, func(float64, float64) (font.Face, error) {
		return face, nil
	})
}

// Families returns the registered family names, sorted.
func (c *Catalog) Families() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.families))
	for _, fam := range c.families {
		names = append(names, fam.name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) addSfnt(family, style string, f *sfnt.Font) {
	src := func(size, dpi float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
	}

	fixed := false
	if face, err := src(12, DefaultDPI); err == nil {
		avg, max := GlyphWidths(face)
		fixed = avg == max
	}
	c.add(family, style, fixed, src)
}

func (c *Catalog) add(family, style string, fixed bool, src faceSource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(family)
	fam, ok := c.families[key]
	if !ok {
		fam = &fontFamily{name: family, faces: make(map[string]faceSource), fixed: true}
		c.families[key] = fam
	}
	skey := strings.ToLower(style)
	if _, exists := fam.faces[skey]; !exists {
		fam.styles = append(fam.styles, style)
	}
	fam.faces[skey] = src
	fam.fixed = fam.fixed && fixed

	for k := range c.cache {
		if k.family == key {
			delete(c.cache, k)
		}
	}
}

// lookup finds the family that renders the requested name, loading it through the
// finder if needed and falling back to FallbackFamily.
func (c *Catalog) lookup(family string) *fontFamily {
	key := strings.ToLower(strings.TrimSpace(family))

	c.mu.Lock()
	fam := c.resolveLocked(key)
	finder := c.finder
	c.mu.Unlock()

	if fam == nil && finder != nil && family != "" {
		if path, err := finder.Find(family); err == nil {
			c.RegisterFile(path)
		}
		c.mu.Lock()
		fam = c.resolveLocked(key)
		c.mu.Unlock()
	}

	if fam == nil {
		c.mu.Lock()
		fam = c.resolveLocked(strings.ToLower(FallbackFamily))
		c.mu.Unlock()
	}
	return fam
}

func (c *Catalog) resolveLocked(key string) *fontFamily {
	if fam, ok := c.families[key]; ok {
		return fam
	}
	if alias, ok := c.aliases[key]; ok {
		return c.families[alias]
	}
	return nil
}

// Match implements FontSystem.
func (c *Catalog) Match(desc FontDescriptor) (FontMatch, error) {
	fam := c.lookup(desc.Family)
	if fam == nil {
		return FontMatch{}, fmt.Errorf("%w: %q", ErrNoFace, desc.Family)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	styles := make([]string, len(fam.styles))
	copy(styles, fam.styles)
	return FontMatch{Family: fam.name, FixedPitch: fam.fixed, Styles: styles}, nil
}

var variantStyles = map[Variant][]string{
	VariantBold:       {"Bold"},
	VariantItalic:     {"Italic", "Oblique"},
	VariantBoldItalic: {"Bold Italic", "Bold Oblique", "BoldItalic"},
}

// Face implements FontSystem. Missing variants fall back to the regular style.
func (c *Catalog) Face(desc FontDescriptor, v Variant) (font.Face, error) {
	fam := c.lookup(desc.Family)
	if fam == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoFace, desc.Family)
	}

	size := desc.PointSize
	if size <= 0 {
		size = DefaultPointSize
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	style := ""
	for _, want := range variantStyles[v] {
		if _, ok := fam.faces[strings.ToLower(want)]; ok {
			style = want
			break
		}
	}
	if style == "" {
		style = desc.RegularStyle
		if _, ok := fam.faces[strings.ToLower(style)]; !ok {
			style = ResolveRegularStyle(fam.styles)
		}
	}

	skey := strings.ToLower(style)
	src, ok := fam.faces[skey]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no styles", ErrNoFace, fam.name)
	}

	key := faceKey{family: strings.ToLower(fam.name), style: skey, size: size}
	if face, ok := c.cache[key]; ok {
		return face, nil
	}

	face, err := src(float64(size), c.dpi)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFace, err)
	}
	c.cache[key] = face
	return face, nil
}

// Faces returns all four variants of desc.
func Faces(fs FontSystem, desc FontDescriptor) (FaceSet, error) {
	var set FaceSet
	for v := VariantRegular; v <= VariantBoldItalic; v++ {
		face, err := fs.Face(desc, v)
		if err != nil {
			return FaceSet{}, err
		}
		set[v] = face
	}
	return set, nil
}

var _ FontSystem = (*Catalog)(nil)
