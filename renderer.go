package gridshell

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
)

// DrawFlags modify how DrawString paints a run of text.
type DrawFlags uint8

const (
	DrawTransparent   DrawFlags = 0x01 // keep the background
	DrawBold          DrawFlags = 0x02
	DrawUnderline     DrawFlags = 0x04
	DrawUndercurl     DrawFlags = 0x08
	DrawItalic        DrawFlags = 0x10
	DrawStrikethrough DrawFlags = 0x40
)

// ColorTarget selects which of the renderer's colors SetColorByName changes.
type ColorTarget int

const (
	ColorForeground ColorTarget = iota
	ColorBackground
	ColorSpecial
)

// Renderer turns the editor core's drawing calls into paint operations on a Surface.
// It owns the current colors, font, cell metrics and scroll region.
type Renderer struct {
	surface *Surface
	fonts   FontSystem
	signs   *SignRegistry
	logger  *log.Logger

	font      FontDescriptor
	faces     FaceSet
	fakeBold  bool
	slow      bool
	metrics   CellMetrics
	lineSpace int
	widths    Widther

	fg, bg, sp color.RGBA

	scrollTop, scrollBottom int
	scrollLeft, scrollRight int

	cursorRow, cursorCol int
}

// RendererOption configures a Renderer during construction.
type RendererOption func(*Renderer)

// WithRendererLogger sets the logger for font rejections.
func WithRendererLogger(l *log.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = l
	}
}

// WithSignRegistry sets the registry DrawSign reads icons from.
func WithSignRegistry(s *SignRegistry) RendererOption {
	return func(r *Renderer) {
		r.signs = s
	}
}

// WithLineSpace sets extra pixels between rows.
func WithLineSpace(px int) RendererOption {
	return func(r *Renderer) {
		r.lineSpace = max(px, 0)
	}
}

// WithAmbiguousWide makes East Asian ambiguous runes take two cells.
func WithAmbiguousWide(wide bool) RendererOption {
	return func(r *Renderer) {
		r.widths.AmbiguousWide = wide
	}
}

// NewRenderer creates a renderer drawing on surface with fonts from fs.
// Drawing calls do nothing until InitFont succeeds.
func NewRenderer(surface *Surface, fs FontSystem, opts ...RendererOption) *Renderer {
	r := &Renderer{
		surface:      surface,
		fonts:        fs,
		logger:       log.New(io.Discard, "", 0),
		fg:           DefaultForeground,
		bg:           DefaultBackground,
		sp:           DefaultSpecial,
		scrollBottom: -1,
		scrollRight:  -1,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.signs == nil {
		r.signs = NewSignRegistry()
	}
	return r
}

// InitFont resolves spec and makes it the grid font. On failure the previous
// font stays active and the error wraps ErrNoFont.
func (r *Renderer) InitFont(spec string, strict bool) error {
	desc, err := ResolveFont(r.fonts, spec, strict)
	if err != nil {
		if strict {
			r.logger.Printf("gridshell: cannot use font %q: %v", spec, err)
		}
		return err
	}

	faces, err := Faces(r.fonts, desc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoFont, err)
	}

	r.font = desc
	r.faces = faces
	r.fakeBold = faces[VariantBold] == faces[VariantRegular]
	r.slow = !desc.FixedPitch || IsFakeMonospace(faces)
	r.updateMetrics()
	return nil
}

func (r *Renderer) updateMetrics() {
	face := r.faces[VariantRegular]
	if face == nil {
		return
	}

	adv, ok := face.GlyphAdvance('_')
	if !ok {
		adv, _ = GlyphWidths(face)
	}
	fm := face.Metrics()
	descent := fm.Descent.Ceil()

	r.metrics = CellMetrics{
		Width:           adv.Ceil(),
		Height:          fm.Height.Ceil() + r.lineSpace,
		Ascent:          fm.Ascent.Ceil() + r.lineSpace/2,
		UnderlineOffset: max(1, descent/3),
	}
}

// Font returns the active font.
func (r *Renderer) Font() FontDescriptor {
	return r.font
}

// Metrics returns the current cell metrics.
func (r *Renderer) Metrics() CellMetrics {
	return r.metrics
}

// SlowPath reports whether text is drawn glyph by glyph.
func (r *Renderer) SlowPath() bool {
	return r.slow
}

// Signs returns the sign icon registry.
func (r *Renderer) Signs() *SignRegistry {
	return r.signs
}

// Surface returns the surface the renderer draws on.
func (r *Renderer) Surface() *Surface {
	return r.surface
}

// SetLineSpace changes the extra pixels between rows and recomputes the metrics.
func (r *Renderer) SetLineSpace(px int) {
	r.lineSpace = max(px, 0)
	r.updateMetrics()
}

// SetAmbiguousWide sets the ambiguous-width policy.
func (r *Renderer) SetAmbiguousWide(wide bool) {
	r.widths.AmbiguousWide = wide
}

// Grid returns the number of rows and columns that fit on the surface.
func (r *Renderer) Grid() (rows, cols int) {
	b := r.surface.Bounds()
	return r.metrics.GridSize(b.Dx(), b.Dy())
}

// Resize resizes the surface, keeping its contents, and resets the scroll region.
func (r *Renderer) Resize(width, height int) {
	r.surface.Resize(width, height, r.bg)
	r.scrollTop, r.scrollBottom = 0, -1
	r.scrollLeft, r.scrollRight = 0, -1
}

func (r *Renderer) SetForeground(c color.RGBA) { r.fg = c }
func (r *Renderer) SetBackground(c color.RGBA) { r.bg = c }
func (r *Renderer) SetSpecial(c color.RGBA)    { r.sp = c }

// Colors returns the current foreground, background and special colors.
func (r *Renderer) Colors() (fg, bg, sp color.RGBA) {
	return r.fg, r.bg, r.sp
}

// SetColorByName parses name and sets the selected color.
// An invalid name leaves the color unchanged and returns ErrInvalidColor.
func (r *Renderer) SetColorByName(which ColorTarget, name string) error {
	c, err := ParseColor(name)
	if err != nil {
		return err
	}
	switch which {
	case ColorForeground:
		r.fg = c
	case ColorBackground:
		r.bg = c
	case ColorSpecial:
		r.sp = c
	}
	return nil
}

// SetScrollRegion limits InsertLines and DeleteLines to rows top..bottom and
// columns left..right (inclusive). Negative bottom or right extend to the grid edge.
func (r *Renderer) SetScrollRegion(top, bottom, left, right int) {
	r.scrollTop, r.scrollBottom = max(top, 0), bottom
	r.scrollLeft, r.scrollRight = max(left, 0), right
}

func (r *Renderer) scrollRegion() (top, bottom, left, right int) {
	rows, cols := r.Grid()
	top, bottom, left, right = r.scrollTop, r.scrollBottom, r.scrollLeft, r.scrollRight
	if bottom < 0 || bottom >= rows {
		bottom = rows - 1
	}
	if right < 0 || right >= cols {
		right = cols - 1
	}
	return top, bottom, left, right
}

// SetCursorPosition records the cell the cursor is drawn in.
func (r *Renderer) SetCursorPosition(row, col int) {
	r.cursorRow, r.cursorCol = row, col
}

// CursorPosition returns the cell the cursor is drawn in.
func (r *Renderer) CursorPosition() (row, col int) {
	return r.cursorRow, r.cursorCol
}

// ClearAll fills the whole surface with the background color.
func (r *Renderer) ClearAll() {
	if !r.metrics.Valid() {
		return
	}
	r.surface.Enqueue(ClearAll{Color: r.bg})
}

// ClearBlock fills rows row1..row2 and columns col1..col2 with the background color.
func (r *Renderer) ClearBlock(row1, col1, row2, col2 int) {
	if !r.metrics.Valid() || row2 < row1 || col2 < col1 {
		return
	}
	r.surface.Enqueue(FillRect{
		Rect:  PixelRect(r.metrics.CellBlock(row1, col1, row2, col2)),
		Color: r.bg,
	})
}

// InsertLines scrolls the scroll region down by n rows starting at row.
func (r *Renderer) InsertLines(row, n int) {
	r.scrollLines(row, n)
}

// DeleteLines scrolls the scroll region up by n rows starting at row.
func (r *Renderer) DeleteLines(row, n int) {
	r.scrollLines(row, -n)
}

func (r *Renderer) scrollLines(row, n int) {
	if !r.metrics.Valid() || n == 0 {
		return
	}
	top, bottom, left, right := r.scrollRegion()
	if row < top || row > bottom || left > right {
		return
	}

	r.surface.Enqueue(ScrollRect{
		Rect:  PixelRect(r.metrics.CellBlock(row, left, bottom, right)),
		Delta: image.Point{Y: n * r.metrics.Height},
		Fill:  r.bg,
	})
}

// DrawString paints text at (row, col) and returns the number of cells it covers.
func (r *Renderer) DrawString(row, col int, text []byte, flags DrawFlags) int {
	if !r.metrics.Valid() || len(text) == 0 {
		return 0
	}

	s := string(text)
	cells := r.widths.String(s)
	if cells == 0 {
		return 0
	}

	rect := PixelRect(r.metrics.CellBlock(row, col, row, col+cells-1))
	if flags&DrawTransparent == 0 {
		r.surface.Enqueue(FillRect{Rect: rect, Color: r.bg})
	}

	variant := VariantRegular
	switch {
	case flags&DrawBold != 0 && flags&DrawItalic != 0:
		variant = VariantBoldItalic
	case flags&DrawBold != 0:
		variant = VariantBold
	case flags&DrawItalic != 0:
		variant = VariantItalic
	}

	r.surface.Enqueue(DrawText{
		Rect:            rect,
		Origin:          image.Point{X: rect.Min.X, Y: rect.Min.Y + r.metrics.Ascent},
		Face:            r.faces[variant],
		Text:            s,
		Color:           r.fg,
		Special:         r.sp,
		Underline:       flags&DrawUnderline != 0,
		Undercurl:       flags&DrawUndercurl != 0,
		Strikethrough:   flags&DrawStrikethrough != 0,
		FakeBold:        flags&DrawBold != 0 && r.fakeBold,
		CellWidth:       r.metrics.Width,
		UnderlineOffset: r.metrics.UnderlineOffset,
		Widths:          r.widths,
		Slow:            r.slow,
	})
	return cells
}

// DrawSign draws the sign icon id in the two cells starting at (row, col).
func (r *Renderer) DrawSign(row, col int, id uint32) {
	if !r.metrics.Valid() {
		return
	}
	icon := r.signs.Icon(id, 2*r.metrics.Width, r.metrics.Height)
	if icon == nil {
		return
	}
	r.surface.Enqueue(DrawGlyph{Pos: r.metrics.CellOrigin(row, col), Bitmap: icon})
}

// InvertRectangle inverts nr rows and nc columns starting at (row, col).
func (r *Renderer) InvertRectangle(row, col, nr, nc int) {
	if !r.metrics.Valid() || nr <= 0 || nc <= 0 {
		return
	}
	r.surface.Enqueue(InvertRect{
		Rect: PixelRect(r.metrics.CellBlock(row, col, row+nr-1, col+nc-1)),
	})
}

// DrawHollowCursor outlines the cursor cell.
func (r *Renderer) DrawHollowCursor(c color.RGBA) {
	if !r.metrics.Valid() {
		return
	}
	r.surface.Enqueue(DrawRect{
		Rect:  PixelRect(r.metrics.CellBlock(r.cursorRow, r.cursorCol, r.cursorRow, r.cursorCol)),
		Color: c,
	})
}

// DrawPartCursor fills a w x h block at the bottom-left of the cursor cell
// (bar and underline cursors).
func (r *Renderer) DrawPartCursor(w, h int, c color.RGBA) {
	if !r.metrics.Valid() || w <= 0 || h <= 0 {
		return
	}
	origin := r.metrics.CellOrigin(r.cursorRow+1, r.cursorCol)
	r.surface.Enqueue(FillRect{
		Rect:  image.Rect(origin.X, origin.Y-h, origin.X+w, origin.Y),
		Color: c,
	})
}

// Flash inverts the whole grid. Calling it again restores the grid.
func (r *Renderer) Flash() {
	rows, cols := r.Grid()
	r.InvertRectangle(0, 0, rows, cols)
}
