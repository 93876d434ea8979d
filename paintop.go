package gridshell

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
)

// PaintOp is one deferred drawing instruction replayed by a Surface.
// The set of operations is closed; each shape carries only the fields it needs.
type PaintOp interface {
	// Bounds returns the area the operation damages. An empty rectangle means the whole surface.
	Bounds() image.Rectangle
	paintOp()
}

// ClearAll fills the whole surface.
type ClearAll struct {
	Color color.RGBA
}

// FillRect fills Rect.
type FillRect struct {
	Rect  image.Rectangle
	Color color.RGBA
}

// DrawRect strokes a one pixel outline just inside Rect.
type DrawRect struct {
	Rect  image.Rectangle
	Color color.RGBA
}

// DrawText draws a run of text starting at Origin (the left end of the baseline).
// Drawing is clipped to Rect.
type DrawText struct {
	Rect    image.Rectangle
	Origin  image.Point
	Face    font.Face
	Text    string
	Color   color.RGBA
	Special color.RGBA // undercurl color

	Underline     bool
	Undercurl     bool
	Strikethrough bool
	FakeBold      bool

	CellWidth       int
	UnderlineOffset int
	Widths          Widther

	// Slow forces glyph-by-glyph drawing.
	Slow bool
}

// InvertRect inverts the RGB channels of every pixel in Rect.
type InvertRect struct {
	Rect image.Rectangle
}

// ScrollRect moves the pixels inside Rect by Delta and fills the exposed area with Fill.
type ScrollRect struct {
	Rect  image.Rectangle
	Delta image.Point
	Fill  color.RGBA
}

// DrawGlyph blits a pre-rendered bitmap with its top-left corner at Pos.
type DrawGlyph struct {
	Pos    image.Point
	Bitmap image.Image
}

func (ClearAll) Bounds() image.Rectangle     { return image.Rectangle{} }
func (o FillRect) Bounds() image.Rectangle   { return o.Rect }
func (o DrawRect) Bounds() image.Rectangle   { return o.Rect }
func (o DrawText) Bounds() image.Rectangle   { return o.Rect }
func (o InvertRect) Bounds() image.Rectangle { return o.Rect }
func (o ScrollRect) Bounds() image.Rectangle { return o.Rect }
func (o DrawGlyph) Bounds() image.Rectangle {
	if o.Bitmap == nil {
		return image.Rectangle{}
	}
	b := o.Bitmap.Bounds()
	return image.Rectangle{Min: o.Pos, Max: o.Pos.Add(b.Size())}
}

func (ClearAll) paintOp()   {}
func (FillRect) paintOp()   {}
func (DrawRect) paintOp()   {}
func (DrawText) paintOp()   {}
func (InvertRect) paintOp() {}
func (ScrollRect) paintOp() {}
func (DrawGlyph) paintOp()  {}
