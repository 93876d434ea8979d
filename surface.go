package gridshell

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"unicode/utf8"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Surface is the persistent pixel surface the grid is painted on.
// Paint operations are queued with Enqueue and replayed in order by Flush.
// A Surface is owned by the event loop goroutine and is not safe for concurrent use.
type Surface struct {
	img      *image.RGBA
	queue    []PaintOp
	damage   image.Rectangle
	flushing bool

	redraw RedrawProvider
	logger *log.Logger
}

// SurfaceOption configures a Surface during construction.
type SurfaceOption func(*Surface)

// WithRedraw sets the provider notified about damaged areas.
func WithRedraw(p RedrawProvider) SurfaceOption {
	return func(s *Surface) {
		s.redraw = p
	}
}

// WithSurfaceLogger sets the logger used for skipped glyphs.
func WithSurfaceLogger(l *log.Logger) SurfaceOption {
	return func(s *Surface) {
		s.logger = l
	}
}

// NewSurface creates a w x h surface filled with bg.
func NewSurface(w, h int, bg color.RGBA, opts ...SurfaceOption) *Surface {
	s := &Surface{
		img:    image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0))),
		redraw: NoopRedraw{},
		logger: log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(s)
	}

	fillRGBA(s.img, s.img.Bounds(), bg)
	return s
}

// Bounds returns the surface rectangle.
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// Image returns the backing image. Callers must not keep it across Resize.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Pending returns the number of queued operations.
func (s *Surface) Pending() int {
	return len(s.queue)
}

// Enqueue appends op to the queue and schedules a redraw of the area it damages.
func (s *Surface) Enqueue(op PaintOp) {
	if op == nil {
		return
	}
	s.queue = append(s.queue, op)

	r := s.damageOf(op)
	if r.Empty() {
		return
	}
	s.damage = s.damage.Union(r)
	s.redraw.RequestRedraw(r)
}

func (s *Surface) damageOf(op PaintOp) image.Rectangle {
	b := op.Bounds()
	if _, all := op.(ClearAll); all {
		return s.img.Bounds()
	}
	return b.Intersect(s.img.Bounds())
}

// Flush replays all queued operations in submission order and returns the area damaged
// since the previous flush. A nested call while flushing does nothing.
func (s *Surface) Flush() image.Rectangle {
	if s.flushing {
		return image.Rectangle{}
	}
	s.flushing = true
	defer func() { s.flushing = false }()

	for len(s.queue) > 0 {
		ops := s.queue
		s.queue = nil
		for _, op := range ops {
			s.apply(op)
		}
	}

	damage := s.damage
	s.damage = image.Rectangle{}
	return damage
}

func (s *Surface) apply(op PaintOp) {
	switch o := op.(type) {
	case ClearAll:
		fillRGBA(s.img, s.img.Bounds(), o.Color)
	case FillRect:
		fillRGBA(s.img, o.Rect, o.Color)
	case DrawRect:
		s.strokeRect(o.Rect, o.Color)
	case InvertRect:
		invertRGBA(s.img, o.Rect)
	case ScrollRect:
		s.scroll(o)
	case DrawGlyph:
		if o.Bitmap != nil {
			draw.Draw(s.img, o.Bounds(), o.Bitmap, o.Bitmap.Bounds().Min, draw.Over)
		}
	case DrawText:
		s.drawText(o)
	}
}

// Resize replaces the surface with a w x h one filled with bg and copies the old
// contents back anchored at the top-left corner.
func (s *Surface) Resize(w, h int, bg color.RGBA) {
	old := s.img
	s.img = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	fillRGBA(s.img, s.img.Bounds(), bg)
	draw.Draw(s.img, old.Bounds().Intersect(s.img.Bounds()), old, image.Point{}, draw.Src)

	s.damage = s.img.Bounds()
	s.redraw.RequestRedraw(s.img.Bounds())
}

// Snapshot returns a copy of the current surface contents.
func (s *Surface) Snapshot() *image.RGBA {
	img := image.NewRGBA(s.img.Bounds())
	copy(img.Pix, s.img.Pix)
	return img
}

// WritePNG encodes the current surface contents as PNG.
func (s *Surface) WritePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

func (s *Surface) strokeRect(r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	fillRGBA(s.img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	fillRGBA(s.img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	fillRGBA(s.img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), c)
	fillRGBA(s.img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func (s *Surface) scroll(o ScrollRect) {
	r := o.Rect.Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}

	dx, dy := o.Delta.X, o.Delta.Y
	if abs(dx) >= r.Dx() || abs(dy) >= r.Dy() {
		fillRGBA(s.img, r, o.Fill)
		return
	}

	w := r.Dx() - abs(dx)
	h := r.Dy() - abs(dy)
	srcX, dstX := r.Min.X, r.Min.X
	if dx > 0 {
		dstX += dx
	} else {
		srcX -= dx
	}
	srcY, dstY := r.Min.Y, r.Min.Y
	if dy > 0 {
		dstY += dy
	} else {
		srcY -= dy
	}

	n := w * 4
	copyRow := func(i int) {
		src := s.img.PixOffset(srcX, srcY+i)
		dst := s.img.PixOffset(dstX, dstY+i)
		copy(s.img.Pix[dst:dst+n], s.img.Pix[src:src+n])
	}
	if dy > 0 {
		for i := h - 1; i >= 0; i-- {
			copyRow(i)
		}
	} else {
		for i := 0; i < h; i++ {
			copyRow(i)
		}
	}

	switch {
	case dy > 0:
		fillRGBA(s.img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+dy), o.Fill)
	case dy < 0:
		fillRGBA(s.img, image.Rect(r.Min.X, r.Max.Y+dy, r.Max.X, r.Max.Y), o.Fill)
	}
	switch {
	case dx > 0:
		fillRGBA(s.img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+dx, r.Max.Y), o.Fill)
	case dx < 0:
		fillRGBA(s.img, image.Rect(r.Max.X+dx, r.Min.Y, r.Max.X, r.Max.Y), o.Fill)
	}
}

func (s *Surface) drawText(o DrawText) {
	clip := o.Rect.Intersect(s.img.Bounds())
	if clip.Empty() || o.Text == "" || o.Face == nil {
		return
	}
	dst := s.img.SubImage(clip).(*image.RGBA)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(o.Color),
		Face: o.Face,
	}
	drawAt := func(x int, text string) {
		d.Dot = fixed.P(x, o.Origin.Y)
		d.DrawString(text)
		if o.FakeBold {
			d.Dot = fixed.P(x+1, o.Origin.Y)
			d.DrawString(text)
		}
	}

	slow := o.Slow || utf8.RuneCountInString(o.Text) != o.Widths.String(o.Text)
	if !slow || o.CellWidth <= 0 {
		drawAt(o.Origin.X, o.Text)
	} else {
		x := o.Origin.X
		for _, r := range o.Text {
			cells := o.Widths.Rune(r)
			if cells == 0 {
				s.logger.Printf("gridshell: skipping zero-width rune %U", r)
				continue
			}
			if r != ' ' {
				drawAt(x, string(r))
			}
			x += cells * o.CellWidth
		}
	}

	// Undercurl replaces the straight underline.
	switch {
	case o.Undercurl:
		y := o.Origin.Y + 1 + o.UnderlineOffset
		for x := o.Rect.Min.X; x < o.Rect.Max.X; x++ {
			if (x-o.Rect.Min.X)%4 < 2 {
				dst.SetRGBA(x, y, o.Special)
			}
		}
	case o.Underline:
		y := o.Origin.Y + o.UnderlineOffset
		fillRGBA(dst, image.Rect(o.Rect.Min.X, y, o.Rect.Max.X, y+1), o.Color)
	}

	if o.Strikethrough {
		y := o.Rect.Min.Y + o.Rect.Dy()/2
		fillRGBA(dst, image.Rect(o.Rect.Min.X, y, o.Rect.Max.X, y+1), o.Color)
	}
}

func fillRGBA(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func invertRGBA(img *image.RGBA, r image.Rectangle) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Pix[off] ^= 0xFF
			img.Pix[off+1] ^= 0xFF
			img.Pix[off+2] ^= 0xFF
			off += 4
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
