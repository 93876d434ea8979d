package gridshell

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"
)

// upperHalf draws the top half of a cell in the foreground color.
const upperHalf = '▀'

// TerminalPresenter shows a surface on a tcell screen. Every terminal cell
// covers a block of surface pixels and is drawn as two stacked half-cell
// colors, so one terminal row shows two pixel rows of the scaled surface.
type TerminalPresenter struct {
	screen       tcell.Screen
	cellW, cellH int
	scaled       *image.RGBA
}

// PresenterOption configures a TerminalPresenter.
type PresenterOption func(*TerminalPresenter)

// WithCellPixels sets how many surface pixels one terminal cell covers.
// The height is rounded up to an even number.
func WithCellPixels(w, h int) PresenterOption {
	return func(p *TerminalPresenter) {
		if w > 0 && h > 0 {
			p.cellW, p.cellH = w, h+h%2
		}
	}
}

// NewTerminalPresenter creates a presenter drawing on screen.
func NewTerminalPresenter(screen tcell.Screen, opts ...PresenterOption) *TerminalPresenter {
	p := &TerminalPresenter{
		screen: screen,
		cellW:  4,
		cellH:  8,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SurfaceSize returns the surface size that fills cols x rows terminal cells.
func (p *TerminalPresenter) SurfaceSize(cols, rows int) (int, int) {
	return cols * p.cellW, rows * p.cellH
}

// ToSurface maps a terminal cell to the surface pixel at its center.
func (p *TerminalPresenter) ToSurface(x, y int) (int, int) {
	return x*p.cellW + p.cellW/2, y*p.cellH + p.cellH/2
}

// Present redraws the terminal cells that overlap damage and shows the screen.
func (p *TerminalPresenter) Present(img *image.RGBA, damage image.Rectangle) {
	damage = damage.Intersect(img.Bounds())
	if damage.Empty() {
		return
	}

	cols, rows := p.screen.Size()
	c0, r0 := damage.Min.X/p.cellW, damage.Min.Y/p.cellH
	c1 := min((damage.Max.X+p.cellW-1)/p.cellW, cols)
	r1 := min((damage.Max.Y+p.cellH-1)/p.cellH, rows)
	if c0 >= c1 || r0 >= r1 {
		return
	}

	src := image.Rect(c0*p.cellW, r0*p.cellH, c1*p.cellW, r1*p.cellH).Intersect(img.Bounds())
	dst := p.buffer(c1-c0, 2*(r1-r0))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)

	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			x, y := col-c0, 2*(row-r0)
			top := dst.RGBAAt(x, y)
			bottom := dst.RGBAAt(x, y+1)
			style := tcell.StyleDefault.Foreground(termColor(top)).Background(termColor(bottom))
			p.screen.SetContent(col, row, upperHalf, nil, style)
		}
	}
	p.screen.Show()
}

func (p *TerminalPresenter) buffer(w, h int) *image.RGBA {
	if p.scaled == nil || p.scaled.Bounds().Dx() < w || p.scaled.Bounds().Dy() < h {
		p.scaled = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return p.scaled.SubImage(image.Rect(0, 0, w, h)).(*image.RGBA)
}

func termColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// ScreenEvents forwards the screen's events to a channel. The channel is
// closed when the screen is finalized.
func ScreenEvents(screen tcell.Screen) <-chan tcell.Event {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()
	return events
}
