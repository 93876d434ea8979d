package gridshell

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(cols, rows)
	return screen
}

func TestTerminalPresenterGeometry(t *testing.T) {
	p := NewTerminalPresenter(nil, WithCellPixels(7, 13))

	if w, h := p.SurfaceSize(80, 24); w != 560 || h != 336 {
		t.Errorf("SurfaceSize = %dx%d, want 560x336", w, h)
	}
	if x, y := p.ToSurface(2, 1); x != 17 || y != 21 {
		t.Errorf("ToSurface(2, 1) = (%d, %d), want (17, 21)", x, y)
	}
}

func TestTerminalPresenterPresent(t *testing.T) {
	screen := newSimScreen(t, 4, 2)
	defer screen.Fini()

	p := NewTerminalPresenter(screen)
	w, h := p.SurfaceSize(4, 2)

	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRGBA(img, img.Bounds(), blue)
	fillRGBA(img, image.Rect(4, 8, 8, 12), red)

	p.Present(img, img.Bounds())

	tests := []struct {
		x, y        int
		top, bottom color.RGBA
	}{
		{0, 0, blue, blue},
		{1, 1, red, blue},
		{3, 1, blue, blue},
	}

	for _, tt := range tests {
		r, _, style, _ := screen.GetContent(tt.x, tt.y)
		if r != upperHalf {
			t.Errorf("cell (%d, %d) rune = %q", tt.x, tt.y, r)
		}
		want := tcell.StyleDefault.Foreground(termColor(tt.top)).Background(termColor(tt.bottom))
		if style != want {
			t.Errorf("cell (%d, %d) style = %v, want %v", tt.x, tt.y, style, want)
		}
	}
}

func TestTerminalPresenterDamageOnly(t *testing.T) {
	screen := newSimScreen(t, 4, 2)
	defer screen.Fini()

	p := NewTerminalPresenter(screen)
	w, h := p.SurfaceSize(4, 2)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRGBA(img, img.Bounds(), color.RGBA{0, 255, 0, 255})

	p.Present(img, image.Rect(0, 0, 4, 8))

	if r, _, _, _ := screen.GetContent(0, 0); r != upperHalf {
		t.Errorf("damaged cell rune = %q", r)
	}
	if r, _, _, _ := screen.GetContent(1, 0); r == upperHalf {
		t.Error("cell outside the damage was redrawn")
	}

	p.Present(img, image.Rectangle{})
	p.Present(img, image.Rect(100, 100, 200, 200))
}

func TestScreenEvents(t *testing.T) {
	screen := newSimScreen(t, 4, 2)

	events := ScreenEvents(screen)
	screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)

	timeout := time.After(time.Second)
	for got := false; !got; {
		select {
		case ev := <-events:
			if k, ok := ev.(*tcell.EventKey); ok {
				if k.Rune() != 'a' {
					t.Errorf("key = %q", k.Rune())
				}
				got = true
			}
		case <-timeout:
			t.Fatal("no key event")
		}
	}

	screen.Fini()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after Fini")
		}
	}
}
