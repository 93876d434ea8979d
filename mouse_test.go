package gridshell

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTranslator() (*MouseTranslator, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewMouseTranslator(WithMouseClock(clock.Now)), clock
}

func TestMouseMods(t *testing.T) {
	tests := []struct {
		m        tcell.ModMask
		expected int
	}{
		{tcell.ModNone, 0},
		{tcell.ModShift, 0x04},
		{tcell.ModCtrl, 0x10},
		{tcell.ModAlt, 0x20},
		{tcell.ModShift | tcell.ModCtrl | tcell.ModAlt, 0x34},
	}

	for _, tt := range tests {
		if got := MouseMods(tt.m); got != tt.expected {
			t.Errorf("MouseMods(%v) = %#x, want %#x", tt.m, got, tt.expected)
		}
		if KeyMods(tt.m) == tt.expected && tt.expected != 0 {
			t.Errorf("keyboard and mouse masks should differ for %v", tt.m)
		}
	}
}

func expectEvents(t *testing.T, name string, got, want []MouseEvent) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s: got %d events %+v, want %+v", name, len(got), got, want)
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("%s: event %d = %+v, want %+v", name, i, got[i], want[i])
		}
	}
}

func TestMouseTranslatorPressDragRelease(t *testing.T) {
	tr, _ := newTestTranslator()

	expectEvents(t, "press", tr.Translate(10, 20, tcell.Button1, tcell.ModShift),
		[]MouseEvent{{Button: MouseLeft, X: 10, Y: 20, Mods: MouseShift}})
	expectEvents(t, "drag", tr.Translate(15, 20, tcell.Button1, tcell.ModNone),
		[]MouseEvent{{Button: MouseDrag, X: 15, Y: 20}})
	expectEvents(t, "release", tr.Translate(15, 25, tcell.ButtonNone, tcell.ModNone),
		[]MouseEvent{{Button: MouseRelease, X: 15, Y: 25}})
	expectEvents(t, "move", tr.Translate(30, 30, tcell.ButtonNone, tcell.ModNone),
		[]MouseEvent{{X: 30, Y: 30, Move: true}})
}

func TestMouseTranslatorButtons(t *testing.T) {
	tests := []struct {
		mask tcell.ButtonMask
		code int
	}{
		{tcell.Button1, MouseLeft},
		{tcell.Button2, MouseRight},
		{tcell.Button3, MouseMiddle},
	}

	for _, tt := range tests {
		tr, _ := newTestTranslator()
		got := tr.Translate(0, 0, tt.mask, tcell.ModNone)
		if len(got) != 1 || got[0].Button != tt.code {
			t.Errorf("Translate(%v) = %+v, want button %#x", tt.mask, got, tt.code)
		}
	}
}

func TestMouseTranslatorWheel(t *testing.T) {
	tr, _ := newTestTranslator()

	tests := []struct {
		mask tcell.ButtonMask
		code int
	}{
		{tcell.WheelUp, MouseWheelUp},
		{tcell.WheelDown, MouseWheelDown},
		{tcell.WheelLeft, MouseWheelLeft},
		{tcell.WheelRight, MouseWheelRight},
	}

	for _, tt := range tests {
		got := tr.Translate(1, 2, tt.mask, tcell.ModCtrl)
		expectEvents(t, "wheel", got, []MouseEvent{{Button: tt.code, X: 1, Y: 2, Mods: MouseCtrl}})
	}
}

func TestMouseTranslatorRepeat(t *testing.T) {
	tr, clock := newTestTranslator()

	click := func(mask tcell.ButtonMask) MouseEvent {
		ev := tr.Translate(0, 0, mask, tcell.ModNone)[0]
		tr.Translate(0, 0, tcell.ButtonNone, tcell.ModNone)
		return ev
	}

	if click(tcell.Button1).Repeat {
		t.Error("first click flagged as repeat")
	}
	clock.Advance(200 * time.Millisecond)
	if !click(tcell.Button1).Repeat {
		t.Error("second click within interval not flagged")
	}
	clock.Advance(200 * time.Millisecond)
	if !click(tcell.Button1).Repeat {
		t.Error("third click within interval not flagged")
	}
	clock.Advance(500 * time.Millisecond)
	if click(tcell.Button1).Repeat {
		t.Error("click after interval flagged as repeat")
	}
	clock.Advance(100 * time.Millisecond)
	if click(tcell.Button2).Repeat {
		t.Error("click of another button flagged as repeat")
	}
}

func TestMouseTranslatorDoubleClickOption(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	tr := NewMouseTranslator(WithMouseClock(clock.Now), WithDoubleClick(50*time.Millisecond))

	tr.Translate(0, 0, tcell.Button1, tcell.ModNone)
	tr.Translate(0, 0, tcell.ButtonNone, tcell.ModNone)
	clock.Advance(100 * time.Millisecond)

	if ev := tr.Translate(0, 0, tcell.Button1, tcell.ModNone)[0]; ev.Repeat {
		t.Error("click after 100ms flagged with 50ms interval")
	}
}

func TestMouseTranslatorEvent(t *testing.T) {
	tr, _ := newTestTranslator()
	ev := tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModAlt)

	got := tr.TranslateEvent(ev, func(x, y int) (int, int) { return x * 7, y * 13 })
	expectEvents(t, "event", got, []MouseEvent{{Button: MouseLeft, X: 21, Y: 52, Mods: MouseAlt}})
}
