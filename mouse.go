package gridshell

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// Mouse button codes passed to EditorCore.SendMouseEvent.
const (
	MouseLeft       = 0x00
	MouseMiddle     = 0x01
	MouseRight      = 0x02
	MouseRelease    = 0x03
	MouseDrag       = 0x43
	MouseWheelUp    = 0x100
	MouseWheelDown  = 0x200
	MouseWheelLeft  = 0x500
	MouseWheelRight = 0x600
)

// Mouse modifier mask. It differs from the keyboard mask.
const (
	MouseShift = 0x04
	MouseCtrl  = 0x10
	MouseAlt   = 0x20
)

// DefaultDoubleClick is the default interval for repeated clicks.
const DefaultDoubleClick = 400 * time.Millisecond

// MouseEvent is one editor mouse event.
type MouseEvent struct {
	Button int
	X, Y   int
	Repeat bool // press of the same button within the double-click interval
	Mods   int
	Move   bool // pointer moved with no button held; Button is unused
}

// MouseMods converts tcell modifiers to the mouse modifier mask. Meta counts as Alt.
func MouseMods(m tcell.ModMask) int {
	mods := 0
	if m&tcell.ModShift != 0 {
		mods |= MouseShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= MouseCtrl
	}
	if m&(tcell.ModAlt|tcell.ModMeta) != 0 {
		mods |= MouseAlt
	}
	return mods
}

var mouseButtons = []struct {
	mask tcell.ButtonMask
	code int
}{
	{tcell.Button1, MouseLeft},
	{tcell.Button3, MouseMiddle},
	{tcell.Button2, MouseRight},
}

var wheelButtons = []struct {
	mask tcell.ButtonMask
	code int
}{
	{tcell.WheelUp, MouseWheelUp},
	{tcell.WheelDown, MouseWheelDown},
	{tcell.WheelLeft, MouseWheelLeft},
	{tcell.WheelRight, MouseWheelRight},
}

// MouseTranslator turns button-state reports into press, release, drag, wheel
// and move events. tcell reports which buttons are down; the translator keeps
// the previous state to find the transitions.
type MouseTranslator struct {
	doubleClick time.Duration
	now         func() time.Time

	held      tcell.ButtonMask
	lastCode  int
	lastPress time.Time
	pressed   bool
}

// MouseOption configures a MouseTranslator during construction.
type MouseOption func(*MouseTranslator)

// WithDoubleClick sets the repeated-click interval.
func WithDoubleClick(d time.Duration) MouseOption {
	return func(t *MouseTranslator) {
		if d > 0 {
			t.doubleClick = d
		}
	}
}

// WithMouseClock sets the time source used for repeated clicks.
func WithMouseClock(now func() time.Time) MouseOption {
	return func(t *MouseTranslator) {
		t.now = now
	}
}

// NewMouseTranslator creates a translator with no buttons held.
func NewMouseTranslator(opts ...MouseOption) *MouseTranslator {
	t := &MouseTranslator{
		doubleClick: DefaultDoubleClick,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetDoubleClick changes the repeated-click interval.
func (t *MouseTranslator) SetDoubleClick(d time.Duration) {
	if d > 0 {
		t.doubleClick = d
	}
}

// Translate reports the events for a button state at pixel (x, y).
func (t *MouseTranslator) Translate(x, y int, buttons tcell.ButtonMask, m tcell.ModMask) []MouseEvent {
	mods := MouseMods(m)
	var events []MouseEvent

	for _, w := range wheelButtons {
		if buttons&w.mask != 0 {
			events = append(events, MouseEvent{Button: w.code, X: x, Y: y, Mods: mods})
		}
	}

	cur := buttons & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	prev := t.held
	t.held = cur

	if released := prev &^ cur; released != 0 {
		events = append(events, MouseEvent{Button: MouseRelease, X: x, Y: y, Mods: mods})
	}

	for _, b := range mouseButtons {
		if cur&b.mask == 0 || prev&b.mask != 0 {
			continue
		}
		now := t.now()
		repeat := t.pressed && t.lastCode == b.code && now.Sub(t.lastPress) <= t.doubleClick
		t.pressed, t.lastCode, t.lastPress = true, b.code, now
		events = append(events, MouseEvent{Button: b.code, X: x, Y: y, Repeat: repeat, Mods: mods})
	}

	if len(events) == 0 {
		if cur != 0 {
			events = append(events, MouseEvent{Button: MouseDrag, X: x, Y: y, Mods: mods})
		} else {
			events = append(events, MouseEvent{X: x, Y: y, Move: true})
		}
	}
	return events
}

// TranslateEvent translates a tcell mouse event. toSurface maps the event's
// terminal cell to surface pixels; nil keeps the coordinates.
func (t *MouseTranslator) TranslateEvent(ev *tcell.EventMouse, toSurface func(x, y int) (int, int)) []MouseEvent {
	x, y := ev.Position()
	if toSurface != nil {
		x, y = toSurface(x, y)
	}
	return t.Translate(x, y, ev.Buttons(), ev.Modifiers())
}
