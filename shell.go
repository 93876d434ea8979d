package gridshell

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
)

// waitSlice bounds each pump while waiting for input with a timeout.
const waitSlice = 10 * time.Millisecond

// flashTime is how long the visual bell keeps the grid inverted.
const flashTime = 20 * time.Millisecond

// Shell is the event loop of the presentation shell. It reads platform events,
// feeds encoded input to the editor core, runs timer callbacks, and after each
// event flushes the surface and presents the damage.
//
// A Shell is driven from one goroutine: the editor core calls WaitForChars, and
// every callback into the core happens inside that call. Other goroutines may
// use Post.
type Shell struct {
	core      EditorCore
	presenter Presenter
	bell      BellProvider
	title     TitleProvider
	fonts     FontSystem
	logger    *log.Logger
	config    Config
	now       func() time.Time
	sched     Scheduler

	events    <-chan tcell.Event
	tasks     chan func()
	done      chan struct{}
	toSurface func(x, y int) (int, int)
	toPixels  func(cols, rows int) (int, int)

	surface  *Surface
	renderer *Renderer
	input    InputBuffer
	pending  EventQueue
	blinker  *Blinker
	mouse    *MouseTranslator

	closed        bool
	closeReported bool
	shutdown      bool
}

// ShellOption configures a Shell during construction.
type ShellOption func(*Shell)

// WithEditorCore sets the editor core receiving callbacks.
func WithEditorCore(c EditorCore) ShellOption {
	return func(s *Shell) {
		s.core = c
	}
}

// WithEvents sets the platform event source. Closing the channel closes the shell.
func WithEvents(events <-chan tcell.Event) ShellOption {
	return func(s *Shell) {
		s.events = events
	}
}

// WithPresenter sets where flushed surfaces are shown.
func WithPresenter(p Presenter) ShellOption {
	return func(s *Shell) {
		s.presenter = p
	}
}

// WithBell sets the audible bell.
func WithBell(b BellProvider) ShellOption {
	return func(s *Shell) {
		s.bell = b
	}
}

// WithTitle sets the window title handler.
func WithTitle(t TitleProvider) ShellOption {
	return func(s *Shell) {
		s.title = t
	}
}

// WithLogger sets the logger for the shell and its components.
func WithLogger(l *log.Logger) ShellOption {
	return func(s *Shell) {
		s.logger = l
	}
}

// WithConfig sets the shell settings.
func WithConfig(cfg Config) ShellOption {
	return func(s *Shell) {
		s.config = cfg
	}
}

// WithFontSystem sets the font system. The default is a Catalog at the configured DPI.
func WithFontSystem(fs FontSystem) ShellOption {
	return func(s *Shell) {
		s.fonts = fs
	}
}

// WithClock sets the time source for input timeouts and repeated clicks.
func WithClock(now func() time.Time) ShellOption {
	return func(s *Shell) {
		s.now = now
	}
}

// WithScheduler sets the timer source for cursor blinking and the visual bell.
// The default posts timer callbacks to the event loop.
func WithScheduler(sched Scheduler) ShellOption {
	return func(s *Shell) {
		s.sched = sched
	}
}

// WithCellMapping sets how platform cell coordinates map to surface pixels:
// toSurface converts pointer positions and toPixels converts resize sizes.
// Without it, platform coordinates are surface pixels.
func WithCellMapping(toSurface func(x, y int) (int, int), toPixels func(cols, rows int) (int, int)) ShellOption {
	return func(s *Shell) {
		s.toSurface = toSurface
		s.toPixels = toPixels
	}
}

// NewShell creates a shell with a width x height pixel surface and loads the
// configured font. Failing to load both the configured and the default font is
// the only fatal error.
func NewShell(width, height int, opts ...ShellOption) (*Shell, error) {
	s := &Shell{
		core:      NoopEditorCore{},
		presenter: NoopPresenter{},
		bell:      NoopBell{},
		title:     NoopTitle{},
		logger:    log.New(io.Discard, "", 0),
		config:    DefaultConfig(),
		now:       time.Now,
		tasks:     make(chan func(), 64),
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gridshell: invalid surface size %dx%d", width, height)
	}
	if s.fonts == nil {
		s.fonts = NewCatalog(WithDPI(s.config.DPI))
	}
	if s.sched == nil {
		s.sched = loopScheduler{tasks: s.tasks, done: s.done}
	}

	s.surface = NewSurface(width, height, s.config.Background, WithSurfaceLogger(s.logger))
	s.renderer = NewRenderer(s.surface, s.fonts,
		WithRendererLogger(s.logger),
		WithLineSpace(s.config.LineSpace),
		WithAmbiguousWide(s.config.AmbiguousWide),
	)
	s.renderer.SetForeground(s.config.Foreground)
	s.renderer.SetBackground(s.config.Background)
	s.renderer.SetSpecial(s.config.Special)

	if err := s.renderer.InitFont(s.config.Font, true); err != nil {
		fallback := DefaultConfig().Font
		if ferr := s.renderer.InitFont(fallback, true); ferr != nil {
			return nil, fmt.Errorf("gridshell: no usable font: %w", errors.Join(err, ferr))
		}
		s.logger.Printf("gridshell: using %q instead of %q", fallback, s.config.Font)
	}

	s.blinker = NewBlinker(s.sched,
		func() { s.core.UpdateCursor(true, false) },
		func() { s.core.UndrawCursor() },
	)
	s.blinker.SetTimes(s.config.BlinkWait, s.config.BlinkOn, s.config.BlinkOff)
	s.blinker.SetFocus(true)

	s.mouse = NewMouseTranslator(WithDoubleClick(s.config.DoubleClick), WithMouseClock(s.now))
	return s, nil
}

// Renderer returns the renderer the editor core draws with.
func (s *Shell) Renderer() *Renderer {
	return s.renderer
}

// Surface returns the pixel surface.
func (s *Shell) Surface() *Surface {
	return s.surface
}

// Input returns the buffer the editor core reads encoded input from.
func (s *Shell) Input() *InputBuffer {
	return &s.input
}

// Blinker returns the cursor blink state machine.
func (s *Shell) Blinker() *Blinker {
	return s.blinker
}

// Closed reports whether the window was closed.
func (s *Shell) Closed() bool {
	return s.closed
}

// Post runs f on the event loop during a later pump. It is safe to call from any goroutine.
func (s *Shell) Post(f func()) {
	select {
	case s.tasks <- f:
	case <-s.done:
	}
}

// Shutdown stops blinking and releases the timer goroutines.
func (s *Shell) Shutdown() {
	if s.shutdown {
		return
	}
	s.shutdown = true
	s.blinker.Stop()
	close(s.done)
}

// WaitForChars pumps events until the input buffer is not empty.
//
// A zero timeout pumps once without blocking. A negative timeout waits forever.
// A positive timeout pumps in short slices until input arrives or the timeout
// elapses. The cursor blinks while waiting. Returns whether input is available.
func (s *Shell) WaitForChars(timeout time.Duration) bool {
	if timeout == 0 {
		s.pump(0)
		return s.input.Len() > 0
	}

	s.blinker.Start()
	defer s.stopBlink()

	start := s.now()
	for s.input.Len() == 0 {
		if s.closed {
			s.pump(0)
			return s.input.Len() > 0
		}

		if timeout < 0 {
			s.pump(-1)
			continue
		}

		elapsed := s.now().Sub(start)
		if elapsed >= timeout {
			return false
		}
		s.pump(min(timeout-elapsed, waitSlice))
	}
	return true
}

// pump handles at most one platform event or timer callback, then runs the idle
// tick. wait is 0 for no blocking and negative for blocking until something happens.
func (s *Shell) pump(wait time.Duration) bool {
	handled := false

	events := s.events
	if s.closed {
		events = nil
	}
	if events == nil && wait < 0 && s.closed {
		wait = 0
	}

	var timeout <-chan time.Time
	if wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		timeout = t.C
	}

	if wait == 0 {
		select {
		case ev, ok := <-events:
			handled = s.receive(ev, ok)
		case f := <-s.tasks:
			f()
			handled = true
		default:
		}
	} else {
		select {
		case ev, ok := <-events:
			handled = s.receive(ev, ok)
		case f := <-s.tasks:
			f()
			handled = true
		case <-timeout:
		}
	}

	s.idle()
	return handled
}

func (s *Shell) receive(ev tcell.Event, ok bool) bool {
	if !ok {
		s.events = nil
		s.Close()
		return true
	}
	s.HandleEvent(ev)
	return true
}

// idle dispatches pending events, flushes the surface and presents the damage.
func (s *Shell) idle() {
	s.pending.Drain(s.dispatch)
	s.flush()
}

// flush applies queued paint operations and presents the damage.
func (s *Shell) flush() {
	if damage := s.surface.Flush(); !damage.Empty() {
		s.presenter.Present(s.surface.Image(), damage)
	}
}

func (s *Shell) dispatch(ev PendingEvent) {
	switch e := ev.(type) {
	case ResizeEvent:
		s.core.ResizeShell(e.Width, e.Height)
	case CloseEvent:
		if !s.closeReported {
			s.closeReported = true
			s.blinker.Stop()
			s.core.ShellClosed()
		}
	case DropEvent:
		s.core.HandleDrop(e)
	}
}

// HandleEvent routes one platform event.
func (s *Shell) HandleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if b := TranslateKeyEvent(e); len(b) > 0 {
			s.input.Write(b)
		}
	case *tcell.EventMouse:
		for _, me := range s.mouse.TranslateEvent(e, s.toSurface) {
			if me.Move {
				s.core.MouseMoved(me.X, me.Y)
			} else {
				s.core.SendMouseEvent(me.Button, me.X, me.Y, me.Repeat, me.Mods)
			}
		}
	case *tcell.EventResize:
		w, h := e.Size()
		if s.toPixels != nil {
			w, h = s.toPixels(w, h)
		}
		s.Resize(w, h)
	case *tcell.EventFocus:
		s.SetFocus(e.Focused)
	}
}

// Resize resizes the surface now and tells the editor core on the next idle tick.
// Repeated resizes before that tick reach the core once, with the latest size.
func (s *Shell) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b := s.surface.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return
	}
	s.renderer.Resize(width, height)
	s.pending.Post(ResizeEvent{Width: width, Height: height})
}

// SetFocus reports a focus change to the editor core. Blinking stops while unfocused.
func (s *Shell) SetFocus(focused bool) {
	s.blinker.SetFocus(focused)
	if !focused {
		s.stopBlink()
	}
	s.core.FocusChanged(focused)
}

// stopBlink stops blinking and redraws the cursor if a blink left it hidden.
func (s *Shell) stopBlink() {
	hidden := s.blinker.State() == BlinkOff
	s.blinker.Stop()
	if hidden && !s.closeReported {
		s.core.UpdateCursor(true, false)
	}
}

// Close marks the window closed. The editor core hears about it once, on the next idle tick.
func (s *Shell) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.pending.Post(CloseEvent{})
}

// Drop decodes a dropped payload and queues it for the editor core. mods is the
// mouse modifier mask held during the drop. Payloads that decode to nothing are ignored.
func (s *Shell) Drop(x, y, mods int, mimeType string, data []byte) {
	if !AcceptsDrop(mimeType) {
		s.logger.Printf("gridshell: ignoring drop of %q", mimeType)
		return
	}
	p := DecodeDropPayload(mimeType, data)
	if p.Empty() {
		return
	}
	s.pending.Post(DropEvent{X: x, Y: y, Mods: mods, Files: p.Files, Text: p.Text})
}

// Bell rings the bell. The visual bell shows the grid inverted for flashTime
// and restores it before returning, so nothing can draw into the inverted grid.
func (s *Shell) Bell(visual bool) {
	if !visual {
		s.bell.Ring()
		return
	}
	s.flush()
	s.renderer.Flash()
	s.flush()
	time.Sleep(flashTime)
	s.renderer.Flash()
	s.flush()
}

// SetTitle changes the window title.
func (s *Shell) SetTitle(title string) {
	s.title.SetTitle(title)
}
