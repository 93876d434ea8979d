package gridshell

import (
	"sync"
	"time"
)

// BlinkState is the state of the cursor blink machine.
type BlinkState int

const (
	BlinkNone BlinkState = iota // not blinking, the editor core draws the cursor
	BlinkOn
	BlinkOff
)

func (s BlinkState) String() string {
	switch s {
	case BlinkOn:
		return "on"
	case BlinkOff:
		return "off"
	default:
		return "none"
	}
}

// Timer is a pending timer callback.
type Timer interface {
	// Stop cancels the timer. It returns false if the timer already fired or was stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	// AfterFunc calls f once after d.
	AfterFunc(d time.Duration, f func()) Timer
	// Every calls f every d until stopped. The first call happens after d.
	Every(d time.Duration, f func()) Timer
}

// Blinker drives cursor blinking. The cursor is shown at Start, stays on for the
// wait time plus one off time, goes off for the off time, and then repeats on
// and off phases with a steady period of on+off.
// All methods and callbacks must run on the same goroutine.
type Blinker struct {
	sched     Scheduler
	cursorOn  func()
	cursorOff func()

	wait, on, off time.Duration
	focused       bool

	state BlinkState
	gen   uint64

	waitTimer  Timer
	offTimer     Timer
	firstOnTimer Timer
	onTimer      Timer
	cycleTimer   Timer
}

// NewBlinker creates a blinker that calls on and off to draw and undraw the cursor.
// It starts unfocused with no blink times set.
func NewBlinker(sched Scheduler, on, off func()) *Blinker {
	return &Blinker{
		sched:     sched,
		cursorOn:  on,
		cursorOff: off,
	}
}

// SetTimes sets the blink durations. A zero duration disables blinking.
func (b *Blinker) SetTimes(wait, on, off time.Duration) {
	b.wait, b.on, b.off = wait, on, off
}

// Times returns the blink durations.
func (b *Blinker) Times() (wait, on, off time.Duration) {
	return b.wait, b.on, b.off
}

// SetFocus records whether the window has input focus.
func (b *Blinker) SetFocus(focused bool) {
	b.focused = focused
}

// State returns the current blink state.
func (b *Blinker) State() BlinkState {
	return b.state
}

// Start shows the cursor and arms the blink timers. It does nothing and returns
// false unless all durations are non-zero and the window has focus.
func (b *Blinker) Start() bool {
	if b.wait <= 0 || b.on <= 0 || b.off <= 0 || !b.focused {
		return false
	}

	b.stopTimers()
	b.turnOn()
	b.waitTimer = b.sched.AfterFunc(b.wait, b.guard(b.waitElapsed))
	return true
}

// Stop cancels all timers and sets the state to BlinkNone.
// No callback runs after Stop until Start is called again.
func (b *Blinker) Stop() {
	b.stopTimers()
	b.state = BlinkNone
}

func (b *Blinker) stopTimers() {
	b.gen++
	for _, t := range []*Timer{&b.waitTimer, &b.offTimer, &b.firstOnTimer, &b.onTimer, &b.cycleTimer} {
		if *t != nil {
			(*t).Stop()
			*t = nil
		}
	}
}

// guard drops callbacks armed before the last Start or Stop.
func (b *Blinker) guard(f func()) func() {
	gen := b.gen
	return func() {
		if b.gen == gen {
			f()
		}
	}
}

func (b *Blinker) waitElapsed() {
	b.offTimer = b.sched.AfterFunc(b.off, b.guard(b.offElapsed))
}

func (b *Blinker) offElapsed() {
	if b.state != BlinkOn {
		return
	}
	b.turnOff()
	b.firstOnTimer = b.sched.AfterFunc(b.off, b.guard(b.firstOn))
}

// firstOn ends the first off phase and starts the steady on+off period.
func (b *Blinker) firstOn() {
	b.cycle()
	b.cycleTimer = b.sched.Every(b.on+b.off, b.guard(b.cycle))
}

func (b *Blinker) cycle() {
	b.turnOn()
	if b.onTimer != nil {
		b.onTimer.Stop()
	}
	b.onTimer = b.sched.AfterFunc(b.on, b.guard(b.onElapsed))
}

func (b *Blinker) onElapsed() {
	if b.state == BlinkOn {
		b.turnOff()
	}
}

func (b *Blinker) turnOn() {
	b.state = BlinkOn
	if b.cursorOn != nil {
		b.cursorOn()
	}
}

func (b *Blinker) turnOff() {
	b.state = BlinkOff
	if b.cursorOff != nil {
		b.cursorOff()
	}
}

// loopScheduler fires timers by posting their callbacks to an event loop.
type loopScheduler struct {
	tasks chan<- func()
	done  <-chan struct{}
}

func (s loopScheduler) post(f func()) {
	select {
	case s.tasks <- f:
	case <-s.done:
	}
}

func (s loopScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() { s.post(f) })
}

func (s loopScheduler) Every(d time.Duration, f func()) Timer {
	t := &tickerTimer{ticker: time.NewTicker(d), stop: make(chan struct{})}
	go func() {
		for {
			select {
			case <-t.ticker.C:
				s.post(f)
			case <-t.stop:
				return
			case <-s.done:
				return
			}
		}
	}()
	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.stop)
		stopped = true
	})
	return stopped
}
