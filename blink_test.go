package gridshell

import (
	"testing"
	"time"
)

type fakeTimer struct {
	at      time.Duration
	period  time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// fakeScheduler fires timers when the test advances its clock.
type fakeScheduler struct {
	now    time.Duration
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Every(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: s.now + d, period: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	end := s.now + d
	for {
		var next *fakeTimer
		for _, t := range s.timers {
			if t.stopped || t.at > end {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			break
		}
		s.now = next.at
		if next.period > 0 {
			next.at += next.period
		} else {
			next.stopped = true
		}
		next.f()
	}
	s.now = end
}

type blinkRecorder struct {
	ons, offs int
}

func newTestBlinker() (*Blinker, *fakeScheduler, *blinkRecorder) {
	sched := &fakeScheduler{}
	rec := &blinkRecorder{}
	b := NewBlinker(sched, func() { rec.ons++ }, func() { rec.offs++ })
	b.SetTimes(100*time.Millisecond, 50*time.Millisecond, 30*time.Millisecond)
	b.SetFocus(true)
	return b, sched, rec
}

func TestBlinkerStart(t *testing.T) {
	b, _, rec := newTestBlinker()

	if !b.Start() {
		t.Fatal("Start() = false")
	}
	if b.State() != BlinkOn {
		t.Errorf("State() = %v, want on", b.State())
	}
	if rec.ons != 1 {
		t.Errorf("cursorOn calls = %d, want 1", rec.ons)
	}
}

func TestBlinkerStartPreconditions(t *testing.T) {
	tests := []struct {
		name          string
		wait, on, off time.Duration
		focused       bool
	}{
		{"no focus", 100, 50, 30, false},
		{"zero wait", 0, 50, 30, true},
		{"zero on", 100, 0, 30, true},
		{"zero off", 100, 50, 0, true},
	}

	for _, tt := range tests {
		b, sched, rec := newTestBlinker()
		b.SetTimes(tt.wait*time.Millisecond, tt.on*time.Millisecond, tt.off*time.Millisecond)
		b.SetFocus(tt.focused)

		if b.Start() {
			t.Errorf("%s: Start() = true", tt.name)
		}
		sched.Advance(time.Second)
		if b.State() != BlinkNone || rec.ons != 0 || rec.offs != 0 {
			t.Errorf("%s: state %v, %d on, %d off", tt.name, b.State(), rec.ons, rec.offs)
		}
	}
}

func TestBlinkerCycle(t *testing.T) {
	b, sched, rec := newTestBlinker()
	b.Start()

	steps := []struct {
		advance time.Duration
		state   BlinkState
		ons     int
		offs    int
	}{
		{99 * time.Millisecond, BlinkOn, 1, 0},  // 99: still waiting
		{30 * time.Millisecond, BlinkOn, 1, 0},  // 129: off timer armed at 100
		{1 * time.Millisecond, BlinkOff, 1, 1},  // 130: wait + off elapsed
		{29 * time.Millisecond, BlinkOff, 1, 1}, // 159: first off phase lasts off
		{1 * time.Millisecond, BlinkOn, 2, 1},   // 160
		{50 * time.Millisecond, BlinkOff, 2, 2}, // 210: on phase over
		{30 * time.Millisecond, BlinkOn, 3, 2},  // 240: steady period of on+off
		{50 * time.Millisecond, BlinkOff, 3, 3}, // 290
		{30 * time.Millisecond, BlinkOn, 4, 3},  // 320
	}

	for i, s := range steps {
		sched.Advance(s.advance)
		if b.State() != s.state || rec.ons != s.ons || rec.offs != s.offs {
			t.Errorf("step %d: state %v (%d on, %d off), want %v (%d on, %d off)",
				i, b.State(), rec.ons, rec.offs, s.state, s.ons, s.offs)
		}
	}
}

func TestBlinkerStop(t *testing.T) {
	for _, stopAt := range []time.Duration{0, 50, 120, 135, 165, 215, 245} {
		b, sched, rec := newTestBlinker()
		b.Start()
		sched.Advance(stopAt * time.Millisecond)

		b.Stop()
		ons, offs := rec.ons, rec.offs
		sched.Advance(10 * time.Second)

		if b.State() != BlinkNone {
			t.Errorf("stop at %dms: State() = %v, want none", stopAt, b.State())
		}
		if rec.ons != ons || rec.offs != offs {
			t.Errorf("stop at %dms: callbacks after Stop (%d on, %d off)", stopAt, rec.ons-ons, rec.offs-offs)
		}
	}
}

func TestBlinkerStaleCallback(t *testing.T) {
	b, sched, rec := newTestBlinker()
	b.Start()
	sched.Advance(130 * time.Millisecond)

	b.Stop()

	// A fire that was already on its way to the loop when Stop ran.
	for _, timer := range sched.timers {
		timer.f()
	}
	if rec.ons != 1 || rec.offs != 1 {
		t.Errorf("stale callbacks ran: %d on, %d off", rec.ons, rec.offs)
	}
	if b.State() != BlinkNone {
		t.Errorf("State() = %v, want none", b.State())
	}
}

func TestBlinkerRestart(t *testing.T) {
	b, sched, rec := newTestBlinker()
	b.Start()
	sched.Advance(90 * time.Millisecond)

	// Typing restarts the wait; the cursor must not go off at 130.
	b.Start()
	sched.Advance(50 * time.Millisecond)
	if b.State() != BlinkOn || rec.offs != 0 {
		t.Errorf("State() = %v with %d off calls, want on", b.State(), rec.offs)
	}

	sched.Advance(80 * time.Millisecond)
	if b.State() != BlinkOff {
		t.Errorf("State() = %v, want off", b.State())
	}
}

func TestBlinkStateString(t *testing.T) {
	tests := map[BlinkState]string{BlinkNone: "none", BlinkOn: "on", BlinkOff: "off"}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", s, got, want)
		}
	}
}

func TestLoopScheduler(t *testing.T) {
	tasks := make(chan func(), 4)
	done := make(chan struct{})
	defer close(done)
	s := loopScheduler{tasks: tasks, done: done}

	fired := 0
	s.AfterFunc(time.Millisecond, func() { fired++ })
	select {
	case f := <-tasks:
		f()
	case <-time.After(time.Second):
		t.Fatal("AfterFunc did not post")
	}
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}

	ticks := 0
	tm := s.Every(time.Millisecond, func() { ticks++ })
	for i := 0; i < 2; i++ {
		select {
		case f := <-tasks:
			f()
		case <-time.After(time.Second):
			t.Fatal("Every did not post")
		}
	}
	if !tm.Stop() {
		t.Error("first Stop() = false")
	}
	if tm.Stop() {
		t.Error("second Stop() = true")
	}
	if ticks != 2 {
		t.Errorf("ticks = %d, want 2", ticks)
	}
}
