package gridshell

// PendingEvent is an event deferred to the next idle tick of the event loop.
type PendingEvent interface {
	pendingEvent()
}

// ResizeEvent reports a new surface size in pixels. Only the latest pending one is kept.
type ResizeEvent struct {
	Width, Height int
}

// CloseEvent reports that the window was closed.
type CloseEvent struct{}

// DropEvent carries files or text dropped on the window at pixel (X, Y).
type DropEvent struct {
	X, Y  int
	Mods  int
	Files []string
	Text  string
}

func (ResizeEvent) pendingEvent() {}
func (CloseEvent) pendingEvent()  {}
func (DropEvent) pendingEvent()   {}

// EventQueue holds pending events until the next idle tick.
//
// Handlers may post new events while the queue drains; those wait for the
// following tick, so a resize handler that triggers another resize never
// recurses into itself.
type EventQueue struct {
	events   []PendingEvent
	draining bool
}

// Post queues ev. A ResizeEvent replaces a pending ResizeEvent in place.
func (q *EventQueue) Post(ev PendingEvent) {
	if ev == nil {
		return
	}
	if _, ok := ev.(ResizeEvent); ok {
		for i, pending := range q.events {
			if _, ok := pending.(ResizeEvent); ok {
				q.events[i] = ev
				return
			}
		}
	}
	q.events = append(q.events, ev)
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Drain hands every event pending at the time of the call to fn, in order,
// and returns how many were handled. A nested call from fn does nothing.
func (q *EventQueue) Drain(fn func(PendingEvent)) int {
	if q.draining || len(q.events) == 0 {
		return 0
	}
	q.draining = true
	defer func() { q.draining = false }()

	events := q.events
	q.events = nil
	for _, ev := range events {
		fn(ev)
	}
	return len(events)
}
