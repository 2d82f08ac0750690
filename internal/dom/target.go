package dom

import (
	"fmt"
	"log/slog"
	"slices"
)

// Listener handles a dispatched event.
type Listener func(Event)

type registration struct {
	listener Listener
	capture  bool
}

// Target is something listeners can be registered on, ie. the window or
// the document.
type Target struct {
	name      string
	listeners map[EventType][]registration
}

func NewTarget(name string) *Target {
	return &Target{
		name:      name,
		listeners: map[EventType][]registration{},
	}
}

func (t *Target) Name() string {
	return t.name
}

// AddEventListener registers l for events of type typ. Capturing
// listeners run on the way down to the event target, the others on the
// way back up.
func (t *Target) AddEventListener(typ EventType, l Listener, capture bool) {
	t.listeners[typ] = append(t.listeners[typ], registration{listener: l, capture: capture})
}

// ListenerCount returns the number of listeners registered for typ.
func (t *Target) ListenerCount(typ EventType) int {
	return len(t.listeners[typ])
}

// invoke runs the listeners of one phase. Listeners added while the
// event is being dispatched only see the next event.
func (t *Target) invoke(ev Event, capture bool) {
	regs := slices.Clone(t.listeners[ev.Type()])
	for _, r := range regs {
		if r.capture == capture {
			t.call(r.listener, ev)
		}
	}
}

// call isolates a faulty listener from the others, the same way a
// browser reports a listener's exception and moves on.
func (t *Target) call(l Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error(fmt.Sprintf("listener panicked: %v", r),
				slog.String("target", t.name),
				slog.String("event", string(ev.Type())))
		}
	}()
	l(ev)
}

// Events holds the window and document targets of one document.
type Events struct {
	window   *Target
	document *Target
}

func NewEvents() *Events {
	return &Events{
		window:   NewTarget(WindowRoot.String()),
		document: NewTarget(DocumentRoot.String()),
	}
}

func (e *Events) Window() *Target {
	return e.window
}

func (e *Events) Document() *Target {
	return e.document
}

// DispatchDocumentEvent delivers an event whose target lies inside the
// document: capturing listeners on the window, then on the document,
// then the bubbling listeners on the document and finally the window.
// StopPropagation takes effect from the next phase on.
func (e *Events) DispatchDocumentEvent(ev Event) {
	phases := []struct {
		target  *Target
		capture bool
	}{
		{e.window, true},
		{e.document, true},
		{e.document, false},
		{e.window, false},
	}
	for _, p := range phases {
		p.target.invoke(ev, p.capture)
		if ev.PropagationStopped() {
			return
		}
	}
}

// DispatchWindowEvent delivers an event targeted at the window itself.
// At the target capturing listeners run before the others and
// StopPropagation has nothing left to stop.
func (e *Events) DispatchWindowEvent(ev Event) {
	e.window.invoke(ev, true)
	e.window.invoke(ev, false)
}
