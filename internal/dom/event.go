package dom

// EventType names a DOM event.
type EventType string

const (
	Click            EventType = "click"
	VisibilityChange EventType = "visibilitychange"
	HashChange       EventType = "hashchange"
	PopState         EventType = "popstate"
)

// Event is implemented by every event a Target dispatches.
type Event interface {
	Type() EventType
	// StopPropagation prevents the event from reaching further targets.
	// Listeners on the current target still run.
	StopPropagation()
	PropagationStopped() bool
}

// BaseEvent carries the state shared by all events.
type BaseEvent struct {
	EventType EventType
	stopped   bool
}

// NewEvent returns a plain event, eg. for visibilitychange.
func NewEvent(typ EventType) *BaseEvent {
	return &BaseEvent{EventType: typ}
}

func (e *BaseEvent) Type() EventType          { return e.EventType }
func (e *BaseEvent) StopPropagation()         { e.stopped = true }
func (e *BaseEvent) PropagationStopped() bool { return e.stopped }

// MouseState is the pointer and modifier state of a mouse event.
type MouseState struct {
	ClientX  float64
	ClientY  float64
	PageX    float64
	PageY    float64
	CtrlKey  bool
	AltKey   bool
	ShiftKey bool
	MetaKey  bool
}

// MouseEvent is dispatched for clicks.
type MouseEvent struct {
	BaseEvent
	MouseState
	// Target may be nil for clicks on nodes the host could not describe.
	Target Element
	// Path is the propagation chain from the target outwards. Entries
	// are Elements, RootTargets or anything else the host could not
	// classify.
	Path []any
}

func NewMouseEvent(typ EventType, target Element, path []any, state MouseState) *MouseEvent {
	return &MouseEvent{
		BaseEvent:  BaseEvent{EventType: typ},
		MouseState: state,
		Target:     target,
		Path:       path,
	}
}

// HashChangeEvent is dispatched on the window when the fragment changes.
type HashChangeEvent struct {
	BaseEvent
	OldURL string
	NewURL string
}

func NewHashChangeEvent(oldURL, newURL string) *HashChangeEvent {
	return &HashChangeEvent{
		BaseEvent: BaseEvent{EventType: HashChange},
		OldURL:    oldURL,
		NewURL:    newURL,
	}
}

// PopStateEvent is dispatched on the window on history traversal.
type PopStateEvent struct {
	BaseEvent
	// State is the opaque history state, nil when there is none.
	State any
}

func NewPopStateEvent(state any) *PopStateEvent {
	return &PopStateEvent{
		BaseEvent: BaseEvent{EventType: PopState},
		State:     state,
	}
}
