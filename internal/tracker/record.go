package tracker

import (
	"time"

	"github.com/jakopako/pagetrace/internal/dom"
)

// Kind classifies a record.
type Kind string

const (
	KindPageView   Kind = "PAGE_VIEW"
	KindClick      Kind = "CLICK"
	KindVisibility Kind = "VISIBILITY"
	KindNavigation Kind = "NAVIGATION"
)

// Kinds lists all record kinds in display order.
var Kinds = []Kind{KindPageView, KindClick, KindVisibility, KindNavigation}

// Record is a single observation. Records are never modified after they
// have been logged.
type Record struct {
	Sequence  int     `json:"count"`
	Kind      Kind    `json:"type"`
	Data      Payload `json:"data"`
	Timestamp string  `json:"timestamp"`
}

// Payload is the kind specific data of a record.
type Payload interface {
	timestamp() string
}

type PageView struct {
	Type      string       `json:"type"`
	URL       string       `json:"url"`
	Pathname  string       `json:"pathname"`
	Search    string       `json:"search"`
	Hash      string       `json:"hash"`
	Title     string       `json:"title"`
	Referrer  string       `json:"referrer"`
	Timestamp string       `json:"timestamp"`
	Viewport  dom.Viewport `json:"viewport"`
	UserAgent string       `json:"userAgent"`
}

type Position struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	PageX float64 `json:"pageX"`
	PageY float64 `json:"pageY"`
}

type Modifiers struct {
	CtrlKey  bool `json:"ctrlKey"`
	AltKey   bool `json:"altKey"`
	ShiftKey bool `json:"shiftKey"`
	MetaKey  bool `json:"metaKey"`
}

type Click struct {
	Type        string            `json:"type"`
	EventObject string            `json:"event_object"`
	Element     ElementDescriptor `json:"element"`
	Position    Position          `json:"position"`
	Modifiers   Modifiers         `json:"modifiers"`
	Timestamp   string            `json:"timestamp"`
	Path        []string          `json:"path"`
}

type Visibility struct {
	Type      string `json:"type"`
	State     string `json:"state"`
	Timestamp string `json:"timestamp"`
}

type HashChange struct {
	Type      string `json:"type"`
	Event     string `json:"event"`
	OldURL    string `json:"oldURL"`
	NewURL    string `json:"newURL"`
	Hash      string `json:"hash"`
	Timestamp string `json:"timestamp"`
}

type PopState struct {
	Type      string `json:"type"`
	Event     string `json:"event"`
	State     any    `json:"state"`
	URL       string `json:"url"`
	Timestamp string `json:"timestamp"`
}

func (p PageView) timestamp() string   { return p.Timestamp }
func (p Click) timestamp() string      { return p.Timestamp }
func (p Visibility) timestamp() string { return p.Timestamp }
func (p HashChange) timestamp() string { return p.Timestamp }
func (p PopState) timestamp() string   { return p.Timestamp }

// Stats summarizes the tracker. TotalEvents is the running counter, the
// other fields only cover what is currently held in the history.
type Stats struct {
	TotalEvents int          `json:"totalEvents"`
	HistorySize int          `json:"historySize"`
	EventTypes  map[Kind]int `json:"eventTypes"`
}

// Row is what a visual log shows for a click.
type Row struct {
	Sequence   int
	ObjectType string
	Tag        string
	Text       string
	Time       time.Time
}

// isoTimestamp formats t like javascript's Date.toISOString.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
