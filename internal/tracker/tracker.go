// Package tracker observes the interactions within a single document
// and turns them into a bounded history of structured records, a
// console trace and an optional visual log.
package tracker

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/jakopako/pagetrace/internal/console"
	"github.com/jakopako/pagetrace/internal/dom"
)

// ErrAlreadyStarted is returned when Start is called a second time.
var ErrAlreadyStarted = errors.New("tracker already started")

const (
	directReferrer = "Direct"
	unknownObject  = "unknown"
)

var separator = strings.Repeat("━", 54)

var kindColors = map[Kind][]color.Attribute{
	KindPageView:   {color.FgMagenta, color.Bold},
	KindClick:      {color.FgBlue, color.Bold},
	KindVisibility: {color.FgYellow, color.Bold},
	KindNavigation: {color.FgGreen, color.Bold},
}

var defaultColor = []color.Attribute{color.FgHiBlack, color.Bold}

// Projector renders click records into a visual log.
type Projector interface {
	Project(Row)
}

type Options struct {
	// Console receives the trace. Without one the trace is discarded.
	Console *console.Console
	// Projector is optional.
	Projector Projector
	Clock     func() time.Time
	Logger    *slog.Logger
}

// Tracker owns the capture lifecycle of one document. All its methods
// have to be called from the goroutine the host dispatches events on.
type Tracker struct {
	host      dom.Host
	console   *console.Console
	projector Projector
	clock     func() time.Time
	logger    *slog.Logger
	session   string

	started bool
	count   int
	history *History
}

func New(host dom.Host, opts Options) *Tracker {
	t := &Tracker{
		host:      host,
		console:   opts.Console,
		projector: opts.Projector,
		clock:     opts.Clock,
		logger:    opts.Logger,
		session:   uuid.NewString(),
		history:   NewHistory(HistoryCapacity),
	}
	if t.console == nil {
		t.console = console.New(io.Discard, console.ColorNever)
	}
	if t.clock == nil {
		t.clock = time.Now
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	t.logger = t.logger.With(slog.String("component", "tracker"), slog.String("session", t.session))
	return t
}

// Start records the page view and installs the listeners. It may only
// be called once.
func (t *Tracker) Start() error {
	if t.started {
		return ErrAlreadyStarted
	}
	t.started = true

	t.console.Styled("Event Tracker Initialized", color.FgGreen, color.Bold)
	t.console.Styled(separator, color.FgGreen)

	t.trackPageView()

	t.host.Document().AddEventListener(dom.Click, t.handleClick, true)
	t.logger.Debug("registered capturing click listener on document")
	t.console.Styled("Click tracking enabled for all elements")

	t.host.Document().AddEventListener(dom.VisibilityChange, t.handleVisibility, false)
	t.logger.Debug("registered visibilitychange listener on document")
	t.console.Styled("Page visibility tracking enabled")

	t.host.Window().AddEventListener(dom.HashChange, t.handleHashChange, false)
	t.host.Window().AddEventListener(dom.PopState, t.handlePopState, false)
	t.logger.Debug("registered hashchange and popstate listeners on window")
	t.console.Styled("Navigation tracking enabled")

	t.console.Styled("All event listeners attached successfully!", color.FgBlue, color.Bold)
	t.console.Styled(separator, color.FgGreen)
	return nil
}

func (t *Tracker) trackPageView() {
	loc := t.host.Location()
	referrer := t.host.Referrer()
	if referrer == "" {
		referrer = directReferrer
	}
	t.logEvent(KindPageView, PageView{
		Type:      "page_view",
		URL:       loc.Href,
		Pathname:  loc.Pathname,
		Search:    loc.Search,
		Hash:      loc.Hash,
		Title:     t.host.Title(),
		Referrer:  referrer,
		Timestamp: isoTimestamp(t.clock()),
		Viewport:  t.host.Viewport(),
		UserAgent: t.host.UserAgent(),
	})
}

func (t *Tracker) handleClick(ev dom.Event) {
	me, ok := ev.(*dom.MouseEvent)
	if !ok {
		t.logger.Debug(fmt.Sprintf("ignoring click event of type %T", ev))
		return
	}
	now := t.clock()
	click := Click{
		Type:        "click",
		EventObject: unknownObject,
		Element:     Describe(me.Target),
		Position: Position{
			X:     me.ClientX,
			Y:     me.ClientY,
			PageX: me.PageX,
			PageY: me.PageY,
		},
		Modifiers: Modifiers{
			CtrlKey:  me.CtrlKey,
			AltKey:   me.AltKey,
			ShiftKey: me.ShiftKey,
			MetaKey:  me.MetaKey,
		},
		Timestamp: isoTimestamp(now),
		Path:      EventPath(me.Path),
	}
	if me.Target != nil {
		click.EventObject = ClassifyElement(me.Target)
	}

	record := t.logEvent(KindClick, click)
	t.project(record, click, now)
}

func (t *Tracker) handleVisibility(dom.Event) {
	state := "visible"
	if t.host.Hidden() {
		state = "hidden"
	}
	t.logEvent(KindVisibility, Visibility{
		Type:      "visibility_change",
		State:     state,
		Timestamp: isoTimestamp(t.clock()),
	})
}

func (t *Tracker) handleHashChange(ev dom.Event) {
	nav := HashChange{
		Type:      "navigation",
		Event:     string(dom.HashChange),
		Hash:      t.host.Location().Hash,
		Timestamp: isoTimestamp(t.clock()),
	}
	if hc, ok := ev.(*dom.HashChangeEvent); ok {
		nav.OldURL = hc.OldURL
		nav.NewURL = hc.NewURL
	}
	t.logEvent(KindNavigation, nav)
}

func (t *Tracker) handlePopState(ev dom.Event) {
	nav := PopState{
		Type:      "navigation",
		Event:     string(dom.PopState),
		URL:       t.host.Location().Href,
		Timestamp: isoTimestamp(t.clock()),
	}
	if ps, ok := ev.(*dom.PopStateEvent); ok {
		nav.State = ps.State
	}
	t.logEvent(KindNavigation, nav)
}

// logEvent is the only place that changes the history and the only
// source of trace output.
func (t *Tracker) logEvent(kind Kind, data Payload) Record {
	t.count++
	record := Record{
		Sequence:  t.count,
		Kind:      kind,
		Data:      data,
		Timestamp: data.timestamp(),
	}
	t.history.Add(record)
	t.trace(record)
	return record
}

func (t *Tracker) trace(r Record) {
	attrs, ok := kindColors[r.Kind]
	if !ok {
		attrs = defaultColor
	}
	c := t.console
	c.Group(fmt.Sprintf("[%d] %s", r.Sequence, r.Kind), attrs...)

	// only page views and clicks get highlighted fields
	switch data := r.Data.(type) {
	case PageView:
		c.Field("URL:", data.URL)
		c.Field("Title:", data.Title)
		c.Field("Referrer:", data.Referrer)
		c.Field("Viewport:", fmt.Sprintf("%dx%d", data.Viewport.Width, data.Viewport.Height))
	case Click:
		c.Field("Event Object:", data.EventObject)
		c.Field("Element:", fmt.Sprintf("<%s>", data.Element.Tag))
		if data.Element.ID != nil {
			c.Field("ID:", *data.Element.ID)
		}
		if data.Element.ClassName != nil {
			c.Field("Class:", *data.Element.ClassName)
		}
		if data.Element.Text != "" {
			c.Field("Text:", data.Element.Text)
		}
		c.Field("Position:", fmt.Sprintf("(%s, %s)", formatCoordinate(data.Position.X), formatCoordinate(data.Position.Y)))
		if len(data.Element.Attributes) > 0 {
			c.Field("Attributes:", data.Element.Attributes)
		}
	}

	c.Field("Timestamp:", r.Timestamp)
	c.Field("Full Data:", r.Data)
	c.GroupEnd()
}

func (t *Tracker) project(r Record, click Click, at time.Time) {
	if t.projector == nil {
		return
	}
	t.projector.Project(Row{
		Sequence:   r.Sequence,
		ObjectType: click.EventObject,
		Tag:        click.Element.Tag,
		Text:       click.Element.Text,
		Time:       at,
	})
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Stats reports the running counter and a breakdown of the history.
func (t *Tracker) Stats() Stats {
	return Stats{
		TotalEvents: t.count,
		HistorySize: t.history.Len(),
		EventTypes:  t.history.KindCounts(),
	}
}

// History returns the held records, newest first.
func (t *Tracker) History() []Record {
	return t.history.Records()
}

// ClearHistory empties the history and the console. The sequence counter
// keeps running and the listeners stay installed.
func (t *Tracker) ClearHistory() {
	t.history.Clear()
	t.console.Clear()
	t.console.Styled("Event history cleared", color.FgRed, color.Bold)
	t.logger.Debug("history cleared", slog.Int("total", t.count))
}

// Session identifies this tracker instance in logs and exports.
func (t *Tracker) Session() string {
	return t.session
}

// Command describes one entry of the query surface offered by a host.
type Command struct {
	Name string
	Help string
}

// PrintCommands lists the commands on the console.
func (t *Tracker) PrintCommands(commands []Command) {
	t.console.Styled("Event Tracker Commands:", color.FgYellow, color.Bold)
	for _, cmd := range commands {
		t.console.Field(cmd.Name, "- "+cmd.Help)
	}
	t.console.Styled(separator, color.FgGreen)
}
