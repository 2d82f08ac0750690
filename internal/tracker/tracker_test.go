package tracker

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jakopako/pagetrace/internal/console"
	"github.com/jakopako/pagetrace/internal/dom"
)

const trackerPage = `<html>
<head><title>Shop</title></head>
<body>
	<div id="app" class="container">
		<button id="go">Go</button>
		<input type="checkbox" id="agree" name="agree" value="yes">
		<a href="/next" onclick="track()" data-action="next" style="color: red">Next</a>
	</div>
</body>
</html>`

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type rowCollector struct {
	rows []Row
}

func (c *rowCollector) Project(r Row) {
	c.rows = append(c.rows, r)
}

func newTestTracker(t *testing.T, projector Projector) (*Tracker, *dom.Page, *bytes.Buffer) {
	t.Helper()
	page, err := dom.NewPageFromString(trackerPage, dom.PageOptions{
		URL:       "https://shop.example.com/items?sort=asc#a",
		UserAgent: "test-agent/1.0",
		Viewport:  dom.Viewport{Width: 800, Height: 600},
	})
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	buf := &bytes.Buffer{}
	tr := New(page, Options{
		Console:   console.New(buf, console.ColorNever),
		Projector: projector,
		Clock:     func() time.Time { return fixedTime },
	})
	if err := tr.Start(); err != nil {
		t.Fatalf("failed to start tracker: %v", err)
	}
	return tr, page, buf
}

func click(t *testing.T, page *dom.Page, selector string) {
	t.Helper()
	if err := page.Click(selector, dom.MouseState{ClientX: 12, ClientY: 34, PageX: 12, PageY: 534}); err != nil {
		t.Fatalf("click on %s failed: %v", selector, err)
	}
}

func TestStartRecordsPageView(t *testing.T) {
	tr, page, _ := newTestTracker(t, nil)

	history := tr.History()
	if len(history) != 1 {
		t.Fatalf("expected a single record after start, got %d", len(history))
	}
	r := history[0]
	if r.Sequence != 1 || r.Kind != KindPageView {
		t.Errorf("expected [1] PAGE_VIEW, got [%d] %s", r.Sequence, r.Kind)
	}
	pv, ok := r.Data.(PageView)
	if !ok {
		t.Fatalf("expected PageView payload, got %T", r.Data)
	}
	expected := PageView{
		Type:      "page_view",
		URL:       "https://shop.example.com/items?sort=asc#a",
		Pathname:  "/items",
		Search:    "?sort=asc",
		Hash:      "#a",
		Title:     "Shop",
		Referrer:  "Direct",
		Timestamp: "2024-03-01T12:00:00.000Z",
		Viewport:  dom.Viewport{Width: 800, Height: 600},
		UserAgent: "test-agent/1.0",
	}
	if pv != expected {
		t.Errorf("unexpected page view\n got: %+v\nwant: %+v", pv, expected)
	}
	if r.Timestamp != expected.Timestamp {
		t.Errorf("record timestamp = %q", r.Timestamp)
	}

	if page.Document().ListenerCount(dom.Click) != 1 ||
		page.Document().ListenerCount(dom.VisibilityChange) != 1 ||
		page.Window().ListenerCount(dom.HashChange) != 1 ||
		page.Window().ListenerCount(dom.PopState) != 1 {
		t.Error("expected exactly one listener per observed event")
	}
}

func TestStartTwice(t *testing.T) {
	tr, page, _ := newTestTracker(t, nil)

	if err := tr.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
	if page.Document().ListenerCount(dom.Click) != 1 {
		t.Error("second start must not register listeners again")
	}
	if tr.Stats().TotalEvents != 1 {
		t.Error("second start must not record another page view")
	}
}

func TestClickButton(t *testing.T) {
	tr, page, _ := newTestTracker(t, nil)
	click(t, page, "#go")

	r := tr.History()[0]
	if r.Sequence != 2 || r.Kind != KindClick {
		t.Fatalf("expected [2] CLICK, got [%d] %s", r.Sequence, r.Kind)
	}
	c := r.Data.(Click)
	if c.EventObject != "button" {
		t.Errorf("event_object = %q; want button", c.EventObject)
	}
	if c.Element.Tag != "button" || c.Element.ID == nil || *c.Element.ID != "go" || c.Element.Text != "Go" {
		t.Errorf("unexpected element %+v", c.Element)
	}
	if c.Position != (Position{X: 12, Y: 34, PageX: 12, PageY: 534}) {
		t.Errorf("unexpected position %+v", c.Position)
	}
	expectedPath := []string{"button#go", "div#app.container", "body", "html", "document"}
	if strings.Join(c.Path, " ") != strings.Join(expectedPath, " ") {
		t.Errorf("path = %v; want %v", c.Path, expectedPath)
	}
}

func TestClickCheckboxAndLink(t *testing.T) {
	tr, page, _ := newTestTracker(t, nil)

	click(t, page, "#agree")
	if got := tr.History()[0].Data.(Click).EventObject; got != "checkbox" {
		t.Errorf("event_object = %q; want checkbox", got)
	}

	click(t, page, "a")
	link := tr.History()[0].Data.(Click)
	if link.EventObject != "link" {
		t.Errorf("event_object = %q; want link", link.EventObject)
	}
	if len(link.Element.Attributes) != 2 || link.Element.Attributes["href"] != "/next" || link.Element.Attributes["data-action"] != "next" {
		t.Errorf("unexpected attributes %v", link.Element.Attributes)
	}
}

func TestClickModifiers(t *testing.T) {
	tr, page, _ := newTestTracker(t, nil)
	if err := page.Click("#go", dom.MouseState{ShiftKey: true, MetaKey: true}); err != nil {
		t.Fatal(err)
	}
	m := tr.History()[0].Data.(Click).Modifiers
	if m != (Modifiers{ShiftKey: true, MetaKey: true}) {
		t.Errorf("unexpected modifiers %+v", m)
	}
}

func TestClickCapturedDespiteStopPropagation(t *testing.T) {
	tr, page, _ := newTestTracker(t, nil)
	page.Document().AddEventListener(dom.Click, func(ev dom.Event) { ev.StopPropagation() }, false)

	click(t, page, "#go")

	if tr.Stats().EventTypes[KindClick] != 1 {
		t.Error("expected click to be recorded although a page handler stopped propagation")
	}
}

func TestClickWithoutTarget(t *testing.T) {
	tr, page, _ := newTestTracker(t, nil)

	page.DispatchDocumentEvent(dom.NewMouseEvent(dom.Click, nil, []any{struct{}{}}, dom.MouseState{}))

	c := tr.History()[0].Data.(Click)
	if c.EventObject != "unknown" || c.Element.Tag != "" || c.Element.ID != nil {
		t.Errorf("unexpected degraded record %+v", c)
	}
	if len(c.Path) != 1 || c.Path[0] != "unknown" {
		t.Errorf("unexpected path %v", c.Path)
	}
}

func TestHashNavigation(t *testing.T) {
	tr, page, _ := newTestTracker(t, nil)

	page.NavigateHash("#b")

	stats := tr.Stats()
	if stats.EventTypes[KindNavigation] != 1 {
		t.Fatalf("expected exactly one navigation record, got %d", stats.EventTypes[KindNavigation])
	}
	nav := tr.History()[0].Data.(HashChange)
	if nav.Hash != "#b" || nav.Event != "hashchange" {
		t.Errorf("unexpected navigation %+v", nav)
	}
	if nav.OldURL != "https://shop.example.com/items?sort=asc#a" || nav.NewURL != "https://shop.example.com/items?sort=asc#b" {
		t.Errorf("unexpected urls %q -> %q", nav.OldURL, nav.NewURL)
	}
}

func TestPopStateNavigation(t *testing.T) {
	tr, page, _ := newTestTracker(t, nil)

	page.PopState("https://shop.example.com/items?page=2", map[string]any{"page": 2})

	nav := tr.History()[0].Data.(PopState)
	if nav.URL != "https://shop.example.com/items?page=2" || nav.Event != "popstate" {
		t.Errorf("unexpected navigation %+v", nav)
	}
	if state, ok := nav.State.(map[string]any); !ok || state["page"] != 2 {
		t.Errorf("unexpected state %v", nav.State)
	}
}

func TestVisibility(t *testing.T) {
	tr, page, _ := newTestTracker(t, nil)

	page.SetHidden(true)
	page.SetHidden(false)

	history := tr.History()
	if got := history[1].Data.(Visibility).State; got != "hidden" {
		t.Errorf("first visibility state = %q; want hidden", got)
	}
	if got := history[0].Data.(Visibility).State; got != "visible" {
		t.Errorf("second visibility state = %q; want visible", got)
	}
}

func TestClearHistoryKeepsCounter(t *testing.T) {
	tr, page, buf := newTestTracker(t, nil)
	for i := 0; i < 4; i++ {
		click(t, page, "#go")
	}
	if tr.Stats().TotalEvents != 5 {
		t.Fatalf("expected 5 events, got %d", tr.Stats().TotalEvents)
	}

	tr.ClearHistory()

	stats := tr.Stats()
	if stats.HistorySize != 0 || len(stats.EventTypes) != 0 {
		t.Errorf("expected empty history after clear, got %+v", stats)
	}
	if stats.TotalEvents != 5 {
		t.Errorf("expected counter to survive clear, got %d", stats.TotalEvents)
	}
	if !strings.Contains(buf.String(), "Event history cleared") {
		t.Error("expected clear notice on the console")
	}

	click(t, page, "#go")
	if got := tr.History()[0].Sequence; got != 6 {
		t.Errorf("expected next record to be number 6, got %d", got)
	}
	if page.Document().ListenerCount(dom.Click) != 1 {
		t.Error("clear must not touch the listeners")
	}
}

func TestHistoryBoundedThroughTracker(t *testing.T) {
	tr, page, _ := newTestTracker(t, nil)
	for i := 0; i < 100; i++ {
		click(t, page, "#go")
	}

	stats := tr.Stats()
	if stats.TotalEvents != 101 || stats.HistorySize != 100 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.EventTypes[KindPageView] != 0 {
		t.Error("expected the page view to be evicted")
	}
}

func TestProjectorReceivesClicksOnly(t *testing.T) {
	rows := &rowCollector{}
	_, page, _ := newTestTracker(t, rows)

	click(t, page, "#go")
	page.NavigateHash("#b")
	page.SetHidden(true)
	click(t, page, "#agree")

	if len(rows.rows) != 2 {
		t.Fatalf("expected 2 projected rows, got %d", len(rows.rows))
	}
	first := rows.rows[0]
	if first.Sequence != 2 || first.ObjectType != "button" || first.Tag != "button" || first.Text != "Go" || !first.Time.Equal(fixedTime) {
		t.Errorf("unexpected row %+v", first)
	}
	if rows.rows[1].Sequence != 5 {
		t.Errorf("expected second row to carry sequence 5, got %d", rows.rows[1].Sequence)
	}
}

func TestTraceFormat(t *testing.T) {
	_, page, buf := newTestTracker(t, nil)

	out := buf.String()
	for _, line := range []string{
		"[1] PAGE_VIEW",
		"  URL: https://shop.example.com/items?sort=asc#a",
		"  Title: Shop",
		"  Referrer: Direct",
		"  Viewport: 800x600",
	} {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("expected page view trace to contain %q\n%s", line, out)
		}
	}

	buf.Reset()
	click(t, page, "a")
	out = buf.String()
	for _, line := range []string{
		"[2] CLICK",
		"  Event Object: link",
		"  Element: <a>",
		"  Text: Next",
		"  Position: (12, 34)",
		`  Attributes: {"data-action":"next","href":"/next"}`,
		"  Timestamp: 2024-03-01T12:00:00.000Z",
	} {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("expected click trace to contain %q\n%s", line, out)
		}
	}
	if strings.Contains(out, "  ID:") || strings.Contains(out, "  Class:") {
		t.Errorf("expected empty id and class to be skipped\n%s", out)
	}

	buf.Reset()
	page.SetHidden(true)
	expected := "[3] VISIBILITY\n" +
		"  Timestamp: 2024-03-01T12:00:00.000Z\n" +
		`  Full Data: {"type":"visibility_change","state":"hidden","timestamp":"2024-03-01T12:00:00.000Z"}` + "\n"
	if buf.String() != expected {
		t.Errorf("unexpected visibility trace\n got: %q\nwant: %q", buf.String(), expected)
	}
}

func TestSessionAndCommands(t *testing.T) {
	tr, _, buf := newTestTracker(t, nil)
	if tr.Session() == "" {
		t.Error("expected a session id")
	}
	other := New(nil, Options{})
	if other.Session() == tr.Session() {
		t.Error("expected distinct session ids")
	}

	buf.Reset()
	tr.PrintCommands([]Command{{Name: "stats", Help: "Get event statistics"}})
	if !strings.Contains(buf.String(), "stats - Get event statistics") {
		t.Errorf("unexpected command listing %q", buf.String())
	}
}
