package replay

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jakopako/pagetrace/internal/console"
	"github.com/jakopako/pagetrace/internal/dom"
	"github.com/jakopako/pagetrace/internal/fetch"
	"github.com/jakopako/pagetrace/internal/panel"
	"github.com/jakopako/pagetrace/internal/tracker"
)

const demoPage = `<html>
<head><title>Demo</title></head>
<body>
	<nav><a href="#about" class="nav-link">About</a></nav>
	<button id="buy" class="btn" data-action="buy">Buy now</button>
	<button id="clearLog">Clear</button>
	<div id="eventLog"><p class="log-placeholder">Events will appear here...</p></div>
</body>
</html>`

const demoScript = `page:
  url: https://demo.example.com/
  referrer: https://search.example.com/
  viewport:
    width: 1024
    height: 768
steps:
  - type: click
    selector: "#buy"
    x: 10
    y: 20
    modifiers: [shift]
    count: 2
  - type: click
    selector: a.nav-link
  - type: hash
    hash: about
  - type: hide
  - type: show
  - type: back
    url: https://demo.example.com/
    state:
      page: 1
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(demoScript))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Page.URL != "https://demo.example.com/" || s.Page.Viewport != (dom.Viewport{Width: 1024, Height: 768}) {
		t.Errorf("unexpected page section %+v", s.Page)
	}
	if len(s.Steps) != 6 || s.Steps[0].Count != 2 || s.Steps[0].Modifiers[0] != "shift" {
		t.Errorf("unexpected steps %+v", s.Steps)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"empty", ""},
		{"no url", "steps: []"},
		{"unknown field", "page:\n  url: x\n  colour: red"},
		{"unknown step", "page:\n  url: x\nsteps:\n  - type: scroll"},
		{"click without selector", "page:\n  url: x\nsteps:\n  - type: click"},
		{"unknown modifier", "page:\n  url: x\nsteps:\n  - type: click\n    selector: a\n    modifiers: [hyper]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScript([]byte(tt.script)); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestReplayEndToEnd(t *testing.T) {
	ctx := context.Background()
	s, err := ParseScript([]byte(demoScript))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := fetch.NewMockFetcher(&fetch.FetcherConfig{MockPages: []fetch.MockPage{{Url: "https://demo.example.com/", Content: demoPage}}})
	page, err := s.Load(ctx, f)
	if err != nil {
		t.Fatalf("failed to load page: %v", err)
	}

	buf := &bytes.Buffer{}
	doc := panel.NewDocument(page, panel.Config{})
	tr := tracker.New(page, tracker.Options{Console: console.New(buf, console.ColorNever), Projector: doc})
	if err := tr.Start(); err != nil {
		t.Fatalf("failed to start tracker: %v", err)
	}
	panel.BindClearTrigger(page, panel.DefaultTriggerID, doc, tr)

	if err := Run(ctx, page, s.Steps); err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	stats := tr.Stats()
	// page view, 3 clicks, hashchange, 2 visibility changes, popstate
	if stats.TotalEvents != 8 || stats.HistorySize != 8 {
		t.Errorf("unexpected stats %+v", stats)
	}
	expectedTypes := map[tracker.Kind]int{
		tracker.KindPageView:   1,
		tracker.KindClick:      3,
		tracker.KindNavigation: 2,
		tracker.KindVisibility: 2,
	}
	for k, v := range expectedTypes {
		if stats.EventTypes[k] != v {
			t.Errorf("expected %d %s records, got %d", v, k, stats.EventTypes[k])
		}
	}

	history := tr.History()
	pv := history[len(history)-1].Data.(tracker.PageView)
	if pv.Referrer != "https://search.example.com/" || pv.Title != "Demo" {
		t.Errorf("unexpected page view %+v", pv)
	}
	first := history[len(history)-2].Data.(tracker.Click)
	if !first.Modifiers.ShiftKey || first.Position.X != 10 || first.Position.PageY != 20 {
		t.Errorf("unexpected click %+v", first)
	}

	html, err := page.HTML()
	if err != nil {
		t.Fatalf("failed to render page: %v", err)
	}
	if strings.Contains(html, panel.PlaceholderText) {
		t.Errorf("expected the placeholder to be gone")
	}
	if n := strings.Count(html, `class="log-entry"`); n != 3 {
		t.Errorf("expected 3 rows in the page, got %d", n)
	}
	if !strings.Contains(buf.String(), "[8] NAVIGATION") {
		t.Errorf("expected the trace to contain the last record")
	}
}

func TestReplayStopsAtBadSelector(t *testing.T) {
	page, err := dom.NewPageFromString(demoPage, dom.PageOptions{URL: "https://demo.example.com/"})
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	steps := []Step{{Type: StepTypeClick, Selector: "#buy"}, {Type: StepTypeClick, Selector: "#missing"}, {Type: StepTypeHide}}
	err = Run(context.Background(), page, steps)
	if !errors.Is(err, dom.ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
	if page.Hidden() {
		t.Errorf("expected the steps after the failing one to be skipped")
	}
}

func TestReplayHonorsContext(t *testing.T) {
	page, err := dom.NewPageFromString(demoPage, dom.PageOptions{URL: "https://demo.example.com/"})
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Run(ctx, page, []Step{{Type: StepTypeHide}}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestReadScriptResolvesFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "page.html"), []byte(demoPage), 0644); err != nil {
		t.Fatalf("failed to write page: %v", err)
	}
	scriptPath := filepath.Join(dir, "script.yml")
	if err := os.WriteFile(scriptPath, []byte("page:\n  url: https://demo.example.com/\n  file: page.html\n"), 0644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	s, err := ReadScript(scriptPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page, err := s.Load(context.Background(), fetch.NewMockFetcher(&fetch.FetcherConfig{}))
	if err != nil {
		t.Fatalf("failed to load page: %v", err)
	}
	if page.Title() != "Demo" || page.Location().Href != "https://demo.example.com/" {
		t.Errorf("unexpected page %q %s", page.Title(), page.Location().Href)
	}
}
