// Package tui shows the visual log and the console trace in a terminal
// dashboard.
package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/jakopako/pagetrace/internal/panel"
	"github.com/jakopako/pagetrace/internal/tracker"
	"github.com/jakopako/pagetrace/internal/utils"
	"github.com/rivo/tview"
)

var headers = []string{"#", "Type", "Element", "Text", "Time"}

// Dashboard is a projector rendering rows into a table above a pane with
// the console trace. Pressing c calls the clear function, which is
// expected to reset the dashboard and clear the history.
type Dashboard struct {
	app    *tview.Application
	table  *tview.Table
	trace  *tview.TextView
	writer *traceWriter
	locale string

	onClear func()

	mu      sync.Mutex
	rows    []tracker.Row
	running bool
}

func NewDashboard(title, locale string, onClear func()) *Dashboard {
	if locale == "" {
		locale = panel.DefaultLocale
	}
	d := &Dashboard{
		app:     tview.NewApplication(),
		table:   tview.NewTable().SetBorders(true),
		trace:   tview.NewTextView().SetDynamicColors(true).SetScrollable(true),
		locale:  locale,
		onClear: onClear,
	}
	d.table.SetTitle(" " + title + " ").SetBorder(true)
	d.trace.SetTitle(" console ").SetBorder(true)
	d.trace.SetChangedFunc(func() {
		d.trace.ScrollToEnd()
		if d.isRunning() {
			d.app.Draw()
		}
	})
	d.writer = &traceWriter{view: d.trace, w: tview.ANSIWriter(d.trace)}
	d.renderTable()
	return d
}

// Trace returns the writer the console trace goes to. It implements
// console.Clearer.
func (d *Dashboard) Trace() io.Writer {
	return d.writer
}

func (d *Dashboard) Project(r tracker.Row) {
	d.mu.Lock()
	d.rows = append([]tracker.Row{r}, d.rows...)
	if len(d.rows) > panel.MaxRows {
		d.rows = d.rows[:panel.MaxRows]
	}
	d.mu.Unlock()
	d.update(d.renderTable)
}

func (d *Dashboard) Reset() {
	d.mu.Lock()
	d.rows = nil
	d.mu.Unlock()
	d.update(d.renderTable)
}

// Rows returns the rows currently shown, newest first.
func (d *Dashboard) Rows() []tracker.Row {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]tracker.Row(nil), d.rows...)
}

func (d *Dashboard) isRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// update runs f on the ui goroutine once the application runs.
func (d *Dashboard) update(f func()) {
	if d.isRunning() {
		d.app.QueueUpdateDraw(f)
		return
	}
	f()
}

func (d *Dashboard) renderTable() {
	rows := d.Rows()
	d.table.Clear()
	for c, h := range headers {
		d.table.SetCell(0, c, tview.NewTableCell(h).
			SetTextColor(tcell.ColorBlue).
			SetAlign(tview.AlignCenter).
			SetSelectable(false))
	}
	if len(rows) == 0 {
		d.table.SetCell(1, 0, tview.NewTableCell(panel.PlaceholderText).
			SetTextColor(tcell.ColorGray).
			SetExpansion(1))
		return
	}
	for i, r := range rows {
		cells := []string{
			"#" + strconv.Itoa(r.Sequence),
			r.ObjectType,
			fmt.Sprintf("<%s>", r.Tag),
			utils.ShortenString(r.Text, 40),
			panel.TimeOfDay(r.Time, d.locale),
		}
		for c, text := range cells {
			color := tcell.ColorWhite
			if c == 0 {
				color = tcell.ColorGreen
			}
			// escape so that element text can't be read as a color tag
			d.table.SetCell(i+1, c, tview.NewTableCell(tview.Escape(text)).
				SetTextColor(color).
				SetAlign(tview.AlignLeft))
		}
	}
}

func (d *Dashboard) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape {
		d.app.Stop()
		return nil
	}
	if event.Key() == tcell.KeyRune {
		switch event.Rune() {
		case 'c':
			if d.onClear != nil {
				d.onClear()
			}
			return nil
		case 'q':
			d.app.Stop()
			return nil
		}
	}
	return event
}

// Run shows the dashboard until ctx is done or the user quits.
func (d *Dashboard) Run(ctx context.Context) error {
	help := tview.NewTextView().SetText("c: clear the log   q: quit").SetTextAlign(tview.AlignCenter)
	grid := tview.NewGrid().SetRows(-1, -1, 1).SetColumns(-1).SetBorders(false).
		AddItem(d.table, 0, 0, 1, 1, 0, 0, false).
		AddItem(d.trace, 1, 0, 1, 1, 0, 0, false).
		AddItem(help, 2, 0, 1, 1, 0, 0, false)
	grid.SetInputCapture(d.handleKey)

	d.mu.Lock()
	d.running = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
	}()

	stop := context.AfterFunc(ctx, d.app.Stop)
	defer stop()
	return d.app.SetRoot(grid, true).SetFocus(grid).Run()
}

// traceWriter feeds ansi colored console output into the trace pane.
type traceWriter struct {
	view *tview.TextView
	w    io.Writer
}

func (t *traceWriter) Write(p []byte) (int, error) {
	return t.w.Write(p)
}

func (t *traceWriter) Clear() {
	t.view.Clear()
}
