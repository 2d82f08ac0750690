// Package panel projects click records into the event log container of
// a static page and wires the control that clears it.
package panel

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/goodsign/monday"
	"github.com/jakopako/pagetrace/internal/dom"
	"github.com/jakopako/pagetrace/internal/tracker"
	"golang.org/x/net/html"
)

const (
	DefaultContainerID = "eventLog"
	DefaultTriggerID   = "clearLog"
	DefaultLocale      = string(monday.LocaleEnUS)

	// MaxRows is the number of rows a visual log shows at once.
	MaxRows = 10

	PlaceholderClass = "log-placeholder"
	PlaceholderText  = "Events will appear here..."
)

// Config names the host collaborators and the locale rows are shown in.
type Config struct {
	ContainerID string `yaml:"container_id" env:"PANEL_CONTAINER_ID" env-default:"eventLog"`
	TriggerID   string `yaml:"trigger_id" env:"PANEL_TRIGGER_ID" env-default:"clearLog"`
	Locale      string `yaml:"locale" env:"PANEL_LOCALE" env-default:"en_US"`
}

func (c Config) withDefaults() Config {
	if c.ContainerID == "" {
		c.ContainerID = DefaultContainerID
	}
	if c.TriggerID == "" {
		c.TriggerID = DefaultTriggerID
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	return c
}

// locales using a 12 hour clock for the time of day
var twelveHourLocales = []monday.Locale{monday.LocaleEnUS}

// TimeOfDay formats t for the given locale. Unsupported locales fall
// back to en_US.
func TimeOfDay(t time.Time, locale string) string {
	l := monday.Locale(locale)
	if !slices.Contains(monday.ListLocales(), l) {
		l = monday.LocaleEnUS
	}
	layout := "15:04:05"
	if slices.Contains(twelveHourLocales, l) {
		layout = "3:04:05 PM"
	}
	return monday.Format(t, layout, l)
}

// RowHTML renders a row as a log entry. All text is escaped.
func RowHTML(r tracker.Row, locale string) string {
	return fmt.Sprintf(`<div class="log-entry">`+
		`<span class="log-count">#%d</span>`+
		`<span class="log-type">%s</span>`+
		`<span class="log-element">&lt;%s&gt;</span>`+
		`<span class="log-text">%s</span>`+
		`<span class="log-time">%s</span>`+
		`</div>`,
		r.Sequence,
		html.EscapeString(r.ObjectType),
		html.EscapeString(r.Tag),
		html.EscapeString(r.Text),
		html.EscapeString(TimeOfDay(r.Time, locale)))
}

// PlaceholderHTML is what an empty log container shows.
func PlaceholderHTML() string {
	return fmt.Sprintf(`<p class="%s">%s</p>`, PlaceholderClass, PlaceholderText)
}

// Document is the visual log of a static page. The container is looked
// up on every call, if it does not exist nothing happens.
type Document struct {
	page   *dom.Page
	config Config
	logger *slog.Logger
}

func NewDocument(page *dom.Page, cfg Config) *Document {
	return &Document{
		page:   page,
		config: cfg.withDefaults(),
		logger: slog.With(slog.String("component", "panel")),
	}
}

func (d *Document) Project(r tracker.Row) {
	container := d.page.ElementByID(d.config.ContainerID)
	if container.Length() == 0 {
		d.logger.Debug("no log container, skipping row", slog.String("container", d.config.ContainerID))
		return
	}
	container.Find("." + PlaceholderClass).First().Remove()
	container.PrependHtml(RowHTML(r, d.config.Locale))
	for container.Children().Length() > MaxRows {
		container.Children().Last().Remove()
	}
}

// Reset empties the container and puts the placeholder back.
func (d *Document) Reset() {
	container := d.page.ElementByID(d.config.ContainerID)
	if container.Length() == 0 {
		return
	}
	container.SetHtml(PlaceholderHTML())
}

// Rows returns the number of rows currently shown.
func (d *Document) Rows() int {
	return d.page.ElementByID(d.config.ContainerID).Find(".log-entry").Length()
}
