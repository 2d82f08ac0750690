package browser

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jakopako/pagetrace/internal/panel"
	"github.com/jakopako/pagetrace/internal/tracker"
)

const evaluateTimeout = 2 * time.Second

// Projector renders rows into the log container of the live page.
type Projector struct {
	session *Session
	config  panel.Config
	logger  *slog.Logger
}

func NewProjector(s *Session, cfg panel.Config) *Projector {
	if cfg.ContainerID == "" {
		cfg.ContainerID = panel.DefaultContainerID
	}
	if cfg.Locale == "" {
		cfg.Locale = panel.DefaultLocale
	}
	return &Projector{
		session: s,
		config:  cfg,
		logger:  slog.With(slog.String("component", "browser-panel")),
	}
}

type liveRow struct {
	Container        string      `json:"container"`
	PlaceholderClass string      `json:"placeholderClass"`
	Max              int         `json:"max"`
	Spans            [][2]string `json:"spans"`
}

func (p *Projector) rowScript(r tracker.Row) (string, error) {
	row := liveRow{
		Container:        p.config.ContainerID,
		PlaceholderClass: panel.PlaceholderClass,
		Max:              panel.MaxRows,
		Spans: [][2]string{
			{"log-count", "#" + strconv.Itoa(r.Sequence)},
			{"log-type", r.ObjectType},
			{"log-element", "<" + r.Tag + ">"},
			{"log-text", r.Text},
			{"log-time", panel.TimeOfDay(r.Time, p.config.Locale)},
		},
	}
	b, err := json.Marshal(row)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(projectScript, b), nil
}

func (p *Projector) resetScript() (string, error) {
	id, err := json.Marshal(p.config.ContainerID)
	if err != nil {
		return "", err
	}
	html, err := json.Marshal(panel.PlaceholderHTML())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(resetScript, id, html), nil
}

func (p *Projector) Project(r tracker.Row) {
	script, err := p.rowScript(r)
	if err != nil {
		p.logger.Warn(fmt.Sprintf("failed to render row %d: %v", r.Sequence, err))
		return
	}
	p.run(script)
}

func (p *Projector) Reset() {
	script, err := p.resetScript()
	if err != nil {
		p.logger.Warn(fmt.Sprintf("failed to render reset: %v", err))
		return
	}
	p.run(script)
}

func (p *Projector) run(script string) {
	var found bool
	if err := p.session.evaluate(evaluateTimeout, script, &found); err != nil {
		p.logger.Warn(fmt.Sprintf("failed to update the log container: %v", err))
		return
	}
	if !found {
		p.logger.Debug("no log container in page", slog.String("container", p.config.ContainerID))
	}
}
