package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/jakopako/pagetrace/internal/browser"
	"github.com/jakopako/pagetrace/internal/config"
	"github.com/jakopako/pagetrace/internal/console"
	"github.com/jakopako/pagetrace/internal/log"
	"github.com/jakopako/pagetrace/internal/output"
	"github.com/jakopako/pagetrace/internal/panel"
	"github.com/jakopako/pagetrace/internal/tracker"
	"github.com/jakopako/pagetrace/internal/tui"
)

var watchCommands = []tracker.Command{
	{Name: "stats", Help: "Get event statistics"},
	{Name: "history", Help: "View all tracked events"},
	{Name: "clear", Help: "Clear event history"},
	{Name: "help", Help: "Show this list"},
}

type WatchCmd struct {
	URL     string `short:"u" long:"url" help:"The URL of the page to watch." required:""`
	Config  string `short:"c" long:"config" default:"./config.yaml" help:"The location of the configuration file."`
	TUI     bool   `long:"tui" help:"Show the visual log and the console trace in a terminal dashboard."`
	Dump    bool   `long:"dump" help:"Write the event history to the configured writer on exit."`
	Summary bool   `long:"summary" help:"Print a summary of the tracked events on exit."`
}

// watcher ties the trackers of the documents shown in the tab to one
// console and one visual log. Its fields are only used on the event
// loop of the session.
type watcher struct {
	cfg       *config.Config
	console   *console.Console
	projector resettingProjector
	current   *tracker.Tracker
}

func (w *watcher) onReady(p *browser.Page) {
	w.current = tracker.New(p, tracker.Options{
		Console:   w.console,
		Projector: w.projector,
	})
	if err := w.current.Start(); err != nil {
		slog.Error(err.Error())
		return
	}
	panel.BindClearTrigger(p, w.cfg.Panel.TriggerID, w.projector, w.current)
	w.current.PrintCommands(watchCommands)
}

func (w *watcher) clear() {
	w.projector.Reset()
	if w.current != nil {
		w.current.ClearHistory()
	}
}

func (w *watcher) command(line string, out io.Writer) {
	if w.current == nil {
		fmt.Fprintln(out, "no document yet")
		return
	}
	switch strings.TrimSpace(line) {
	case "stats":
		printStats(out, w.current.Stats())
	case "history":
		wr := output.NewStdoutWriter(&output.WriterConfig{})
		if err := wr.Write(output.Send(w.current.History())); err != nil {
			slog.Error(err.Error())
		}
	case "clear":
		w.clear()
	case "help":
		w.current.PrintCommands(watchCommands)
	case "":
	default:
		fmt.Fprintf(out, "unknown command %q\n", line)
	}
}

func (wc *WatchCmd) Run() error {
	cfg, err := config.NewConfig(wc.Config)
	if err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	w := &watcher{cfg: cfg}
	session := browser.NewSession(cfg.Browser, w.onReady)
	live := browser.NewProjector(session, cfg.Panel)
	var dashboard *tui.Dashboard
	if wc.TUI {
		dashboard = tui.NewDashboard(wc.URL, cfg.Panel.Locale, func() {
			// the ui goroutine must not wait for the event loop
			go session.Post(w.clear)
		})
		// keep log lines from tearing up the dashboard
		log.SetDefaultOutput(dashboard.Trace())
		mode := cfg.Console.Color
		if mode == console.ColorAuto {
			mode = console.ColorAlways
		}
		w.console = console.New(dashboard.Trace(), mode)
		w.projector = projectors{live, dashboard}
	} else {
		w.console = console.New(os.Stdout, cfg.Console.Color)
		w.projector = projectors{live}
	}

	if err := session.Open(ctx, wc.URL); err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		return err
	}
	defer session.Close()

	loopErr := make(chan error, 1)
	go func() { loopErr <- session.Run(ctx) }()

	if wc.TUI {
		err = dashboard.Run(ctx)
		cancel()
		<-loopErr
		log.SetDefaultOutput(os.Stdout)
	} else {
		go readCommands(os.Stdin, session, w)
		err = <-loopErr
	}
	if err != nil && !errors.Is(err, browser.ErrClosed) {
		slog.Error(fmt.Sprintf("%v", err))
		return err
	}

	// the loop has stopped, the tracker is ours now
	if w.current == nil {
		slog.Warn("no document was tracked")
		return nil
	}
	return finish(w.current, &cfg.Writer, wc.Dump, wc.Summary)
}

func readCommands(r io.Reader, s *browser.Session, w *watcher) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !s.Post(func() { w.command(line, os.Stdout) }) {
			return
		}
	}
}
