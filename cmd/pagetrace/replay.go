package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jakopako/pagetrace/internal/config"
	"github.com/jakopako/pagetrace/internal/console"
	"github.com/jakopako/pagetrace/internal/fetch"
	"github.com/jakopako/pagetrace/internal/log"
	"github.com/jakopako/pagetrace/internal/panel"
	"github.com/jakopako/pagetrace/internal/replay"
	"github.com/jakopako/pagetrace/internal/tracker"
)

type ReplayCmd struct {
	Script  string `short:"s" long:"script" help:"The replay script to run." required:"" type:"existingfile"`
	Config  string `short:"c" long:"config" default:"./config.yaml" help:"The location of the configuration file."`
	Dump    bool   `long:"dump" help:"Write the event history to the configured writer when done."`
	Summary bool   `long:"summary" help:"Print a summary of the tracked events when done."`
	PageOut string `long:"page-out" help:"Write the resulting page, including the visual log, to this file."`
}

func (r *ReplayCmd) Run() error {
	cfg, err := config.NewConfig(r.Config)
	if err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		return err
	}
	script, err := replay.ReadScript(r.Script)
	if err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = log.ContextWithLogger(ctx, slog.With(slog.String("script", r.Script)))

	fetcher, err := fetch.NewFetcher(&cfg.Fetcher)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	defer fetcher.Cancel()

	page, err := script.Load(ctx, fetcher)
	if err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		return err
	}

	doc := panel.NewDocument(page, cfg.Panel)
	tr := tracker.New(page, tracker.Options{
		Console:   console.New(os.Stdout, cfg.Console.Color),
		Projector: doc,
	})
	if err := tr.Start(); err != nil {
		return err
	}
	panel.BindClearTrigger(page, cfg.Panel.TriggerID, doc, tr)

	if err := replay.Run(ctx, page, script.Steps); err != nil {
		slog.Error(fmt.Sprintf("replay aborted: %v", err))
		return err
	}
	slog.Info(fmt.Sprintf("replayed %d steps", len(script.Steps)))

	if r.PageOut != "" {
		html, err := page.HTML()
		if err != nil {
			return fmt.Errorf("failed to render page: %w", err)
		}
		if err := os.WriteFile(r.PageOut, []byte(html), 0644); err != nil {
			slog.Error(fmt.Sprintf("error writing page: %v", err))
			return err
		}
		slog.Info(fmt.Sprintf("wrote page to file %s", r.PageOut))
	}
	return finish(tr, &cfg.Writer, r.Dump, r.Summary)
}
