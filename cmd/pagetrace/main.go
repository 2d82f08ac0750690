/*
pagetrace observes the clicks, page views, visibility changes and
navigation events of a single document and prints them as a structured
console trace.

It either replays a scripted session against a static page or watches a
live page in chrome.
*/
package main

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/alecthomas/kong"
	"github.com/jakopako/pagetrace/internal/log"
	"github.com/jakopako/pagetrace/internal/tracker"
)

var version = "dev"

type VersionFlag string

func (v VersionFlag) Decode(_ *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                       { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

type cli struct {
	Version VersionFlag `short:"v" long:"version" help:"Print the version and exit."`
	Debug   bool        `short:"d" long:"debug" help:"Set log level to 'debug'."`

	Replay   ReplayCmd   `cmd:"" help:"Replay a scripted session against a static page."`
	Watch    WatchCmd    `cmd:"" help:"Watch the interactions with a live page in chrome."`
	Classify ClassifyCmd `cmd:"" help:"Print the event object type of an element."`
}

type ClassifyCmd struct {
	Tag  string `arg:"" help:"The tag name of the element, eg. 'input'."`
	Type string `arg:"" optional:"" help:"The type attribute of an input element."`
}

func (c *ClassifyCmd) Run() error {
	fmt.Println(tracker.Classify(c.Tag, c.Type))
	return nil
}

func getVersion() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if ok {
		if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
			return buildInfo.Main.Version
		}
	}
	return version
}

func main() {
	cli := cli{
		Version: VersionFlag(getVersion()),
	}

	ctx := kong.Parse(&cli,
		kong.Name("pagetrace"),
		kong.Vars{
			"version": string(cli.Version),
		})

	log.Debug = cli.Debug
	log.InitializeDefaultLogger()
	slog.Debug("starting", slog.String("version", string(cli.Version)))

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
