package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/jakopako/pagetrace/internal/output"
	"github.com/jakopako/pagetrace/internal/tracker"
	"github.com/olekukonko/tablewriter"
)

// resettingProjector is a visual log that can be put back to its empty
// state by the clear trigger.
type resettingProjector interface {
	tracker.Projector
	Reset()
}

// projectors fans rows out to several visual logs.
type projectors []resettingProjector

func (ps projectors) Project(r tracker.Row) {
	for _, p := range ps {
		p.Project(r)
	}
}

func (ps projectors) Reset() {
	for _, p := range ps {
		p.Reset()
	}
}

// finish exports what the tracker holds once no more events arrive.
func finish(tr *tracker.Tracker, wc *output.WriterConfig, dump, summary bool) error {
	if dump {
		writer, err := output.NewWriter(wc)
		if err != nil {
			slog.Error(err.Error())
			return err
		}
		if err := writer.Write(output.Send(tr.History())); err != nil {
			slog.Error(fmt.Sprintf("error while writing history: %v", err))
			return err
		}
		if err := writer.WriteStats(tr.Stats()); err != nil {
			slog.Error(fmt.Sprintf("error while writing stats: %v", err))
			return err
		}
	}
	if summary {
		printStats(os.Stdout, tr.Stats())
	}
	return nil
}

func printStats(w io.Writer, stats tracker.Stats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Type", "Records"})

	for _, k := range tracker.Kinds {
		n := stats.EventTypes[k]
		row := []string{string(k), strconv.Itoa(n)}
		if n == 0 {
			table.Rich(row, []tablewriter.Colors{{tablewriter.Normal, tablewriter.FgYellowColor}, {tablewriter.Normal, tablewriter.FgYellowColor}})
		} else {
			table.Append(row)
		}
	}
	table.SetFooter([]string{"history / total", fmt.Sprintf("%d / %d", stats.HistorySize, stats.TotalEvents)})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.SetBorder(false)
	table.Render()
}
