package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jakopako/pagetrace/internal/tracker"
)

// StdoutWriter represents a writer that writes to stdout
type StdoutWriter struct {
	out    io.Writer
	logger *slog.Logger
}

// NewStdoutWriter returns a new StdoutWriter
func NewStdoutWriter(wc *WriterConfig) *StdoutWriter {
	return &StdoutWriter{
		out:    os.Stdout,
		logger: slog.With(slog.String("writer", string(STDOUT_WRITER_TYPE))),
	}
}

func (w *StdoutWriter) Write(recordChan <-chan tracker.Record) error {
	n := 0
	for r := range recordChan {
		b, err := marshal(r)
		if err != nil {
			return fmt.Errorf("error while encoding record %d: %w", r.Sequence, err)
		}
		if _, err := w.out.Write(b); err != nil {
			return err
		}
		n++
	}
	w.logger.Debug(fmt.Sprintf("printed %d records", n))
	return nil
}

func (w *StdoutWriter) WriteStats(stats tracker.Stats) error {
	b, err := marshal(stats)
	if err != nil {
		return fmt.Errorf("error while encoding stats: %w", err)
	}
	_, err = w.out.Write(b)
	return err
}
