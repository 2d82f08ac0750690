package output

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/jakopako/pagetrace/internal/tracker"
)

const (
	historyFilename = "history.json"
	statsFilename   = "stats.json"
)

// FileWriter represents a writer that writes to a file
type FileWriter struct {
	*WriterConfig
	logger *slog.Logger
}

// NewFileWriter returns a new FileWriter
func NewFileWriter(wc *WriterConfig) (*FileWriter, error) {
	if wc.FileDir == "" {
		return nil, errors.New("filedir needs to be specified for the FileWriter")
	}

	if err := os.MkdirAll(wc.FileDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", wc.FileDir, err)
	}

	return &FileWriter{
		WriterConfig: wc,
		logger:       slog.With(slog.String("writer", string(FILE_WRITER_TYPE))),
	}, nil
}

func (w *FileWriter) Write(recordChan <-chan tracker.Record) error {
	all := []tracker.Record{}
	for r := range recordChan {
		all = append(all, r)
	}
	filepath := path.Join(w.FileDir, historyFilename)
	if err := w.writeJSON(filepath, all); err != nil {
		return err
	}
	w.logger.Info(fmt.Sprintf("wrote %d records to file %s", len(all), filepath))
	return nil
}

func (w *FileWriter) WriteStats(stats tracker.Stats) error {
	filepath := path.Join(w.FileDir, statsFilename)
	if err := w.writeJSON(filepath, stats); err != nil {
		return err
	}
	w.logger.Info(fmt.Sprintf("wrote stats to file %s", filepath))
	return nil
}

func (w *FileWriter) writeJSON(filepath string, v any) error {
	b, err := marshal(v)
	if err != nil {
		return fmt.Errorf("error while encoding %s: %w", filepath, err)
	}
	if err := os.WriteFile(filepath, b, 0644); err != nil {
		return fmt.Errorf("error while writing file %s: %w", filepath, err)
	}
	return nil
}
