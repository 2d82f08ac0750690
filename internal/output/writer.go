// Package output provides the interface, configuration and implementations
// of the writers that export the event history of a session.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jakopako/pagetrace/internal/tracker"
)

// Writer writes the records it receives to a specific output. Records
// arrive newest first, the way the history holds them.
type Writer interface {
	Write(recordChan <-chan tracker.Record) error
	WriteStats(stats tracker.Stats) error
}

// WriterConfig defines the necessary parameters to make a new writer.
type WriterConfig struct {
	Type    WriterType `yaml:"type" env:"WRITER_TYPE" env-default:"stdout"`
	FileDir string     `yaml:"filedir" env:"WRITER_FILEDIR"`
}

// WriterType encapsulates the type of a writer
// See below constants for possible types
type WriterType string

const (
	STDOUT_WRITER_TYPE WriterType = "stdout"
	FILE_WRITER_TYPE   WriterType = "file"
)

// NewWriter returns a new writer depending on the writer type
func NewWriter(wc *WriterConfig) (Writer, error) {
	switch wc.Type {
	case STDOUT_WRITER_TYPE, "":
		return NewStdoutWriter(wc), nil
	case FILE_WRITER_TYPE:
		return NewFileWriter(wc)
	default:
		return nil, fmt.Errorf("writer of type '%s' not implemented", wc.Type)
	}
}

// Send feeds records into a channel that is closed afterwards.
func Send(records []tracker.Record) <-chan tracker.Record {
	c := make(chan tracker.Record, len(records))
	for _, r := range records {
		c <- r
	}
	close(c)
	return c
}

// marshal encodes v as indented json. json.MarshalIndent would replace
// html characters like < and > in element text.
func marshal(v any) ([]byte, error) {
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	var indentBuffer bytes.Buffer
	if err := json.Indent(&indentBuffer, buffer.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return indentBuffer.Bytes(), nil
}
