// Package console renders a grouped, colored, human readable trace to an
// io.Writer, in the spirit of a browser's developer console.
package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// ColorMode decides whether styling escape codes are written.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Clearer is implemented by writers that can wipe what was written to
// them so far, eg. a dashboard pane.
type Clearer interface {
	Clear()
}

type Console struct {
	mu    sync.Mutex
	w     io.Writer
	mode  ColorMode
	depth int
}

func New(w io.Writer, mode ColorMode) *Console {
	if mode == "" {
		mode = ColorAuto
	}
	return &Console{w: w, mode: mode}
}

func (c *Console) style(attrs ...color.Attribute) *color.Color {
	col := color.New(attrs...)
	switch c.mode {
	case ColorAlways:
		col.EnableColor()
	case ColorNever:
		col.DisableColor()
	}
	return col
}

func (c *Console) indent() string {
	return strings.Repeat("  ", c.depth)
}

// Group starts an indented block headed by label.
func (c *Console) Group(label string, attrs ...color.Attribute) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s%s\n", c.indent(), c.style(attrs...).Sprint(label))
	c.depth++
}

// GroupEnd closes the innermost group.
func (c *Console) GroupEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.depth > 0 {
		c.depth--
	}
}

// Styled writes a single styled line.
func (c *Console) Styled(text string, attrs ...color.Attribute) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s%s\n", c.indent(), c.style(attrs...).Sprint(text))
}

// Field writes a bold label followed by the formatted value.
func (c *Console) Field(label string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s%s %s\n", c.indent(), c.style(color.Bold).Sprint(label), Format(value))
}

// Clear wipes the console if the writer supports it. Plain writers get
// a marker line instead, like a browser console that cannot be cleared.
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.depth = 0
	if cl, ok := c.w.(Clearer); ok {
		cl.Clear()
		return
	}
	if c.mode == ColorAlways || (c.mode == ColorAuto && !color.NoColor) {
		fmt.Fprint(c.w, "\x1b[H\x1b[2J")
		return
	}
	fmt.Fprintln(c.w, "Console was cleared")
}

// Format renders strings verbatim and everything else as compact JSON.
func Format(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	// json.Marshal would replace html characters with their unicode
	// escapes, which makes element text unreadable.
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return fmt.Sprintf("%v", value)
	}
	return strings.TrimSuffix(buffer.String(), "\n")
}
