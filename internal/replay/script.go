// Package replay drives a static page through a scripted sequence of
// user interactions.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jakopako/pagetrace/internal/dom"
	"gopkg.in/yaml.v3"
)

type StepType string

const (
	StepTypeClick StepType = "click"
	StepTypeHide  StepType = "hide"
	StepTypeShow  StepType = "show"
	StepTypeHash  StepType = "hash"
	StepTypeBack  StepType = "back"
)

// Step represents a simple user interaction with a page
type Step struct {
	Type      StepType `yaml:"type"`
	Selector  string   `yaml:"selector,omitempty"`
	Count     int      `yaml:"count,omitempty"`
	X         float64  `yaml:"x,omitempty"`
	Y         float64  `yaml:"y,omitempty"`
	PageX     float64  `yaml:"page_x,omitempty"`
	PageY     float64  `yaml:"page_y,omitempty"`
	Modifiers []string `yaml:"modifiers,omitempty"`
	Hash      string   `yaml:"hash,omitempty"`
	URL       string   `yaml:"url,omitempty"`
	State     any      `yaml:"state,omitempty"`
}

// PageSpec describes the document a script runs against. If File is set
// the document is read from there, otherwise it is fetched from URL.
type PageSpec struct {
	URL       string       `yaml:"url"`
	File      string       `yaml:"file,omitempty"`
	Referrer  string       `yaml:"referrer,omitempty"`
	UserAgent string       `yaml:"user_agent,omitempty"`
	Viewport  dom.Viewport `yaml:"viewport,omitempty"`
}

type Script struct {
	Page  PageSpec `yaml:"page"`
	Steps []Step   `yaml:"steps"`
}

var errEmptyScript = errors.New("script has no page url")

// ParseScript decodes a yml script and validates its steps.
func ParseScript(b []byte) (*Script, error) {
	var s Script
	decoder := yaml.NewDecoder(bytes.NewReader(b))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if s.Page.URL == "" {
		return nil, errEmptyScript
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return &s, nil
}

// ReadScript reads the script at path. A relative page file is resolved
// against the directory of the script.
func ReadScript(path string) (*Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	s, err := ParseScript(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Page.File != "" && !filepath.IsAbs(s.Page.File) {
		s.Page.File = filepath.Join(filepath.Dir(path), s.Page.File)
	}
	return s, nil
}

func (s Step) validate() error {
	switch s.Type {
	case StepTypeClick:
		if s.Selector == "" {
			return errors.New("click without selector")
		}
		if s.Count < 0 {
			return fmt.Errorf("invalid count %d", s.Count)
		}
		if _, err := s.mouseState(); err != nil {
			return err
		}
	case StepTypeHide, StepTypeShow, StepTypeHash, StepTypeBack:
	default:
		return fmt.Errorf("unknown step type %q", s.Type)
	}
	return nil
}

func (s Step) mouseState() (dom.MouseState, error) {
	state := dom.MouseState{ClientX: s.X, ClientY: s.Y, PageX: s.PageX, PageY: s.PageY}
	if state.PageX == 0 && state.PageY == 0 {
		state.PageX, state.PageY = s.X, s.Y
	}
	for _, m := range s.Modifiers {
		switch m {
		case "ctrl":
			state.CtrlKey = true
		case "alt":
			state.AltKey = true
		case "shift":
			state.ShiftKey = true
		case "meta":
			state.MetaKey = true
		default:
			return state, fmt.Errorf("unknown modifier %q", m)
		}
	}
	return state, nil
}
