package replay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jakopako/pagetrace/internal/dom"
	"github.com/jakopako/pagetrace/internal/fetch"
	"github.com/jakopako/pagetrace/internal/log"
)

// Load fetches the document of the script and returns it as a page.
func (s *Script) Load(ctx context.Context, f fetch.Fetcher) (*dom.Page, error) {
	source := s.Page.URL
	if s.Page.File != "" {
		f = fetch.NewFileFetcher(&fetch.FetcherConfig{})
		source = s.Page.File
	}
	content, err := f.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %s: %w", source, err)
	}
	return dom.NewPageFromString(content, dom.PageOptions{
		URL:       s.Page.URL,
		Referrer:  s.Page.Referrer,
		UserAgent: s.Page.UserAgent,
		Viewport:  s.Page.Viewport,
	})
}

// Run applies the steps to page one after the other. It stops at the
// first step that can't be applied.
func Run(ctx context.Context, page *dom.Page, steps []Step) error {
	logger := log.LoggerFromContext(ctx).With(slog.String("component", "replay"))
	for j, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Debug(fmt.Sprintf("processing step nr %d, type %s", j, step.Type))
		if err := apply(page, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", j, step.Type, err)
		}
	}
	logger.Debug(fmt.Sprintf("replayed %d steps", len(steps)))
	return nil
}

func apply(page *dom.Page, step Step) error {
	switch step.Type {
	case StepTypeClick:
		state, err := step.mouseState()
		if err != nil {
			return err
		}
		count := 1 // default is 1
		if step.Count > 0 {
			count = step.Count
		}
		for i := 0; i < count; i++ {
			if err := page.Click(step.Selector, state); err != nil {
				return err
			}
		}
	case StepTypeHide:
		page.SetHidden(true)
	case StepTypeShow:
		page.SetHidden(false)
	case StepTypeHash:
		page.NavigateHash(step.Hash)
	case StepTypeBack:
		page.PopState(step.URL, step.State)
	default:
		return fmt.Errorf("unknown step type %q", step.Type)
	}
	return nil
}
