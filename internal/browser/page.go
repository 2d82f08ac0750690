package browser

import (
	"github.com/jakopako/pagetrace/internal/dom"
)

// Page mirrors one document of the live browser tab. Its state is the
// one reported by the most recent message.
type Page struct {
	*dom.Events
	state DocState
}

func newPage(state DocState) *Page {
	return &Page{Events: dom.NewEvents(), state: state}
}

func (p *Page) update(state DocState) {
	p.state = state
}

func (p *Page) Location() dom.Location {
	return dom.Location{
		Href:     p.state.Href,
		Pathname: p.state.Pathname,
		Search:   p.state.Search,
		Hash:     p.state.Hash,
	}
}

func (p *Page) Title() string     { return p.state.Title }
func (p *Page) Referrer() string  { return p.state.Referrer }
func (p *Page) UserAgent() string { return p.state.UserAgent }
func (p *Page) Hidden() bool      { return p.state.Hidden }

func (p *Page) Viewport() dom.Viewport {
	return dom.Viewport{Width: p.state.Width, Height: p.state.Height}
}
