package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageOptions describe the browsing context a static page is shown in.
type PageOptions struct {
	URL       string
	Referrer  string
	UserAgent string
	Viewport  Viewport
}

// Page is a static HTML document held in memory. It implements Host and
// lets callers drive user interactions against it.
type Page struct {
	*Events
	doc       *goquery.Document
	location  Location
	referrer  string
	userAgent string
	viewport  Viewport
	hidden    bool
}

func NewPage(r io.Reader, opts PageOptions) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return &Page{
		Events:    NewEvents(),
		doc:       doc,
		location:  ParseLocation(opts.URL),
		referrer:  opts.Referrer,
		userAgent: opts.UserAgent,
		viewport:  opts.Viewport,
	}, nil
}

func NewPageFromString(s string, opts PageOptions) (*Page, error) {
	return NewPage(strings.NewReader(s), opts)
}

// Doc gives access to the underlying goquery document.
func (p *Page) Doc() *goquery.Document { return p.doc }

func (p *Page) Location() Location { return p.location }
func (p *Page) Referrer() string   { return p.referrer }
func (p *Page) UserAgent() string  { return p.userAgent }
func (p *Page) Viewport() Viewport { return p.viewport }
func (p *Page) Hidden() bool       { return p.hidden }

func (p *Page) Title() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}

// ElementByID returns the selection of the first element with the given
// id. The selection is empty if there is none.
func (p *Page) ElementByID(id string) *goquery.Selection {
	return p.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	}).First()
}

// HTML renders the current state of the document.
func (p *Page) HTML() (string, error) {
	return goquery.OuterHtml(p.doc.Selection)
}

// Click dispatches a click on the first element matching selector.
func (p *Page) Click(selector string, state MouseState) error {
	sel := p.doc.Find(selector)
	if sel.Length() == 0 {
		return fmt.Errorf("%w: %s", ErrNoMatch, selector)
	}
	node := sel.Get(0)
	ev := NewMouseEvent(Click, NewNodeElement(node), EventPath(node), state)
	p.DispatchDocumentEvent(ev)
	return nil
}

// SetHidden changes the visibility state. An event is only dispatched if
// the state actually changes.
func (p *Page) SetHidden(hidden bool) {
	if p.hidden == hidden {
		return
	}
	p.hidden = hidden
	p.DispatchDocumentEvent(NewEvent(VisibilityChange))
}

// NavigateHash moves to another fragment of the page. Like a browser it
// does not fire hashchange when the fragment stays the same.
func (p *Page) NavigateHash(hash string) {
	next := p.location.WithHash(hash)
	if next.Href == p.location.Href {
		return
	}
	old := p.location
	p.location = next
	p.DispatchWindowEvent(NewHashChangeEvent(old.Href, next.Href))
}

// PopState simulates a history traversal to href with the given state.
// An empty href keeps the current location.
func (p *Page) PopState(href string, state any) {
	if href != "" {
		p.location = ParseLocation(href)
	}
	p.DispatchWindowEvent(NewPopStateEvent(state))
}
