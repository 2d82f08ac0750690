package browser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jakopako/pagetrace/internal/dom"
)

const (
	kindReady            = "ready"
	kindClick            = "click"
	kindVisibilityChange = "visibilitychange"
	kindHashChange       = "hashchange"
	kindPopState         = "popstate"
)

// DocState is the document state sent along with every message.
type DocState struct {
	Href      string `json:"href"`
	Pathname  string `json:"pathname"`
	Search    string `json:"search"`
	Hash      string `json:"hash"`
	Title     string `json:"title"`
	Referrer  string `json:"referrer"`
	Hidden    bool   `json:"hidden"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	UserAgent string `json:"userAgent"`
}

type mouseState struct {
	ClientX  float64 `json:"clientX"`
	ClientY  float64 `json:"clientY"`
	PageX    float64 `json:"pageX"`
	PageY    float64 `json:"pageY"`
	CtrlKey  bool    `json:"ctrlKey"`
	AltKey   bool    `json:"altKey"`
	ShiftKey bool    `json:"shiftKey"`
	MetaKey  bool    `json:"metaKey"`
}

// nodeSnapshot is a node of the live page as the forwarding script
// serializes it. Root is set for the window and the document only.
type nodeSnapshot struct {
	Root  string      `json:"root,omitempty"`
	Tag   string      `json:"tag,omitempty"`
	Attrs [][2]string `json:"attrs,omitempty"`
	Text  string      `json:"text,omitempty"`
}

// hop converts the snapshot into an entry of a dom event path.
func (n nodeSnapshot) hop() any {
	switch n.Root {
	case "window":
		return dom.WindowRoot
	case "document":
		return dom.DocumentRoot
	}
	if n.Tag == "" {
		return n
	}
	return &element{snapshot: n}
}

// element is a dom.Element backed by a snapshot.
type element struct {
	snapshot nodeSnapshot
}

func (e *element) TagName() string     { return e.snapshot.Tag }
func (e *element) TextContent() string { return e.snapshot.Text }

func (e *element) Attributes() []dom.Attr {
	attrs := make([]dom.Attr, 0, len(e.snapshot.Attrs))
	for _, a := range e.snapshot.Attrs {
		attrs = append(attrs, dom.Attr{Name: a[0], Value: a[1]})
	}
	return attrs
}

func (e *element) ClassList() []string {
	class, _ := dom.Attribute(e, "class")
	return strings.Fields(class)
}

// Message is one observation forwarded from the live page.
type Message struct {
	Kind   string         `json:"kind"`
	Doc    DocState       `json:"doc"`
	Target *nodeSnapshot  `json:"target"`
	Path   []nodeSnapshot `json:"path"`
	Mouse  mouseState     `json:"mouse"`
	OldURL string         `json:"oldURL"`
	NewURL string         `json:"newURL"`
	State  any            `json:"state"`
}

func decodeMessage(payload string) (Message, error) {
	var m Message
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return m, fmt.Errorf("failed to decode browser message: %w", err)
	}
	if m.Kind == "" {
		return m, fmt.Errorf("browser message without kind: %s", payload)
	}
	return m, nil
}

func (m Message) target() dom.Element {
	if m.Target == nil || m.Target.Tag == "" {
		return nil
	}
	return &element{snapshot: *m.Target}
}

func (m Message) path() []any {
	path := make([]any, 0, len(m.Path))
	for _, n := range m.Path {
		path = append(path, n.hop())
	}
	return path
}

// dispatch replays the message on p. Ready messages are handled by the
// session and never reach a page.
func (m Message) dispatch(p *Page) error {
	switch m.Kind {
	case kindClick:
		p.DispatchDocumentEvent(dom.NewMouseEvent(dom.Click, m.target(), m.path(), dom.MouseState{
			ClientX:  m.Mouse.ClientX,
			ClientY:  m.Mouse.ClientY,
			PageX:    m.Mouse.PageX,
			PageY:    m.Mouse.PageY,
			CtrlKey:  m.Mouse.CtrlKey,
			AltKey:   m.Mouse.AltKey,
			ShiftKey: m.Mouse.ShiftKey,
			MetaKey:  m.Mouse.MetaKey,
		}))
	case kindVisibilityChange:
		p.DispatchDocumentEvent(dom.NewEvent(dom.VisibilityChange))
	case kindHashChange:
		p.DispatchWindowEvent(dom.NewHashChangeEvent(m.OldURL, m.NewURL))
	case kindPopState:
		p.DispatchWindowEvent(dom.NewPopStateEvent(m.State))
	default:
		return fmt.Errorf("unknown browser message kind %q", m.Kind)
	}
	return nil
}
