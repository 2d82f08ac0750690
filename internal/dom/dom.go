// Package dom is the typed view of a browser document that the tracker
// works against.
//
// Hosts (a static goquery page, a live chrome tab) implement Host and
// deliver their events through the Targets it exposes. Elements are
// only ever seen through the Element capability interface so that
// classification and descriptor building stay independent of the
// concrete node representation.
package dom

import (
	"errors"
	"net/url"
	"strings"
)

// ErrNoMatch is returned when a selector does not match any element.
var ErrNoMatch = errors.New("no element matches selector")

// Attr is a single attribute of an element.
type Attr struct {
	Name  string
	Value string
}

// Element is the capability interface every host element satisfies.
type Element interface {
	// TagName as reported by the host, in any case.
	TagName() string
	Attributes() []Attr
	TextContent() string
	ClassList() []string
}

// Attribute returns the value of the named attribute of el.
func Attribute(el Element, name string) (string, bool) {
	if el == nil {
		return "", false
	}
	for _, a := range el.Attributes() {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ID returns the id attribute of el or the empty string.
func ID(el Element) string {
	id, _ := Attribute(el, "id")
	return id
}

// RootTarget marks the window and document hops of an event path.
type RootTarget int

const (
	WindowRoot RootTarget = iota + 1
	DocumentRoot
)

func (r RootTarget) String() string {
	switch r {
	case WindowRoot:
		return "window"
	case DocumentRoot:
		return "document"
	default:
		return "unknown"
	}
}

// Location mirrors the parts of window.location the tracker reports.
type Location struct {
	Href     string
	Pathname string
	Search   string
	Hash     string
}

// ParseLocation splits raw the way a browser's location object would.
// Unparseable input is kept as Href only.
func ParseLocation(raw string) Location {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{Href: raw}
	}
	if u.Path == "" && u.Host != "" {
		u.Path = "/"
	}
	loc := Location{
		Href:     u.String(),
		Pathname: u.EscapedPath(),
	}
	if u.RawQuery != "" {
		loc.Search = "?" + u.RawQuery
	}
	if u.Fragment != "" {
		loc.Hash = "#" + u.EscapedFragment()
	}
	return loc
}

// WithHash returns the location reached by setting the fragment to hash.
// A hash with or without leading '#' is accepted, an empty one removes
// the fragment.
func (l Location) WithHash(hash string) Location {
	base, _, _ := strings.Cut(l.Href, "#")
	hash = strings.TrimPrefix(hash, "#")
	if hash == "" {
		return ParseLocation(base)
	}
	return ParseLocation(base + "#" + hash)
}

// Viewport is the inner size of the window.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Host is a single document together with its window.
type Host interface {
	Location() Location
	Title() string
	Referrer() string
	Viewport() Viewport
	UserAgent() string
	Hidden() bool
	// Document is the target click and visibility listeners are
	// registered on.
	Document() *Target
	// Window is the target navigation listeners are registered on.
	Window() *Target
}
