package dom

import (
	"testing"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		input    string
		expected Location
	}{
		{
			input: "https://example.com/shop/items?page=2#top",
			expected: Location{
				Href:     "https://example.com/shop/items?page=2#top",
				Pathname: "/shop/items",
				Search:   "?page=2",
				Hash:     "#top",
			},
		},
		{
			input: "https://example.com",
			expected: Location{
				Href:     "https://example.com/",
				Pathname: "/",
			},
		},
		{
			input: "file:///tmp/page.html",
			expected: Location{
				Href:     "file:///tmp/page.html",
				Pathname: "/tmp/page.html",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLocation(tt.input)
			if got != tt.expected {
				t.Errorf("ParseLocation(%q) = %+v; want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLocationWithHash(t *testing.T) {
	loc := ParseLocation("https://example.com/page#a")

	tests := []struct {
		hash     string
		expected string
	}{
		{"#b", "https://example.com/page#b"},
		{"b", "https://example.com/page#b"},
		{"", "https://example.com/page"},
	}
	for _, tt := range tests {
		got := loc.WithHash(tt.hash)
		if got.Href != tt.expected {
			t.Errorf("WithHash(%q) = %q; want %q", tt.hash, got.Href, tt.expected)
		}
	}
	if got := loc.WithHash("#b").Hash; got != "#b" {
		t.Errorf("expected hash #b, got %q", got)
	}
}

type fakeElement struct {
	attrs []Attr
}

func (f fakeElement) TagName() string     { return "DIV" }
func (f fakeElement) Attributes() []Attr  { return f.attrs }
func (f fakeElement) TextContent() string { return "" }
func (f fakeElement) ClassList() []string { return nil }

func TestAttribute(t *testing.T) {
	el := fakeElement{attrs: []Attr{{Name: "id", Value: "go"}, {Name: "href", Value: ""}}}

	if v, ok := Attribute(el, "href"); !ok || v != "" {
		t.Errorf("expected present empty href, got %q, %v", v, ok)
	}
	if _, ok := Attribute(el, "src"); ok {
		t.Error("expected src to be absent")
	}
	if _, ok := Attribute(nil, "id"); ok {
		t.Error("expected nil element to have no attributes")
	}
	if got := ID(el); got != "go" {
		t.Errorf("ID() = %q; want go", got)
	}
}

func TestRootTargetString(t *testing.T) {
	if WindowRoot.String() != "window" || DocumentRoot.String() != "document" {
		t.Errorf("unexpected root names %q, %q", WindowRoot, DocumentRoot)
	}
	if RootTarget(0).String() != "unknown" {
		t.Errorf("expected unknown for zero root target")
	}
}
