package tracker

import (
	"strings"

	"github.com/jakopako/pagetrace/internal/dom"
	"github.com/jakopako/pagetrace/internal/utils"
)

const (
	maxTextLength = 50
	maxPathLength = 5
)

// allowedAttributes are the only attributes copied into a descriptor.
var allowedAttributes = map[string]bool{
	"href":        true,
	"src":         true,
	"alt":         true,
	"title":       true,
	"data-action": true,
	"data-info":   true,
	"name":        true,
	"value":       true,
}

// ElementDescriptor is a snapshot of a clicked element. It does not
// reference the element itself.
type ElementDescriptor struct {
	Tag        string            `json:"tag"`
	ID         *string           `json:"id"`
	ClassName  *string           `json:"className"`
	Classes    []string          `json:"classes"`
	Text       string            `json:"text"`
	Attributes map[string]string `json:"attributes"`
}

// Describe builds the descriptor of el. A nil element yields an empty
// descriptor.
func Describe(el dom.Element) ElementDescriptor {
	d := ElementDescriptor{
		Classes:    []string{},
		Attributes: map[string]string{},
	}
	if el == nil {
		return d
	}
	d.Tag = strings.ToLower(el.TagName())
	if id := dom.ID(el); id != "" {
		d.ID = &id
	}
	if class, _ := dom.Attribute(el, "class"); class != "" {
		d.ClassName = &class
	}
	if classes := el.ClassList(); classes != nil {
		d.Classes = classes
	}
	d.Text = ElementText(el)
	d.Attributes = FilterAttributes(el.Attributes())
	return d
}

// ElementText returns the trimmed text of el, falling back to its value
// for form controls, shortened to 50 characters.
func ElementText(el dom.Element) string {
	text := el.TextContent()
	if text == "" {
		text, _ = dom.Attribute(el, "value")
	}
	return TruncateText(strings.TrimSpace(text))
}

// TruncateText keeps text up to 50 characters and marks longer text
// with a trailing "...".
func TruncateText(text string) string {
	return utils.ShortenString(text, maxTextLength)
}

// FilterAttributes keeps the allow-listed attributes only.
func FilterAttributes(attrs []dom.Attr) map[string]string {
	filtered := map[string]string{}
	for _, a := range attrs {
		if allowedAttributes[a.Name] {
			filtered[a.Name] = a.Value
		}
	}
	return filtered
}

// Selector renders el as tag#id.class1.class2.
func Selector(el dom.Element) string {
	selector := strings.ToLower(el.TagName())
	if id := dom.ID(el); id != "" {
		selector += "#" + id
	}
	if classes := el.ClassList(); len(classes) > 0 {
		selector += "." + strings.Join(classes, ".")
	}
	return selector
}

// EventPath renders the first five hops of an event path.
func EventPath(path []any) []string {
	if len(path) > maxPathLength {
		path = path[:maxPathLength]
	}
	rendered := make([]string, 0, len(path))
	for _, hop := range path {
		rendered = append(rendered, pathEntry(hop))
	}
	return rendered
}

func pathEntry(hop any) string {
	switch h := hop.(type) {
	case dom.RootTarget:
		return h.String()
	case dom.Element:
		if h.TagName() == "" {
			return "unknown"
		}
		return Selector(h)
	}
	return "unknown"
}
