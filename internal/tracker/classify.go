package tracker

import (
	"strings"

	"github.com/jakopako/pagetrace/internal/dom"
)

// Classify maps a tag name and, for inputs, the type attribute to the
// semantic category of the clicked object. It is total: unknown tags
// map to their lower case name.
func Classify(tagName, inputType string) string {
	tag := strings.ToLower(tagName)
	switch tag {
	case "button":
		return "button"
	case "a":
		return "link"
	case "img":
		return "image"
	case "input":
		return classifyInput(inputType)
	case "select":
		return "dropdown"
	case "textarea", "label", "div", "span":
		return tag
	case "p":
		return "paragraph"
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return "heading"
	}
	return tag
}

func classifyInput(inputType string) string {
	typ := strings.ToLower(strings.TrimSpace(inputType))
	switch typ {
	// a missing type attribute makes an input a text field
	case "", "text", "email", "password":
		return "text_input"
	case "checkbox":
		return "checkbox"
	case "radio":
		return "radio_button"
	case "submit":
		return "submit_button"
	}
	return "input_" + typ
}

// ClassifyElement classifies el by its tag name and type attribute.
func ClassifyElement(el dom.Element) string {
	typ, _ := dom.Attribute(el, "type")
	return Classify(el.TagName(), typ)
}
