// File: internal/formparser/dom.go
package formparser

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// domFallbackKeyBase seeds synthesized field keys when no input name
// attribute can be found. Submissions carrying a synthesized key are known
// to be rejected by the real target; this tier is a best-effort degrade.
const domFallbackKeyBase = 1000000

// questionsFromDOM is the fallback extraction tier: scan field group
// elements and infer the question kind from the controls they contain.
func questionsFromDOM(doc *html.Node, logger *zap.Logger) []schemas.Question {
	var questions []schemas.Question

	for i, item := range nodesWithAttr(doc, "role", "listitem") {
		label := ""
		if h := firstNodeWithAttr(item, "role", "heading"); h != nil {
			label = nodeText(h)
		}
		if label == "" {
			continue
		}

		q := schemas.Question{
			ID:       fmt.Sprintf("q%d", i+1),
			Kind:     schemas.KindShortText,
			Label:    label,
			Required: strings.Contains(nodeText(item), "*") || firstNodeWithAttr(item, "aria-required", "true") != nil,
		}

		// Control priority: radio beats checkbox beats textarea beats select.
		radios := inputsOfType(item, "radio")
		checkboxes := inputsOfType(item, "checkbox")
		switch {
		case len(radios) > 0:
			q.Kind = schemas.KindSingleChoice
			q.Options = controlOptionLabels(radios)
		case len(checkboxes) > 0:
			q.Kind = schemas.KindMultiChoice
			q.Options = controlOptionLabels(checkboxes)
		case firstElement(item, "textarea") != nil:
			q.Kind = schemas.KindParagraph
		case firstElement(item, "select") != nil:
			q.Kind = schemas.KindDropdown
			q.Options = optionTexts(firstElement(item, "select"))
		}

		q.FieldKey = firstControlName(item)
		if q.FieldKey == "" {
			q.FieldKey = fmt.Sprintf("entry.%d", domFallbackKeyBase+i)
			logger.Warn("no input name attribute found; synthesized field key will not be accepted by the target",
				zap.String("label", label),
				zap.String("field_key", q.FieldKey),
			)
		}

		questions = append(questions, q)
	}

	return questions
}

// extractTitle pulls a best-effort display title from the document.
func extractTitle(doc *html.Node) string {
	if h := firstNodeWithAttr(doc, "role", "heading"); h != nil {
		if t := nodeText(h); t != "" {
			return t
		}
	}
	if h1 := firstElement(doc, "h1"); h1 != nil {
		if t := nodeText(h1); t != "" {
			return t
		}
	}
	return defaultFormTitle
}

// controlOptionLabels recovers the label text adjacent to each radio or
// checkbox control: the first span under the control's nearest div ancestor.
func controlOptionLabels(controls []*html.Node) []string {
	var options []string
	for _, ctrl := range controls {
		group := nearestAncestor(ctrl, "div")
		if group == nil {
			continue
		}
		if span := firstElement(group, "span"); span != nil {
			if t := nodeText(span); t != "" {
				options = append(options, t)
			}
		}
	}
	return options
}

// optionTexts collects the non-empty option labels of a select element.
func optionTexts(sel *html.Node) []string {
	var options []string
	for _, opt := range elements(sel, "option") {
		if t := nodeText(opt); t != "" {
			options = append(options, t)
		}
	}
	return options
}

// firstControlName returns the name attribute of the first input, textarea
// or select inside the group, or "" when the first control is unnamed.
func firstControlName(item *html.Node) string {
	ctrl := firstMatch(item, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		switch n.Data {
		case "input", "textarea", "select":
			return true
		}
		return false
	})
	if ctrl == nil {
		return ""
	}
	return attrValue(ctrl, "name")
}

// -- generic html.Node helpers --

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// nodeText concatenates all descendant text, collapsing runs of whitespace.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// collectMatches gathers descendants satisfying pred, in document order.
// The root itself is not considered.
func collectMatches(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var matches []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if pred(c) {
				matches = append(matches, c)
			}
			walk(c)
		}
	}
	walk(root)
	return matches
}

func firstMatch(root *html.Node, pred func(*html.Node) bool) *html.Node {
	if ms := collectMatches(root, pred); len(ms) > 0 {
		return ms[0]
	}
	return nil
}

func nodesWithAttr(root *html.Node, key, val string) []*html.Node {
	return collectMatches(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attrValue(n, key) == val
	})
}

func firstNodeWithAttr(root *html.Node, key, val string) *html.Node {
	if ms := nodesWithAttr(root, key, val); len(ms) > 0 {
		return ms[0]
	}
	return nil
}

func elements(root *html.Node, tag string) []*html.Node {
	return collectMatches(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	})
}

func firstElement(root *html.Node, tag string) *html.Node {
	if ms := elements(root, tag); len(ms) > 0 {
		return ms[0]
	}
	return nil
}

func inputsOfType(root *html.Node, inputType string) []*html.Node {
	return collectMatches(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "input" && attrValue(n, "type") == inputType
	})
}

func nearestAncestor(n *html.Node, tag string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tag {
			return p
		}
	}
	return nil
}
