package services

import (
	"fmt"
	"route-display-service/internal/domain"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// fragmentContext is the element provider HTML snippets are parsed under.
var fragmentContext = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
}

// appendFragment parses provider HTML and appends the resulting nodes to parent.
// Unparseable input falls back to an escaped text node.
func appendFragment(parent *html.Node, fragment string) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), fragmentContext)
	if err != nil {
		parent.AppendChild(&html.Node{Type: html.TextNode, Data: fragment})
		return
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
}

func renderNodes(nodes ...*html.Node) (string, error) {
	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return sb.String(), nil
}

// renderSteps builds the ordered step list for the route display target.
// Each entry carries its zero-based index in data-step.
func renderSteps(steps []domain.Step) (string, error) {
	ol := element(atom.Ol)
	for i, step := range steps {
		li := element(atom.Li, html.Attribute{Key: "data-step", Val: strconv.Itoa(i)})
		appendFragment(li, step.Instructions)

		span := element(atom.Span, html.Attribute{Key: "class", Val: "distance"})
		span.AppendChild(&html.Node{Type: html.TextNode, Data: step.DistanceText})
		li.AppendChild(span)

		ol.AppendChild(li)
	}
	return renderNodes(ol)
}

// renderWarnings renders one paragraph per warning. No warnings renders "".
func renderWarnings(warnings []string) (string, error) {
	nodes := make([]*html.Node, 0, len(warnings))
	for _, w := range warnings {
		p := element(atom.P)
		appendFragment(p, w)
		nodes = append(nodes, p)
	}
	return renderNodes(nodes...)
}
