// Package htmltext flattens feed HTML fragments into plain text for
// record bodies and content hashing.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Flatten strips markup from an HTML fragment, decodes entities, joins
// text nodes with single spaces and collapses whitespace runs. Plain
// text passes through collapsed. Input that fails to parse degrades to
// the collapsed raw string rather than erroring.
func Flatten(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapse(fragment)
	}

	var parts []string
	for _, node := range doc.Selection.Nodes {
		collectText(node, &parts)
	}
	return collapse(strings.Join(parts, " "))
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if s := strings.TrimSpace(n.Data); s != "" {
			*parts = append(*parts, s)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
