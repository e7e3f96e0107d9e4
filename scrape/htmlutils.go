package scrape

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// findNodes collects every element node matching pred, in document order.
func findNodes(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var matches []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && pred(n) {
			matches = append(matches, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return matches
}

func findNodesByTag(n *html.Node, tag string) []*html.Node {
	return findNodes(n, func(n *html.Node) bool {
		return n.Data == tag
	})
}

func findNodesByClass(n *html.Node, class string) []*html.Node {
	return findNodes(n, func(n *html.Node) bool {
		return strings.Contains(attr(n, "class"), class)
	})
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent returns the concatenated, whitespace-collapsed text of a
// node's subtree.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// extractTitle extracts the document's <title> text.
func extractTitle(doc *html.Node) string {
	for _, n := range findNodesByTag(doc, "title") {
		if t := textContent(n); t != "" {
			return t
		}
	}
	return ""
}

// extractMeta returns the content attribute of the first <meta> whose
// attrKey attribute equals attrVal (e.g. name=description, property=og:title).
func extractMeta(doc *html.Node, attrKey, attrVal string) string {
	for _, n := range findNodesByTag(doc, "meta") {
		if attr(n, attrKey) == attrVal {
			if content := attr(n, "content"); content != "" {
				return content
			}
		}
	}
	return ""
}

// absolutize resolves href against base. Already-absolute URLs pass
// through unchanged, which makes the rewrite idempotent; unparseable
// inputs pass through as-is.
func absolutize(base, href string) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(u).String()
}

// sampleHTML bounds a document body to its first sampleHTMLLimit bytes for
// diagnostic payloads.
const sampleHTMLLimit = 1000

func sampleHTML(body []byte) string {
	if len(body) > sampleHTMLLimit {
		body = body[:sampleHTMLLimit]
	}
	return string(body)
}
