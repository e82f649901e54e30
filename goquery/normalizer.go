// Package goquery provides HTML content normalization using goquery.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/fwojciec/helpdex"
)

// Ensure Normalizer implements helpdex.Normalizer at compile time.
var _ helpdex.Normalizer = (*Normalizer)(nil)

// Normalizer converts raw article HTML into clean plain text, preserving
// reading order and basic structure: lists become bullet lines, block
// containers are separated by blank lines, and tables are flattened to
// their text content.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// blockElements are flattened to their text followed by a blank line.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"header": true, "footer": true, "main": true, "aside": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "figure": true,
}

var (
	newlineRuns = regexp.MustCompile(`\n{3,}`)
	spaceRuns   = regexp.MustCompile(`[ \t]+`)
	lineEdges   = regexp.MustCompile(`(?m)[ \t]+$|^[ \t]+`)
)

// Normalize maps raw HTML to plain text. Empty or unparseable input yields
// an empty string, never an error.
func (n *Normalizer) Normalize(rawHTML string) string {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	// Non-content elements contribute nothing.
	doc.Find("script, style, iframe, noscript, svg").Remove()

	var sb strings.Builder
	doc.Find("body").Each(func(_ int, sel *goquery.Selection) {
		for _, node := range sel.Nodes {
			for child := node.FirstChild; child != nil; child = child.NextSibling {
				walk(&sb, child)
			}
		}
	})

	return collapse(sb.String())
}

// walk renders one node and its descendants into sb.
func walk(sb *strings.Builder, node *html.Node) {
	switch node.Type {
	case html.TextNode:
		sb.WriteString(node.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	switch node.Data {
	case "br":
		sb.WriteString("\n")

	case "ul", "ol":
		writeList(sb, node)
		sb.WriteString("\n")

	case "table":
		// No structural preservation: tables flatten to their text.
		sb.WriteString(textContent(node))
		sb.WriteString("\n\n")

	default:
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(sb, child)
		}
		if blockElements[node.Data] {
			sb.WriteString("\n\n")
		}
	}
}

// writeList renders one bullet line per list item, descending recursively
// into nested lists.
func writeList(sb *strings.Builder, list *html.Node) {
	for item := list.FirstChild; item != nil; item = item.NextSibling {
		if item.Type != html.ElementNode || item.Data != "li" {
			continue
		}

		// Inline content first, nested lists after.
		var inline strings.Builder
		var nested []*html.Node
		for child := item.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && (child.Data == "ul" || child.Data == "ol") {
				nested = append(nested, child)
				continue
			}
			walk(&inline, child)
		}

		text := strings.TrimSpace(spaceRuns.ReplaceAllString(strings.ReplaceAll(inline.String(), "\n", " "), " "))
		if text != "" {
			sb.WriteString("- ")
			sb.WriteString(text)
			sb.WriteString("\n")
		}

		for _, sub := range nested {
			writeList(sb, sub)
		}
	}
}

// textContent returns the concatenated text of all descendant text nodes.
func textContent(node *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(node)
	return sb.String()
}

// collapse normalizes whitespace: space runs become one space, line-edge
// spaces are removed, runs of three or more newlines become exactly two,
// and the ends are trimmed.
func collapse(s string) string {
	s = spaceRuns.ReplaceAllString(s, " ")
	s = lineEdges.ReplaceAllString(s, "")
	s = newlineRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
