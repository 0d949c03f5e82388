// Package markup parses scraped HTML into node trees and extracts clean text.
package markup

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Parse reads an HTML document. Valid UTF-8 is NFC-normalized and parsed
// directly; anything else goes through charset detection first.
func Parse(r io.Reader) (*html.Node, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markup: %w", err)
	}
	if utf8.Valid(body) {
		return dom.FastParse(bytes.NewReader(norm.NFC.Bytes(body)))
	}
	return dom.Parse(bytes.NewReader(body))
}

// Text returns the node's text content with whitespace collapsed.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	return strings.Join(strings.Fields(norm.NFC.String(dom.TextContent(n))), " ")
}

// CellText returns the text of n with each line break and block element
// treated as a ", " separator, so "vaig<br>vai" reads "vaig, vai" rather
// than one run-together word. Empty segments are dropped.
func CellText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var segments []string
	var cur strings.Builder
	flush := func() {
		if seg := strings.Join(strings.Fields(cur.String()), " "); seg != "" {
			segments = append(segments, seg)
		}
		cur.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			cur.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.Data == "br" {
				flush()
				return
			}
		}
		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	flush()
	return norm.NFC.String(strings.Join(segments, ", "))
}

var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"dl": true, "dt": true, "dd": true, "table": true, "tr": true,
}

// IsHeading reports whether n is an h1..h6 element.
func IsHeading(n *html.Node) bool {
	switch dom.TagName(n) {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

// Cells returns the th/td cells of a row in document order.
func Cells(row *html.Node) []*html.Node {
	return cellSelector.MatchAll(row)
}

var cellSelector = cascadia.MustCompile("th, td")
