package extract

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// skipElements hold no readable text.
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// extractHTML strips markup and returns one section per non-empty text line.
func extractHTML(content []byte) ([]string, string, error) {
	text, err := decodeText(content)
	if err != nil {
		return nil, "", err
	}
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, "", fmt.Errorf("parse HTML: %w", err)
	}
	return nonEmptyLines(htmlText(doc)), "\n", nil
}

// htmlText joins the document's text nodes with newlines.
func htmlText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, "\n")
}

// nonEmptyLines returns the trimmed non-blank lines of s.
func nonEmptyLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
