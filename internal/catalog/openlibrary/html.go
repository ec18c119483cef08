package openlibrary

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// stripHTML reduces catalog descriptions, which are sometimes HTML or
// Markdown-flavored HTML, to plain text.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(collapseWhitespace(s))
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(collapseWhitespace(html.UnescapeString(htmlTagRegex.ReplaceAllString(s, " "))))
	}

	var buf strings.Builder
	extractText(doc, &buf)
	return strings.TrimSpace(collapseWhitespace(buf.String()))
}

func extractText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	if n.Type == html.ElementNode && isBlock(n.Data) {
		buf.WriteString(" ")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, buf)
	}

	if n.Type == html.ElementNode && isBlock(n.Data) {
		buf.WriteString(" ")
	}
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
		return true
	}
	return false
}

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

func collapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(s, " ")
}
