package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// VisibleText extracts the readable text of an HTML document.
// Script-like elements are skipped; text nodes are joined without separators
// since Japanese prose carries no inter-word spaces, except at block boundaries
// where a newline is inserted.
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head", "nav", "footer":
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlock(n.Data) {
			if buf.Len() > 0 && !strings.HasSuffix(buf.String(), "\n") {
				buf.WriteString("\n")
			}
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String()), nil
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "li", "h1", "h2", "h3", "h4", "h5", "h6", "br", "tr", "blockquote":
		return true
	}
	return false
}
