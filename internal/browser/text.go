package browser

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// blockTags force a line break around their content when text is
// rendered, approximating a browser's innerText.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

// skipTags never contribute visible text.
var skipTags = map[string]bool{
	"head": true, "noscript": true, "script": true, "style": true,
	"template": true,
}

var spaceRun = regexp.MustCompile(`[ \t\r\n\f]+`)

// renderText flattens a node to its visible text with innerText-like
// line structure: block boundaries and <br> become newlines, runs of
// inline whitespace collapse to single spaces, and blank lines are
// dropped. The scraping heuristics are all line-based, so the line
// structure matters more than exact spacing.
func renderText(root *html.Node) string {
	var b strings.Builder
	walkText(root, &b)

	rawLines := strings.Split(b.String(), "\n")
	lines := make([]string, 0, len(rawLines))
	for _, ln := range rawLines {
		ln = strings.TrimSpace(spaceRun.ReplaceAllString(ln, " "))
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return strings.Join(lines, "\n")
}

func walkText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		// Literal newlines inside markup render as spaces.
		b.WriteString(spaceRun.ReplaceAllString(n.Data, " "))
		return
	case html.ElementNode:
		if skipTags[n.Data] {
			return
		}
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
		block := blockTags[n.Data]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkText(c, b)
		}
		if block {
			b.WriteByte('\n')
		}
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkText(c, b)
		}
	}
}
