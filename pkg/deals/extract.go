package deals

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// tagPattern catches stray markup that survives both parse passes.
var tagPattern = regexp.MustCompile(`<[^<]+?>`)

// featuresMarker splits a page's content into details and features.
const featuresMarker = "Features"

// ExtractText cleans a feed entry's HTML summary down to plain
// single-line text. Cleanup runs in three stages: a structured parse that
// pulls the text of the snippet-summary container, a second parse over
// that text to drop entity-encoded markup, and a final regex strip for
// anything left over. Snippets without the container are returned as-is,
// markup included, rather than failing.
func ExtractText(snippet string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return singleLine(snippet)
	}

	sel := doc.Find("div.snippet.summary").First()
	if sel.Length() == 0 {
		return singleLine(snippet)
	}

	text := strings.TrimSpace(sel.Text())
	text = stripMarkup(text)
	text = tagPattern.ReplaceAllString(text, "")
	return singleLine(strings.TrimSpace(text))
}

// SplitContent splits page text at the first occurrence of the features
// marker. Text without a marker comes back whole, with empty features.
// Both segments keep their surrounding whitespace; callers trim.
func SplitContent(content string) (details, features string) {
	if i := strings.Index(content, featuresMarker); i >= 0 {
		return content[:i], content[i+len(featuresMarker):]
	}
	return content, ""
}

// stripMarkup re-parses text as HTML and keeps only text nodes, so
// entity-encoded tags that survived the first extraction are dropped.
func stripMarkup(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String()
}

func singleLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
