package locator

import (
	"strings"

	"golang.org/x/net/html"
)

// fuzzyThreshold is the minimum similarity score locateFuzzy accepts,
// shared with the pre-filter below so both agree on what counts as
// "plausible".
const fuzzyThreshold = 0.4

// htmlContainsText parses a page's content() snapshot and reports
// whether any text node contains needle (case-insensitive). The
// TextContent strategy uses this as a fast-reject gate: if the needle
// is nowhere in the page's static content, there's no reason to pay
// for a round trip into the browser to confirm it.
func htmlContainsText(htmlStr, needle string) bool {
	if strings.TrimSpace(needle) == "" {
		return true
	}
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return true // can't parse, don't block the real ladder
	}
	needle = strings.ToLower(needle)
	found := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.TextNode && strings.Contains(strings.ToLower(n.Data), needle) {
			found = true
			return
		}
		for c := n.FirstChild; c != nil && !found; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

// htmlBestTextSimilarity returns the highest similarity (see
// similarity()) between needle and any text node in htmlStr. The
// FuzzyMatch strategy uses this as a pre-filter: if nothing in the
// page's content() snapshot is even plausibly close to needle, the
// expensive per-element script scan is skipped.
func htmlBestTextSimilarity(htmlStr, needle string) float64 {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return 1 // can't parse, don't block the real ladder
	}
	needle = strings.ToLower(strings.TrimSpace(needle))
	best := 0.0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.ToLower(strings.TrimSpace(n.Data))
			if text != "" {
				if s := similarity(needle, text); s > best {
					best = s
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return best
}
