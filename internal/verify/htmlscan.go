package verify

import (
	"strings"

	"golang.org/x/net/html"
)

// htmlContainsMarker parses a page's content() snapshot and reports
// whether any element carries the data-rainbow-id marker attribute
// with the given value. The StateChange verifier uses this to
// corroborate a live element handle's TagName() success with a second,
// independent signal: a node can answer TagName() off a stale rod
// object reference even after being removed from the document, but it
// can't still be present in a freshly-fetched content() snapshot.
func htmlContainsMarker(htmlStr, marker string) bool {
	if marker == "" {
		return true
	}
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return true // can't parse, don't fail verification on this alone
	}
	found := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == "data-rainbow-id" && a.Val == marker {
					found = true
					return
				}
			}
		}
		for c := n.FirstChild; c != nil && !found; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}
