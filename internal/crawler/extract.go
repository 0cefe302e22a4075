package crawler

import (
	"bytes"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/nao1215/linkpatrol/internal/model"
)

// ExtractLinks returns the set of absolute URLs referenced by anchor
// elements in the document, resolved against the crawl base URL with
// fragments stripped. The result is sorted so crawl order is deterministic
// for a given page.
//
// Design decision: We use golang.org/x/net/html rather than regex because it
// correctly handles the malformed HTML that is everywhere on the web. The
// content type is passed through charset detection so non-UTF-8 pages parse
// correctly instead of yielding garbage hrefs.
//
// Hrefs are resolved against the crawl base URL, not the page URL, so
// server-relative links behave the same on every page.
func ExtractLinks(body []byte, contentType string, base *url.URL) ([]string, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); href != "" {
				if resolved := resolveHref(href, base); resolved != "" {
					seen[resolved] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)

	return links, nil
}

// resolveHref resolves a raw href against the base URL and strips the
// fragment. Pseudo-scheme hrefs that can never be crawled are dropped here
// so they don't clutter records.
func resolveHref(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return model.Normalize(base.ResolveReference(u).String())
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
