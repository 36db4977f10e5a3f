package source

import (
	"errors"
	"io"
	"net/url"

	"golang.org/x/net/html"
)

// ErrImageElementNotFound is returned when the gallery page's markup does
// not contain an element carrying the expected attribute.
var ErrImageElementNotFound = errors.New("source: gallery page has no matching image element")

// scrapeImageURL walks an HTML document looking for the first element
// whose attribute named attrName equals attrValue, and returns the
// resolved absolute URL found in that element's srcAttr attribute.
//
// This mirrors how the gallery exposes each id's image: a single element
// (e.g. an <img id="the-image" src="...">) identified by a well-known
// attribute, exactly the shape described for the default remote source.
func scrapeImageURL(body io.Reader, pageURL *url.URL, attrName, attrValue, srcAttr string) (string, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return "", err
	}

	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && htmlAttr(n, attrName) == attrValue {
			found = htmlAttr(n, srcAttr)
			return
		}
		for c := n.FirstChild; c != nil && found == ""; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if found == "" {
		return "", ErrImageElementNotFound
	}

	resolved, err := url.Parse(found)
	if err != nil {
		return "", err
	}
	return pageURL.ResolveReference(resolved).String(), nil
}

// htmlAttr retrieves an attribute value from an HTML node, or "" if absent.
func htmlAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
