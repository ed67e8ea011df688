package terraform

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// getterHeader is the response header carrying the real module source.
const getterHeader = "X-Terraform-Get"

// discoverGetURL performs the terraform-get round trip for an HTTP source
// that is not itself an archive: a GET with terraform-get=1 appended, with
// the real source read from the X-Terraform-Get header or, failing that,
// from a <meta name="terraform-get"> tag in the returned markup. An empty
// return means the endpoint revealed nothing.
func (d *Decoder) discoverGetURL(rawURL string) (string, error) {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	resp, err := d.client.Get(rawURL + sep + "terraform-get=1")
	if err != nil {
		return "", fmt.Errorf("discovering source behind %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if v := resp.Header.Get(getterHeader); v != "" {
		return v, nil
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing response from %s: %w", rawURL, err)
	}
	return findMetaContent(doc, "terraform-get"), nil
}

// findMetaContent walks the parsed document for a meta tag with the given
// name attribute and returns its content attribute.
func findMetaContent(n *html.Node, name string) string {
	if n.Type == html.ElementNode && n.Data == "meta" {
		var metaName, content string
		for _, attr := range n.Attr {
			switch attr.Key {
			case "name":
				metaName = attr.Val
			case "content":
				content = attr.Val
			}
		}
		if metaName == name {
			return content
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findMetaContent(c, name); found != "" {
			return found
		}
	}
	return ""
}
