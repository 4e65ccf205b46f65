package htmlutil

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"
)

// GetText concatenates every text node under node in document order.
func GetText(node *nethtml.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *nethtml.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == nethtml.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// JoinText trims every text node under node and joins the non-empty ones
// with sep.
func JoinText(node *nethtml.Node, sep string) string {
	var parts []string
	var walk func(n *nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				parts = append(parts, text)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return strings.Join(parts, sep)
}

var whitespace = regexp.MustCompile(`[\s\p{Zs}]+`)

// CollapseWhitespace replaces every run of whitespace with a single space
// and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// CleanText turns an html-escaped markup snippet into plain text: entities
// are decoded, tags are dropped and whitespace is collapsed.
func CleanText(escaped string) string {
	unescaped := html.UnescapeString(escaped)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(unescaped))
	if err != nil {
		return CollapseWhitespace(unescaped)
	}
	var parts []string
	for _, n := range doc.Nodes {
		parts = append(parts, JoinText(n, " "))
	}
	return CollapseWhitespace(strings.Join(parts, " "))
}

// Text returns the trimmed text of a selection.
func Text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// NextElement finds the first element named tag that comes after node in
// document order, descendants of node included.
func NextElement(node *nethtml.Node, tag string) *nethtml.Node {
	current := node
	for {
		current = nextInDocument(current)
		if current == nil {
			return nil
		}
		if current.Type == nethtml.ElementNode && current.Data == tag {
			return current
		}
	}
}

func nextInDocument(n *nethtml.Node) *nethtml.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}
