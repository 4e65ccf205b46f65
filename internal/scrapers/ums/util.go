package ums

import (
	"strconv"
	"strings"
	"umsassist-backend/internal/components/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// cellText returns the text of every node in sel with each text node
// trimmed and concatenated.
func cellText(sel *goquery.Selection) string {
	var out strings.Builder
	for _, n := range sel.Nodes {
		out.WriteString(htmlutil.JoinText(n, ""))
	}
	return out.String()
}

func parseFragment(fragment string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(fragment))
}

// stringify converts a decoded json value into the string the portal
// would have displayed, ok is false for null.
func stringify(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
