package ums

import "strings"

// The attendance summary endpoint returns table rows that are separated by
// bare "<tr>" tokens without ever closing them, parsing the whole response
// at once merges rows together. Each row is cut out and given its own
// table instead.

const rowSeparator = "<tr>"

// splitRowFragments cuts malformed table markup at every row separator,
// blank fragments are dropped.
func splitRowFragments(markup string) []string {
	var out []string
	for _, fragment := range strings.Split(markup, rowSeparator) {
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		out = append(out, fragment)
	}
	return out
}

// rewrapRowFragment turns a fragment back into a well formed single row
// table.
func rewrapRowFragment(fragment string) string {
	return "<table><tr>" + fragment + "</tr></table>"
}
