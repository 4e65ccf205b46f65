package profile

import (
	"regexp"
	"strconv"
	"strings"
	"umsassist-backend/internal/scrapers/ums"
)

var creditsRegex = regexp.MustCompile(`\d+\.?\d*`)

// TotalCredits sums the first number found in each grade's credits, grades
// without one count as zero.
func TotalCredits(grades []ums.Grade) float64 {
	var total float64
	for _, g := range grades {
		match := creditsRegex.FindString(g.Credits)
		if match == "" {
			continue
		}
		credits, err := strconv.ParseFloat(match, 64)
		if err != nil {
			continue
		}
		total += credits
	}
	return total
}

// FormatCredits always keeps a fractional part, 8 is "8.0".
func FormatCredits(credits float64) string {
	out := strconv.FormatFloat(credits, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}
