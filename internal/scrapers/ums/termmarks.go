package ums

import (
	"context"
	"html"
	"regexp"
	"strings"
	"umsassist-backend/internal/components/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var (
	termIdRegex   = regexp.MustCompile(`Term Id : (\d+)`)
	collapseRegex = regexp.MustCompile(`collapse(\d+)`)
)

func (c *client) fetchTermMarks(ctx context.Context) ([]TermMarks, error) {
	var markup string
	err := c.dashboardCall(ctx, "TermWiseMarks", nil, &markup)
	if err != nil {
		return nil, err
	}
	return parseTermMarks(markup)
}

// parseTermMarks reads the accordion of terms, each term header points to
// a collapsible section holding one h4 and marks table per course.
func parseTermMarks(markup string) ([]TermMarks, error) {
	markup = html.UnescapeString(markup)
	doc, err := parseFragment(markup)
	if err != nil {
		return nil, err
	}

	terms := []TermMarks{}
	doc.Find("a.btn.btn-link.collapsed.text-left").Each(func(_ int, header *goquery.Selection) {
		termId := "Unknown"
		groups := termIdRegex.FindStringSubmatch(cellText(header))
		if len(groups) > 1 {
			termId = groups[1]
		}

		target := strings.ReplaceAll(header.AttrOr("data-target", ""), "#", "")
		if target == "" {
			return
		}
		section := findDivById(doc, target)
		if section.Length() == 0 {
			return
		}

		courses := parseTermSection(section)
		if len(courses) > 0 {
			terms = append(terms, TermMarks{TermId: termId, Courses: courses})
		}
	})
	if len(terms) > 0 {
		return terms, nil
	}

	// some responses lack the header links, fall back to the section ids
	seen := map[string]struct{}{}
	for _, groups := range collapseRegex.FindAllStringSubmatch(markup, -1) {
		termId := groups[1]
		if _, ok := seen[termId]; ok {
			continue
		}
		seen[termId] = struct{}{}

		section := findDivById(doc, "collapse"+termId)
		if section.Length() == 0 {
			continue
		}
		courses := parseTermSection(section)
		if len(courses) > 0 {
			terms = append(terms, TermMarks{TermId: termId, Courses: courses})
		}
	}
	return terms, nil
}

func findDivById(doc *goquery.Document, id string) *goquery.Selection {
	return doc.Find("div").FilterFunction(func(_ int, div *goquery.Selection) bool {
		return div.AttrOr("id", "") == id
	}).First()
}

func parseTermSection(section *goquery.Selection) []CourseMarks {
	var courses []CourseMarks
	section.Find("h4").Each(func(_ int, header *goquery.Selection) {
		table := htmlutil.NextElement(header.Get(0), "table")
		if table == nil {
			return
		}

		course := CourseMarks{Name: cellText(header)}
		goquery.NewDocumentFromNode(table).Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 3 {
				return
			}
			course.Components = append(course.Components, MarkComponent{
				Type:      cellText(cells.Eq(0)),
				Marks:     cellText(cells.Eq(1)),
				Weightage: cellText(cells.Eq(2)),
			})
		})
		if len(course.Components) > 0 {
			courses = append(courses, course)
		}
	})
	return courses
}
