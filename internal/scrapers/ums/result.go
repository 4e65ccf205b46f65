package ums

import (
	"context"
	"regexp"
	"strings"
	"umsassist-backend/internal/components/htmlutil"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var (
	tgpaRegex  = regexp.MustCompile(`TermId:\s*(\d+);\s*TGPA:\s*([\d.]+)`)
	gradeRegex = regexp.MustCompile(`^[A-F][+-]?$|^O$`)
)

func (c *client) fetchResultPage(ctx context.Context) (*goquery.Document, error) {
	return c.getDocument(ctx, "frmStudentResult.aspx", nil)
}

func parseTermGpas(doc *goquery.Document) []TermGpa {
	terms := []TermGpa{}
	doc.Find(`td[colspan="6"]`).Each(func(_ int, td *goquery.Selection) {
		p := td.Find("p").First()
		if p.Length() == 0 {
			return
		}
		groups := tgpaRegex.FindStringSubmatch(htmlutil.Text(p))
		if len(groups) < 3 {
			return
		}
		terms = append(terms, TermGpa{TermId: groups[1], Tgpa: groups[2]})
	})
	return terms
}

func parseGrades(doc *goquery.Document) []Grade {
	grades := []Grade{}
	doc.Find("tr.rgRow, tr.rgAltRow").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 5 {
			return
		}
		grade := Grade{
			Course:  htmlutil.Text(cells.Eq(2)),
			Credits: htmlutil.Text(cells.Eq(3)),
			Grade:   htmlutil.Text(cells.Eq(4)),
		}
		if !isGradeRow(grade.Course, grade.Grade) {
			return
		}
		grades = append(grades, grade)
	})
	return grades
}

// isGradeRow filters out header and summary rows that share the grade
// table's row classes.
func isGradeRow(course, grade string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(course)) < 5 {
		return false
	}
	return gradeRegex.MatchString(grade)
}
