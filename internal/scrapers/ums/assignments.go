package ums

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

const assignmentsPage = "frmstudentdownloadassignment.aspx"

const (
	theoryTableId    = "ctl00_cphHeading_rgAssignment_ctl00"
	practicalTableId = "ctl00_cphHeading_gvPracticalComponent_ctl00"
)

// fetchAssignments loads the assignment page and presses "View All" so the
// tables contain every course.
func (c *client) fetchAssignments(ctx context.Context) ([]Assignment, error) {
	headers := map[string]string{"Referer": c.pageUrl(assignmentsPage)}

	page, err := c.getDocument(ctx, assignmentsPage, headers)
	if err != nil {
		return nil, err
	}

	form := hiddenInputs(page)
	form["ctl00$cphHeading$Button1"] = "View All"

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetFormData(form).
		Post("/" + assignmentsPage)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("view all assignments: unexpected status %s", res.Status())
	}
	doc, err := parseFragment(res.String())
	if err != nil {
		return nil, err
	}
	return parseAssignments(doc), nil
}

func hiddenInputs(doc *goquery.Document) map[string]string {
	out := map[string]string{}
	doc.Find(`input[type="hidden"]`).Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		out[name] = input.AttrOr("value", "")
	})
	return out
}

func parseAssignments(doc *goquery.Document) []Assignment {
	out := []Assignment{}
	out = append(out, parseAssignmentTable(doc, theoryTableId, AssignmentTheory, 11, 9, 10)...)
	out = append(out, parseAssignmentTable(doc, practicalTableId, AssignmentPractical, 18, 16, 17)...)
	return out
}

func parseAssignmentTable(
	doc *goquery.Document,
	tableId string,
	kind AssignmentType,
	minCells, obtainedCol, totalCol int,
) []Assignment {
	var out []Assignment
	table := doc.Find("table#" + tableId).First()
	table.Find("tr.rgRow, tr.rgAltRow").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < minCells {
			return
		}
		obtained := cellText(cells.Eq(obtainedCol))
		total := cellText(cells.Eq(totalCol))
		if obtained == "" || total == "" {
			return
		}
		out = append(out, Assignment{
			CourseCode: cellText(cells.Eq(1)),
			Type:       kind,
			Obtained:   obtained,
			Total:      total,
		})
	})
	return out
}
