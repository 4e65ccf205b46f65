package ums

import (
	"context"
	"strings"
)

func (c *client) fetchAttendanceSummary(ctx context.Context) ([]AttendanceSummary, error) {
	// the summary is only served once the dashboard has been visited in
	// the current session
	_, err := c.getDocument(ctx, "StudentDashboard.aspx", map[string]string{
		"Referer": c.pageUrl("StudentDashboard.aspx"),
	})
	if err != nil {
		return nil, err
	}

	var markup string
	err = c.dashboardCall(ctx, "StudentAttendanceSummary", nil, &markup)
	if err != nil {
		return nil, err
	}
	return parseAttendanceSummary(markup), nil
}

func parseAttendanceSummary(markup string) []AttendanceSummary {
	out := []AttendanceSummary{}
	seen := map[string]struct{}{}

	for _, fragment := range splitRowFragments(markup) {
		doc, err := parseFragment(rewrapRowFragment(fragment))
		if err != nil {
			continue
		}
		cells := doc.Find("td")
		if cells.Length() < 6 {
			continue
		}

		name := cellText(cells.Eq(0))
		if strings.Contains(name, "Aggregate Attendance") {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		out = append(out, AttendanceSummary{
			CourseName:   name,
			LastAttended: cellText(cells.Eq(1)),
			DutyLeaves:   cellText(cells.Eq(2)),
			Delivered:    cellText(cells.Eq(3)),
			Attended:     cellText(cells.Eq(4)),
		})
	}
	return out
}
