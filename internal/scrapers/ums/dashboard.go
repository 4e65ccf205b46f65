package ums

import (
	"context"
	"strings"
	"umsassist-backend/internal/components/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

func (c *client) fetchAttendance(ctx context.Context) ([]Attendance, error) {
	var fragment string
	err := c.dashboardCall(ctx, "GetStudentCourses", nil, &fragment)
	if err != nil {
		return nil, err
	}
	return parseCourseCards(fragment)
}

func parseCourseCards(fragment string) ([]Attendance, error) {
	doc, err := parseFragment(fragment)
	if err != nil {
		return nil, err
	}
	out := []Attendance{}
	doc.Find(".mycoursesdiv").Each(func(_ int, card *goquery.Selection) {
		percentage := card.Find(".c100 span").First()
		course := card.Find("p.font-weight-medium").First()
		if percentage.Length() == 0 || course.Length() == 0 {
			return
		}
		out = append(out, Attendance{
			Course:     htmlutil.Text(course),
			Percentage: htmlutil.Text(percentage),
		})
	})
	return out, nil
}

func (c *client) fetchMessages(ctx context.Context) ([]Message, error) {
	var fragment string
	err := c.dashboardCall(ctx, "GetStudentMessages", nil, &fragment)
	if err != nil {
		return nil, err
	}
	return parseMessageCards(fragment)
}

func parseMessageCards(fragment string) ([]Message, error) {
	doc, err := parseFragment(fragment)
	if err != nil {
		return nil, err
	}
	out := []Message{}
	doc.Find(".mycoursesdiv").Each(func(_ int, card *goquery.Selection) {
		title := card.Find(".font-weight-medium").First()
		body := card.Find("p.text-small.text-muted").First()
		if title.Length() == 0 || body.Length() == 0 {
			return
		}
		out = append(out, Message{
			Title: htmlutil.Text(title),
			Body:  htmlutil.Text(body),
		})
	})
	return out, nil
}

func (c *client) fetchContact(ctx context.Context) (ContactInfo, error) {
	var raw string
	err := c.dashboardCall(ctx, "GetStudentContactNo", nil, &raw)
	if err != nil {
		return ContactInfo{}, err
	}
	return parseContact(raw), nil
}

// parseContact splits the "<number>:<verified>" pair returned by the portal.
func parseContact(raw string) ContactInfo {
	parts := strings.Split(raw, ":")
	info := ContactInfo{Number: parts[0]}
	if len(parts) > 1 {
		info.Verified = parts[1]
	}
	return info
}
