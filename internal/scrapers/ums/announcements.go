package ums

import (
	"context"
	"umsassist-backend/internal/components/htmlutil"
)

type announcementRequest struct {
	LoginId string `json:"LoginId"`
	Type    string `json:"Type"`
}

func (c *client) fetchAnnouncements(ctx context.Context, regNo string) ([]Announcement, error) {
	var raw []map[string]any
	err := c.dashboardCall(ctx, "AnnouncementDetails", announcementRequest{
		LoginId: regNo,
		Type:    "S",
	}, &raw)
	if err != nil {
		return nil, err
	}
	return parseAnnouncements(raw), nil
}

func parseAnnouncements(raw []map[string]any) []Announcement {
	field := func(entry map[string]any, key string) string {
		text, _ := stringify(entry[key])
		return text
	}

	out := make([]Announcement, 0, len(raw))
	for _, entry := range raw {
		out = append(out, Announcement{
			Id:           field(entry, "announcementid"),
			Subject:      field(entry, "subject"),
			Text:         htmlutil.CleanText(field(entry, "announcement")),
			Time:         field(entry, "time"),
			Date:         field(entry, "date"),
			UploadedBy:   field(entry, "uploadedby"),
			EmployeeName: field(entry, "employeename"),
		})
	}
	return out
}
