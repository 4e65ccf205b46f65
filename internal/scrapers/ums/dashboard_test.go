package ums

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCourseCards(t *testing.T) {
	cards, err := parseCourseCards(`
		<div class="mycoursesdiv"><div class="c100"><span> 88% </span></div><p class="font-weight-medium">CSE310 Java</p></div>
		<div class="mycoursesdiv"><p class="font-weight-medium">No percentage</p></div>
		<div class="other"><div class="c100"><span>10%</span></div><p class="font-weight-medium">Not a card</p></div>`)
	require.NoError(t, err)
	require.Equal(t, []Attendance{{Course: "CSE310 Java", Percentage: "88%"}}, cards)

	cards, err = parseCourseCards("")
	require.NoError(t, err)
	require.NotNil(t, cards)
	require.Empty(t, cards)
}

func TestParseMessageCards(t *testing.T) {
	messages, err := parseMessageCards(`
		<div class="mycoursesdiv"><span class="font-weight-medium">Exam</span><p class="text-small text-muted">Hall 3</p></div>
		<div class="mycoursesdiv"><span class="font-weight-medium">Missing body</span><p class="text-small">x</p></div>`)
	require.NoError(t, err)
	require.Equal(t, []Message{{Title: "Exam", Body: "Hall 3"}}, messages)
}

func TestParseContact(t *testing.T) {
	table := []struct {
		raw      string
		expected ContactInfo
	}{
		{raw: "9876543210:1", expected: ContactInfo{Number: "9876543210", Verified: "1"}},
		{raw: "9876543210", expected: ContactInfo{Number: "9876543210"}},
		{raw: "", expected: ContactInfo{}},
		{raw: "1:2:3", expected: ContactInfo{Number: "1", Verified: "2"}},
	}
	for _, row := range table {
		require.Equal(t, row.expected, parseContact(row.raw), row.raw)
	}
}

func TestParseBasicInfo(t *testing.T) {
	info := parseBasicInfo([]map[string]any{
		{
			"StudentName":    "Asha Verma",
			"CGPA":           8.5,
			"Section":        "",
			"RollNumber":     "null",
			"PendingFee":     nil,
			"StudentPicture": "base64",
			"IsHosteler":     true,
		},
		{"StudentName": "ignored"},
	})
	require.Equal(t, map[string]string{
		"StudentName": "Asha Verma",
		"CGPA":        "8.5",
		"IsHosteler":  "true",
	}, info)

	require.Empty(t, parseBasicInfo(nil))
}

func TestParseAnnouncements(t *testing.T) {
	announcements := parseAnnouncements([]map[string]any{{
		"announcementid": "A1",
		"subject":        "Exams",
		"announcement":   "&lt;div&gt;Mid&amp;nbsp;term&lt;br/&gt;\n\n  schedule &lt;b&gt;out&lt;/b&gt;&lt;/div&gt;",
		"uploadedby":     nil,
	}})
	require.Equal(t, []Announcement{{
		Id:      "A1",
		Subject: "Exams",
		Text:    "Mid term schedule out",
	}}, announcements)
}
