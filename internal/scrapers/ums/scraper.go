package ums

import (
	"context"
	"sync"
	"umsassist-backend/internal/components/assert"
	"umsassist-backend/internal/components/telemetry"
)

const (
	report_scraper_basic_info         = "scraper.basic-info"
	report_scraper_result_page        = "scraper.result-page"
	report_scraper_attendance         = "scraper.attendance"
	report_scraper_messages           = "scraper.messages"
	report_scraper_contact            = "scraper.contact"
	report_scraper_announcements      = "scraper.announcements"
	report_scraper_assignments        = "scraper.assignments"
	report_scraper_attendance_summary = "scraper.attendance-summary"
	report_scraper_term_marks         = "scraper.term-marks"
	report_scraper_scrape             = "scraper.scrape"
)

// Scraper logs into the portal and collects every section of a student's
// academic record.
type Scraper struct {
	opts Options
	tel  telemetry.API
}

func NewScraper(opts Options, tel telemetry.API) Scraper {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.BaseUrl)
	return Scraper{
		opts: opts,
		tel:  telemetry.NewScopedAPI("ums_scraper", tel),
	}
}

// Scrape runs a full scrape with a fresh session. Only a failed login (or
// an unusable client) fails the call, sections that cannot be loaded are
// reported and left empty.
func (s Scraper) Scrape(ctx context.Context, regNo, password string) (Data, error) {
	c, err := newClient(s.opts, s.tel)
	if err != nil {
		return Data{}, err
	}
	err = c.Login(ctx, regNo, password)
	if err != nil {
		return Data{}, err
	}

	data := Data{
		RegNo:             regNo,
		Info:              map[string]string{},
		Grades:            []Grade{},
		Terms:             []TermGpa{},
		Attendance:        []Attendance{},
		AttendanceSummary: []AttendanceSummary{},
		Messages:          []Message{},
		Announcements:     []Announcement{},
		Assignments:       []Assignment{},
		TermMarks:         []TermMarks{},
	}

	// every section writes to its own field of data
	wg := sync.WaitGroup{}
	section := func(id string, fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := fetch()
			if err != nil {
				s.tel.ReportWarning(id, err)
			}
		}()
	}

	section(report_scraper_basic_info, func() error {
		info, err := c.fetchBasicInfo(ctx)
		if err != nil {
			return err
		}
		data.Info = info
		return nil
	})
	section(report_scraper_result_page, func() error {
		doc, err := c.fetchResultPage(ctx)
		if err != nil {
			return err
		}
		data.Terms = parseTermGpas(doc)
		data.Grades = parseGrades(doc)
		return nil
	})
	section(report_scraper_attendance, func() error {
		attendance, err := c.fetchAttendance(ctx)
		if err != nil {
			return err
		}
		data.Attendance = attendance
		return nil
	})
	section(report_scraper_messages, func() error {
		messages, err := c.fetchMessages(ctx)
		if err != nil {
			return err
		}
		data.Messages = messages
		return nil
	})
	section(report_scraper_contact, func() error {
		contact, err := c.fetchContact(ctx)
		if err != nil {
			return err
		}
		data.Contact = contact
		return nil
	})
	section(report_scraper_announcements, func() error {
		announcements, err := c.fetchAnnouncements(ctx, regNo)
		if err != nil {
			return err
		}
		data.Announcements = announcements
		return nil
	})
	section(report_scraper_assignments, func() error {
		assignments, err := c.fetchAssignments(ctx)
		if err != nil {
			return err
		}
		data.Assignments = assignments
		return nil
	})
	section(report_scraper_attendance_summary, func() error {
		summary, err := c.fetchAttendanceSummary(ctx)
		if err != nil {
			return err
		}
		data.AttendanceSummary = summary
		return nil
	})
	section(report_scraper_term_marks, func() error {
		marks, err := c.fetchTermMarks(ctx)
		if err != nil {
			return err
		}
		data.TermMarks = marks
		return nil
	})

	wg.Wait()

	if ctx.Err() != nil {
		return Data{}, ctx.Err()
	}

	s.tel.ReportCount(report_scraper_scrape, int64(len(data.Grades)))
	return data, nil
}
