// Package profile reshapes scraped portal data into the profile returned to
// clients and the smaller record cached in the store.
package profile

import (
	"umsassist-backend/internal/scrapers/ums"
	"umsassist-backend/internal/store"
)

type TermData struct {
	TermId string `json:"termId"`
	Tgpa   string `json:"tgpa"`
}

type Grade struct {
	Course  string `json:"course"`
	Credits string `json:"credits"`
	Grade   string `json:"grade"`
}

type Assignment struct {
	CourseCode string `json:"Course Code"`
	Type       string `json:"Type"`
	Obtained   string `json:"Obtained Marks"`
	Total      string `json:"Total Marks"`
}

type CourseAttendance struct {
	Course     string `json:"course"`
	Attendance string `json:"attendance"`
}

// Attendance is a course card joined with its row of the attendance
// summary table.
type Attendance struct {
	Course       string `json:"course"`
	Percentage   string `json:"attendance_percentage"`
	LastAttended string `json:"last_attended"`
	Attended     string `json:"attended"`
	Delivered    string `json:"delivered"`
	DutyLeaves   string `json:"duty_leaves"`
}

type AttendanceSummary struct {
	CourseName   string `json:"course_name"`
	LastAttended string `json:"last_attended"`
	DutyLeaves   string `json:"duty_leaves"`
	Delivered    string `json:"delivered"`
	Attended     string `json:"attended"`
}

type Message struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type Announcement struct {
	Subject      string `json:"subject"`
	Announcement string `json:"announcement"`
	Time         string `json:"time"`
	Date         string `json:"date"`
	UploadedBy   string `json:"uploadedBy"`
	EmployeeName string `json:"employeeName"`
}

type MarkComponent struct {
	Type      string `json:"type"`
	Marks     string `json:"marks"`
	Weightage string `json:"weightage"`
}

type CourseMarks struct {
	CourseName string          `json:"course_name"`
	Components []MarkComponent `json:"components"`
}

type TermMarks struct {
	TermId  string        `json:"term_id"`
	Courses []CourseMarks `json:"courses"`
}

// Display is the full profile shown to a student after logging in.
type Display struct {
	StudentName        string              `json:"studentName"`
	RegNo              string              `json:"regNo"`
	Program            string              `json:"program"`
	Section            string              `json:"section"`
	DateOfBirth        string              `json:"dateOfBirth"`
	AggAttendance      string              `json:"aggAttendance"`
	Cgpa               string              `json:"cgpa"`
	RollNumber         string              `json:"rollNumber"`
	PendingFee         string              `json:"pendingFee"`
	TotalCredits       string              `json:"totalCredits"`
	TermData           []TermData          `json:"termData"`
	Grades             []Grade             `json:"grades"`
	Assignments        []Assignment        `json:"assignments"`
	DetailedAttendance []CourseAttendance  `json:"detailedAttendance"`
	Attendance         []Attendance        `json:"attendance"`
	Messages           []Message           `json:"messages"`
	ContactInfo        store.ContactInfo   `json:"contactInfo"`
	Announcements      []Announcement      `json:"announcements"`
	AttendanceSummary  []AttendanceSummary `json:"attendanceSummary"`
	TermWiseMarks      []TermMarks         `json:"term_wise_marks"`
}

// keys of the basic info section
const (
	infoStudentName   = "StudentName"
	infoRegNo         = "Registrationnumber"
	infoProgram       = "Program"
	infoSection       = "Section"
	infoDateOfBirth   = "DateofBirth"
	infoAggAttendance = "AggAttendance"
	infoCgpa          = "CGPA"
	infoRollNumber    = "RollNumber"
	infoPendingFee    = "PendingFee"
)

func infoOr(info map[string]string, key, fallback string) string {
	value, ok := info[key]
	if !ok {
		return fallback
	}
	return value
}

// MergeAttendance joins each course card with the summary row of the same
// course name. Cards without a summary row get "N/A" details.
func MergeAttendance(attendance []ums.Attendance, summary []ums.AttendanceSummary) []Attendance {
	byCourse := make(map[string]ums.AttendanceSummary, len(summary))
	for _, s := range summary {
		if _, exists := byCourse[s.CourseName]; exists {
			continue
		}
		byCourse[s.CourseName] = s
	}

	out := make([]Attendance, 0, len(attendance))
	for _, a := range attendance {
		merged := Attendance{
			Course:       a.Course,
			Percentage:   a.Percentage,
			LastAttended: store.NotAvailable,
			Attended:     store.NotAvailable,
			Delivered:    store.NotAvailable,
			DutyLeaves:   store.NotAvailable,
		}
		s, ok := byCourse[a.Course]
		if ok {
			merged.LastAttended = s.LastAttended
			merged.Attended = s.Attended
			merged.Delivered = s.Delivered
			merged.DutyLeaves = s.DutyLeaves
		}
		out = append(out, merged)
	}
	return out
}

func NewDisplay(data ums.Data) Display {
	info := data.Info
	display := Display{
		StudentName:   infoOr(info, infoStudentName, store.NotAvailable),
		RegNo:         infoOr(info, infoRegNo, store.NotAvailable),
		Program:       infoOr(info, infoProgram, store.NotAvailable),
		Section:       infoOr(info, infoSection, store.NotAvailable),
		DateOfBirth:   infoOr(info, infoDateOfBirth, store.NotAvailable),
		AggAttendance: infoOr(info, infoAggAttendance, store.NotAvailable),
		Cgpa:          infoOr(info, infoCgpa, store.NotAvailable),
		RollNumber:    infoOr(info, infoRollNumber, store.NotAvailable),
		PendingFee:    infoOr(info, infoPendingFee, store.NotAvailable),
		TotalCredits:  FormatCredits(TotalCredits(data.Grades)),

		TermData:           make([]TermData, 0, len(data.Terms)),
		Grades:             make([]Grade, 0, len(data.Grades)),
		Assignments:        make([]Assignment, 0, len(data.Assignments)),
		DetailedAttendance: make([]CourseAttendance, 0, len(data.Attendance)),
		Attendance:         MergeAttendance(data.Attendance, data.AttendanceSummary),
		Messages:           make([]Message, 0, len(data.Messages)),
		ContactInfo: store.ContactInfo{
			ContactNumber: data.Contact.Number,
			IsVerified:    data.Contact.Verified,
		},
		Announcements:     make([]Announcement, 0, len(data.Announcements)),
		AttendanceSummary: make([]AttendanceSummary, 0, len(data.AttendanceSummary)),
		TermWiseMarks:     make([]TermMarks, 0, len(data.TermMarks)),
	}

	for _, t := range data.Terms {
		display.TermData = append(display.TermData, TermData{TermId: t.TermId, Tgpa: t.Tgpa})
	}
	for _, g := range data.Grades {
		display.Grades = append(display.Grades, Grade(g))
	}
	for _, a := range data.Assignments {
		display.Assignments = append(display.Assignments, Assignment{
			CourseCode: a.CourseCode,
			Type:       string(a.Type),
			Obtained:   a.Obtained,
			Total:      a.Total,
		})
	}
	for _, a := range data.Attendance {
		display.DetailedAttendance = append(display.DetailedAttendance, CourseAttendance{
			Course:     a.Course,
			Attendance: a.Percentage,
		})
	}
	for _, m := range data.Messages {
		display.Messages = append(display.Messages, Message{Title: m.Title, Message: m.Body})
	}
	for _, a := range data.Announcements {
		display.Announcements = append(display.Announcements, Announcement{
			Subject:      a.Subject,
			Announcement: a.Text,
			Time:         a.Time,
			Date:         a.Date,
			UploadedBy:   a.UploadedBy,
			EmployeeName: a.EmployeeName,
		})
	}
	for _, s := range data.AttendanceSummary {
		display.AttendanceSummary = append(display.AttendanceSummary, AttendanceSummary(s))
	}
	for _, term := range data.TermMarks {
		marks := TermMarks{TermId: term.TermId, Courses: make([]CourseMarks, 0, len(term.Courses))}
		for _, course := range term.Courses {
			courseMarks := CourseMarks{
				CourseName: course.Name,
				Components: make([]MarkComponent, 0, len(course.Components)),
			}
			for _, c := range course.Components {
				courseMarks.Components = append(courseMarks.Components, MarkComponent(c))
			}
			marks.Courses = append(marks.Courses, courseMarks)
		}
		display.TermWiseMarks = append(display.TermWiseMarks, marks)
	}

	return display
}

// NewRecord is the part of a scrape that is cached for other students to
// see.
func NewRecord(data ums.Data) store.StudentRecord {
	info := data.Info
	return store.StudentRecord{
		StudentName: infoOr(info, infoStudentName, store.NotLoggedInName),
		RegNo:       infoOr(info, infoRegNo, data.RegNo),
		Program:     infoOr(info, infoProgram, store.NotAvailable),
		Section:     infoOr(info, infoSection, store.NotAvailable),
		Cgpa:        infoOr(info, infoCgpa, store.NotAvailable),
		ContactInfo: &store.ContactInfo{
			ContactNumber: data.Contact.Number,
			IsVerified:    data.Contact.Verified,
		},
	}
}
