package ums

// Grade is a single graded course row from the result page.
type Grade struct {
	Course  string
	Credits string
	Grade   string
}

// TermGpa is the grade point average of one term.
type TermGpa struct {
	TermId string
	Tgpa   string
}

// Attendance is the attendance percentage shown on a dashboard course card.
type Attendance struct {
	Course     string
	Percentage string
}

// AttendanceSummary is one course row of the dashboard attendance table.
type AttendanceSummary struct {
	CourseName   string
	LastAttended string
	DutyLeaves   string
	Delivered    string
	Attended     string
}

// Message is a notice shown on the dashboard.
type Message struct {
	Title string
	Body  string
}

type ContactInfo struct {
	Number   string
	Verified string
}

type Announcement struct {
	Id           string
	Subject      string
	Text         string
	Time         string
	Date         string
	UploadedBy   string
	EmployeeName string
}

type AssignmentType string

const (
	AssignmentTheory    AssignmentType = "Theory"
	AssignmentPractical AssignmentType = "Practical"
)

type Assignment struct {
	CourseCode string
	Type       AssignmentType
	Obtained   string
	Total      string
}

type MarkComponent struct {
	Type      string
	Marks     string
	Weightage string
}

type CourseMarks struct {
	Name       string
	Components []MarkComponent
}

type TermMarks struct {
	TermId  string
	Courses []CourseMarks
}

// Data is everything scraped from the portal for one student. Sections that
// failed to load are left empty.
type Data struct {
	RegNo             string
	Info              map[string]string
	Grades            []Grade
	Terms             []TermGpa
	Attendance        []Attendance
	AttendanceSummary []AttendanceSummary
	Messages          []Message
	Contact           ContactInfo
	Announcements     []Announcement
	Assignments       []Assignment
	TermMarks         []TermMarks
}
