package store

import "fmt"

const (
	NotLoggedInName = "Not logged in yet"
	NotAvailable    = "N/A"
)

type ContactInfo struct {
	ContactNumber string `json:"contactNumber"`
	IsVerified    string `json:"isVerified"`
}

// StudentRecord is the cached subset of a student's profile.
type StudentRecord struct {
	StudentName string       `json:"studentName"`
	RegNo       string       `json:"regNo"`
	Program     string       `json:"program"`
	Section     string       `json:"section"`
	Cgpa        string       `json:"cgpa"`
	ContactInfo *ContactInfo `json:"contactInfo,omitempty"`
}

func (r StudentRecord) IsEmpty() bool {
	return r == StudentRecord{}
}

// Placeholder is what is shown for a registration number with nothing
// cached.
func Placeholder(regNo string) StudentRecord {
	return StudentRecord{
		StudentName: fmt.Sprintf("User %s", regNo),
		RegNo:       regNo,
		Program:     NotAvailable,
		Section:     NotAvailable,
		Cgpa:        NotAvailable,
		ContactInfo: &ContactInfo{},
	}
}

func notLoggedInRecord(regNo string) StudentRecord {
	return StudentRecord{
		StudentName: NotLoggedInName,
		RegNo:       regNo,
		Program:     NotAvailable,
		Section:     NotAvailable,
		Cgpa:        NotAvailable,
		ContactInfo: &ContactInfo{},
	}
}

type Message struct {
	Id             string `json:"id"`
	ConversationId string `json:"conversation_id"`
	Sender         string `json:"sender"`
	Recipient      string `json:"recipient"`
	Text           string `json:"text"`
	Timestamp      int64  `json:"timestamp"`
	Read           bool   `json:"read"`
}

type Conversation struct {
	ConversationId string  `json:"conversation_id"`
	OtherUser      string  `json:"other_user"`
	LatestMessage  Message `json:"latest_message"`
	UnreadCount    int     `json:"unread_count"`
	Timestamp      int64   `json:"timestamp"`
}

type GlitchReport struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	UserRegNo   string `json:"user_reg_no"`
	UserName    string `json:"user_name"`
}
