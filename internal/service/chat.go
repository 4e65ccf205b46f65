package service

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"umsassist-backend/internal/store"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

const (
	report_service_get_messages = "service.get-messages"
	report_service_student_info = "service.get-student-info"
)

const (
	minSearchLength  = 3
	maxSearchResults = 10
	unknownName      = "Unknown"
)

type searchResult struct {
	RegNo       string `json:"regNo"`
	StudentName string `json:"studentName"`
	Program     string `json:"program"`
}

type searchResponse struct {
	Success bool           `json:"success"`
	Results []searchResult `json:"results"`
}

// rankMatches keeps the registration numbers containing query and orders
// them by similarity to it, most similar first.
func rankMatches(query string, regNos []string) []string {
	query = strings.ToLower(query)

	type match struct {
		regNo      string
		similarity float64
	}
	var matches []match
	for _, regNo := range regNos {
		lowered := strings.ToLower(regNo)
		if !strings.Contains(lowered, query) {
			continue
		}
		matches = append(matches, match{
			regNo:      regNo,
			similarity: matchr.JaroWinkler(query, lowered, false),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.regNo
	}
	return out
}

func (s Service) SearchUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("query")
	if utf8.RuneCountInString(query) < minSearchLength {
		WriteError(w, invalid(fmt.Sprintf("Search query must be at least %d characters", minSearchLength)))
		return
	}

	regNos, err := s.store.AllRegistrationNumbers(ctx)
	if err != nil {
		WriteFailure(w, "Failed to search users", err)
		return
	}

	results := []searchResult{}
	for _, regNo := range rankMatches(query, regNos) {
		if len(results) >= maxSearchResults {
			break
		}
		record, found, err := s.store.GetStudent(ctx, regNo)
		if err != nil {
			WriteFailure(w, "Failed to search users", err)
			return
		}
		if !found {
			continue
		}
		result := searchResult{
			RegNo:       regNo,
			StudentName: record.StudentName,
			Program:     record.Program,
		}
		if result.StudentName == "" {
			result.StudentName = unknownName
		}
		if result.Program == "" {
			result.Program = store.NotAvailable
		}
		results = append(results, result)
	}

	WriteJSON(w, http.StatusOK, searchResponse{Success: true, Results: results})
}

type sendMessageRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Text      string `json:"text"`
}

type sendMessageResponse struct {
	Success bool          `json:"success"`
	Message store.Message `json:"message"`
}

func (s Service) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req sendMessageRequest
	decodeBody(r, &req)
	if req.Sender == "" || req.Recipient == "" || req.Text == "" {
		WriteError(w, invalid("Sender, recipient, and text are required"))
		return
	}

	participants := []struct {
		regNo    string
		notFound string
	}{
		{regNo: req.Recipient, notFound: "Recipient not found"},
		{regNo: req.Sender, notFound: "Sender not found"},
	}
	for _, p := range participants {
		exists, err := s.store.HasRegistrationNumber(ctx, p.regNo)
		if err != nil {
			WriteFailure(w, "Failed to send message", err)
			return
		}
		if !exists {
			WriteError(w, notFound(p.notFound))
			return
		}
	}

	message, err := s.store.SaveMessage(ctx, req.Sender, req.Recipient, req.Text)
	if err != nil {
		WriteFailure(w, "Failed to send message", err)
		return
	}
	WriteJSON(w, http.StatusOK, sendMessageResponse{Success: true, Message: message})
}

type conversationsResponse struct {
	Success       bool                 `json:"success"`
	Conversations []store.Conversation `json:"conversations"`
}

func (s Service) GetConversations(w http.ResponseWriter, r *http.Request) {
	regNo := r.URL.Query().Get("regNo")
	if regNo == "" {
		WriteError(w, invalid("Registration number is required"))
		return
	}

	conversations, err := s.store.GetConversations(r.Context(), regNo)
	if err != nil {
		WriteFailure(w, "Failed to get conversations", err)
		return
	}
	WriteJSON(w, http.StatusOK, conversationsResponse{Success: true, Conversations: conversations})
}

type messagesResponse struct {
	Success  bool            `json:"success"`
	Messages []store.Message `json:"messages"`
}

// GetMessages returns the conversation between regNo and otherRegNo, then
// marks everything otherRegNo sent as read.
func (s Service) GetMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regNo := r.URL.Query().Get("regNo")
	otherRegNo := r.URL.Query().Get("otherRegNo")
	if regNo == "" || otherRegNo == "" {
		WriteError(w, invalid("Both registration numbers are required"))
		return
	}

	messages, err := s.store.GetMessages(ctx, regNo, otherRegNo)
	if err != nil {
		WriteFailure(w, "Failed to get messages", err)
		return
	}
	_, err = s.store.MarkMessagesRead(ctx, regNo, otherRegNo)
	if err != nil {
		s.tel.ReportWarning(report_service_get_messages, err, regNo, otherRegNo)
	}

	WriteJSON(w, http.StatusOK, messagesResponse{Success: true, Messages: messages})
}

type deleteConversationResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

func (s Service) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	regNo := r.URL.Query().Get("regNo")
	otherRegNo := r.URL.Query().Get("otherRegNo")
	if regNo == "" || otherRegNo == "" {
		WriteError(w, invalid("Both registration numbers are required"))
		return
	}

	deleted, err := s.store.DeleteConversation(r.Context(), regNo, otherRegNo)
	if err != nil {
		WriteFailure(w, "Failed to delete conversation", err)
		return
	}
	WriteJSON(w, http.StatusOK, deleteConversationResponse{
		Success:      true,
		Message:      "Conversation deleted successfully",
		DeletedCount: deleted,
	})
}

// GetStudentInfo returns the cached record for a student, a placeholder is
// returned when there is none or it cannot be read.
func (s Service) GetStudentInfo(w http.ResponseWriter, r *http.Request) {
	regNo := r.URL.Query().Get("regNo")
	if regNo == "" {
		WriteError(w, invalid("Registration number is required"))
		return
	}

	record, found, err := s.store.GetStudent(r.Context(), regNo)
	if err != nil {
		s.tel.ReportWarning(report_service_student_info, err, regNo)
	}
	if err != nil || !found {
		record = store.Placeholder(regNo)
	}
	WriteJSON(w, http.StatusOK, record)
}
