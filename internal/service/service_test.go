package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
	"umsassist-backend/internal/components/chrono"
	"umsassist-backend/internal/components/retry"
	"umsassist-backend/internal/components/telemetry"
	"umsassist-backend/internal/scrapers/ums"
	"umsassist-backend/internal/store"

	"github.com/stretchr/testify/require"
)

type fakePortal struct {
	mutex sync.Mutex
	calls int
	data  ums.Data
	err   error
}

func (p *fakePortal) Scrape(ctx context.Context, regNo, password string) (ums.Data, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.calls++
	if p.err != nil {
		return ums.Data{}, p.err
	}
	data := p.data
	data.RegNo = regNo
	return data, nil
}

func (p *fakePortal) set(data ums.Data, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.data = data
	p.err = err
}

func (p *fakePortal) callCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.calls
}

type fakeRanking struct {
	response json.RawMessage
	err      error
}

func (r fakeRanking) StudentInfo(ctx context.Context, regNo string) (json.RawMessage, error) {
	return r.response, r.err
}

type fakeNotifier struct {
	mutex    sync.Mutex
	reports  []store.GlitchReport
	failWith error
}

func (n *fakeNotifier) Notify(ctx context.Context, id int64, report store.GlitchReport) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.reports = append(n.reports, report)
	return n.failWith
}

type testEnv struct {
	portal   *fakePortal
	store    store.Store
	notifier *fakeNotifier
	tel      *telemetry.TestAPI
	handler  http.Handler
}

func setupService(t testing.TB, ranking fakeRanking) testEnv {
	database, err := store.Config{File: ":memory:"}.OpenDB()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, store.Migrate(context.Background(), database))

	tel := telemetry.NewTestAPI()
	policy := retry.Default()
	policy.Backoff = retry.Constant(time.Millisecond)
	studentStore := store.NewStore(
		database,
		chrono.FixedImpl{At: time.Unix(1_700_000_000, 0)},
		tel,
		store.WithRetryPolicy(policy),
	)

	portal := &fakePortal{}
	notifier := &fakeNotifier{}
	service := NewService(portal, studentStore, ranking, notifier, Options{}, tel)
	return testEnv{
		portal:   portal,
		store:    studentStore,
		notifier: notifier,
		tel:      tel,
		handler:  service.Router(),
	}
}

func (e testEnv) do(t testing.TB, method, target string, body any) (int, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		serialized, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(serialized)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

var scrapedData = ums.Data{
	Info: map[string]string{
		"StudentName":        "Asha Verma",
		"Registrationnumber": "12214567",
		"Program":            "B.Tech CSE",
		"Section":            "K22AB",
		"CGPA":               "8.72",
	},
	Grades: []ums.Grade{
		{Course: "CSE310 : Programming in Java", Credits: "4", Grade: "A+"},
		{Course: "MTH166 : Differential Equations", Credits: "3.5", Grade: "B"},
	},
	Contact: ums.ContactInfo{Number: "9876543210", Verified: "1"},
}

func TestLoginValidation(t *testing.T) {
	env := setupService(t, fakeRanking{})

	testCases := []map[string]string{
		{},
		{"regNo": "12214567"},
		{"password": "hunter2"},
		{"regNo": "", "password": "hunter2"},
	}
	for _, body := range testCases {
		status, out := env.do(t, "POST", "/login", body)
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "Registration number and password are required", out["error"])
	}
	require.Equal(t, 0, env.portal.callCount())
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := setupService(t, fakeRanking{})
	env.portal.set(ums.Data{}, ums.ErrLoginFailed)

	status, out := env.do(t, "POST", "/login", map[string]string{"regNo": "12214567", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, false, out["success"])
	require.Equal(t, "Invalid credentials", out["message"])

	_, found, err := env.store.GetStudent(context.Background(), "12214567")
	require.NoError(t, err)
	require.False(t, found)
}

func TestLoginAndCacheFallback(t *testing.T) {
	env := setupService(t, fakeRanking{})
	env.portal.set(scrapedData, nil)

	credentials := map[string]string{"regNo": "12214567", "password": "hunter2"}
	status, out := env.do(t, "POST", "/login", credentials)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, out["success"])
	require.NotContains(t, out, "source")

	studentData := out["student_data"].(map[string]any)
	require.Equal(t, "Asha Verma", studentData["studentName"])
	require.Equal(t, "7.5", studentData["totalCredits"])
	require.Equal(t, "N/A", studentData["dateOfBirth"])

	env.portal.set(ums.Data{}, errors.New("portal is down"))
	status, out = env.do(t, "POST", "/login", credentials)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, out["success"])
	require.Equal(t, "cache", out["source"])

	cached := out["student_data"].(map[string]any)
	require.Equal(t, "Asha Verma", cached["studentName"])
	require.Equal(t, "8.72", cached["cgpa"])
	require.Equal(t, map[string]any{
		"contactNumber": "9876543210",
		"isVerified":    "1",
	}, cached["contactInfo"])
	require.NotContains(t, cached, "password")
}

func TestLoginUpstreamFailureWithoutCache(t *testing.T) {
	env := setupService(t, fakeRanking{})
	env.portal.set(ums.Data{}, errors.New("portal is down"))

	status, out := env.do(t, "POST", "/login", map[string]string{"regNo": "12214567", "password": "hunter2"})
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "Failed to fetch student data", out["error"])
	require.Equal(t, "portal is down", out["details"])
}

func TestStudentRank(t *testing.T) {
	env := setupService(t, fakeRanking{response: json.RawMessage(`{"rank": 12, "cgpa": 9.1}`)})

	status, out := env.do(t, "POST", "/get-student-info", map[string]string{})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Registration number is required", out["error"])

	status, out = env.do(t, "POST", "/get-student-info", map[string]string{"registrationNumber": "12214567"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(12), out["rank"])

	failing := setupService(t, fakeRanking{err: errors.New("connection refused")})
	status, out = failing.do(t, "POST", "/get-student-info", map[string]string{"registrationNumber": "12214567"})
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "Failed to connect to rank service", out["error"])
	require.Equal(t, "connection refused", out["details"])
}

func seedStudents(t testing.TB, env testEnv, regNos ...string) {
	for i, regNo := range regNos {
		err := env.store.SaveStudent(context.Background(), regNo, store.StudentRecord{
			StudentName: fmt.Sprintf("Student %d", i),
			Program:     "B.Tech CSE",
		})
		require.NoError(t, err)
	}
}

func TestSearchUsers(t *testing.T) {
	env := setupService(t, fakeRanking{})

	status, out := env.do(t, "GET", "/api/search-users?query=12", nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Search query must be at least 3 characters", out["error"])

	var regNos []string
	for i := 0; i < 15; i++ {
		regNos = append(regNos, fmt.Sprintf("1221%04d", i))
	}
	regNos = append(regNos, "11900001")
	seedStudents(t, env, regNos...)

	status, out = env.do(t, "GET", "/api/search-users?query=1221", nil)
	require.Equal(t, http.StatusOK, status)
	results := out["results"].([]any)
	require.Len(t, results, 10)
	first := results[0].(map[string]any)
	require.Contains(t, first["regNo"], "1221")
	require.Equal(t, "B.Tech CSE", first["program"])

	status, out = env.do(t, "GET", "/api/search-users?query=119000", nil)
	require.Equal(t, http.StatusOK, status)
	results = out["results"].([]any)
	require.Len(t, results, 1)
	require.Equal(t, "11900001", results[0].(map[string]any)["regNo"])

	status, out = env.do(t, "GET", "/api/search-users?query=999", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []any{}, out["results"])
}

func TestRankMatches(t *testing.T) {
	ranked := rankMatches("ABC", []string{"xxabcxx", "abc", "zzz", "abcd"})
	require.Equal(t, []string{"abc", "abcd", "xxabcxx"}, ranked)
}

func TestMessaging(t *testing.T) {
	env := setupService(t, fakeRanking{})
	seedStudents(t, env, "111", "222")

	status, out := env.do(t, "POST", "/api/send-message", map[string]string{"sender": "111", "recipient": "222"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Sender, recipient, and text are required", out["error"])

	status, out = env.do(t, "POST", "/api/send-message", map[string]string{
		"sender":    "111",
		"recipient": "999",
		"text":      "anyone there?",
	})
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Recipient not found", out["error"])

	status, out = env.do(t, "POST", "/api/send-message", map[string]string{
		"sender":    "999",
		"recipient": "111",
		"text":      "anyone there?",
	})
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Sender not found", out["error"])

	status, out = env.do(t, "GET", "/api/get-conversations?regNo=111", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []any{}, out["conversations"])

	status, out = env.do(t, "POST", "/api/send-message", map[string]string{
		"sender":    "222",
		"recipient": "111",
		"text":      "hello",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, out["success"])
	message := out["message"].(map[string]any)
	require.Equal(t, "111_222", message["conversation_id"])
	require.Equal(t, false, message["read"])

	status, out = env.do(t, "GET", "/api/get-conversations?regNo=111", nil)
	require.Equal(t, http.StatusOK, status)
	conversations := out["conversations"].([]any)
	require.Len(t, conversations, 1)
	conversation := conversations[0].(map[string]any)
	require.Equal(t, "222", conversation["other_user"])
	require.Equal(t, float64(1), conversation["unread_count"])

	status, out = env.do(t, "GET", "/api/get-messages?regNo=111", nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Both registration numbers are required", out["error"])

	status, out = env.do(t, "GET", "/api/get-messages?regNo=111&otherRegNo=222", nil)
	require.Equal(t, http.StatusOK, status)
	messages := out["messages"].([]any)
	require.Len(t, messages, 1)
	require.Equal(t, "hello", messages[0].(map[string]any)["text"])

	_, out = env.do(t, "GET", "/api/get-conversations?regNo=111", nil)
	conversation = out["conversations"].([]any)[0].(map[string]any)
	require.Equal(t, float64(0), conversation["unread_count"])

	status, out = env.do(t, "DELETE", "/api/delete-conversation?regNo=222&otherRegNo=111", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Conversation deleted successfully", out["message"])
	require.Equal(t, float64(1), out["deleted_count"])

	_, out = env.do(t, "GET", "/api/get-messages?regNo=111&otherRegNo=222", nil)
	require.Equal(t, []any{}, out["messages"])
}

func TestReportGlitch(t *testing.T) {
	env := setupService(t, fakeRanking{})

	status, out := env.do(t, "POST", "/api/report-glitch", map[string]any{"type": "ui"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Type and description are required", out["error"])
	require.Empty(t, env.notifier.reports)

	status, out = env.do(t, "POST", "/api/report-glitch", map[string]any{
		"type":        "ui",
		"description": "attendance card overflows",
		"userInfo":    map[string]string{"regNo": "12214567", "name": "Asha"},
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Glitch report submitted successfully", out["message"])
	require.Equal(t, float64(1), out["report_id"])

	env.notifier.failWith = errors.New("smtp unavailable")
	status, out = env.do(t, "POST", "/api/report-glitch", map[string]any{
		"type":        "data",
		"description": "wrong cgpa",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(2), out["report_id"])
	require.True(t, env.tel.Has("warning", report_service_notify_glitch))

	require.Len(t, env.notifier.reports, 2)
	require.Equal(t, "Asha", env.notifier.reports[0].UserName)
	require.Equal(t, "Unknown", env.notifier.reports[1].UserRegNo)
	require.Equal(t, "Unknown User", env.notifier.reports[1].UserName)
}

func TestGetStudentInfo(t *testing.T) {
	env := setupService(t, fakeRanking{})

	status, out := env.do(t, "GET", "/api/get-student-info", nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Registration number is required", out["error"])

	status, out = env.do(t, "GET", "/api/get-student-info?regNo=555", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "User 555", out["studentName"])
	require.Equal(t, "555", out["regNo"])
	require.Equal(t, "N/A", out["program"])

	seedStudents(t, env, "555")
	_, out = env.do(t, "GET", "/api/get-student-info?regNo=555", nil)
	require.Equal(t, "Student 0", out["studentName"])
}
