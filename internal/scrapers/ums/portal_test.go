package ums

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	testRegNo    = "12214567"
	testPassword = "hunter2"
	testSession  = "session-1"
)

const loginPageHtml = `<html><body><form method="post" action="./">
<input type="hidden" name="__VIEWSTATE" id="__VIEWSTATE" value="vs-token" />
<input type="hidden" name="__VIEWSTATEGENERATOR" id="__VIEWSTATEGENERATOR" value="gen-token" />
<input type="hidden" name="__EVENTVALIDATION" id="__EVENTVALIDATION" value="ev-token" />
<input name="txtU" type="text" id="txtU" />
<input name="TxtpwdAutoId_8767" type="password" id="TxtpwdAutoId_8767" />
<input type="submit" name="iBtnLogins150203125" value="Login" />
</form></body></html>`

const resultPageHtml = `<html><body>
<table>
<tr><td colspan="6"><p>TermId: 22231; TGPA: 8.45</p></td></tr>
<tr><td colspan="6"><p>TermId: 22232; TGPA: 9.1</p></td></tr>
<tr class="rgRow"><td>1</td><td>22231</td><td>CSE101 Programming</td><td>4</td><td>A+</td></tr>
<tr class="rgAltRow"><td>2</td><td>22231</td><td>MTH201 Calculus</td><td>3.5</td><td>B</td></tr>
</table>
</body></html>`

const assignmentPageHtml = `<html><body><form>
<input type="hidden" name="__VIEWSTATE" value="assign-vs" />
<input type="hidden" name="__EVENTVALIDATION" value="assign-ev" />
</form></body></html>`

func assignmentRow(cells int, values map[int]string) string {
	var out strings.Builder
	out.WriteString(`<tr class="rgRow">`)
	for i := 0; i < cells; i++ {
		fmt.Fprintf(&out, "<td>%s</td>", values[i])
	}
	out.WriteString("</tr>")
	return out.String()
}

func assignmentViewAllHtml() string {
	return `<html><body>
<table id="ctl00_cphHeading_rgAssignment_ctl00">` +
		assignmentRow(11, map[int]string{1: "CSE101", 9: "18", 10: "20"}) +
		`</table>
<table id="ctl00_cphHeading_gvPracticalComponent_ctl00">` +
		assignmentRow(18, map[int]string{1: "CSE102", 16: "45", 17: "50"}) +
		`</table></body></html>`
}

// fakePortal imitates the pages of the portal used by the scraper.
type fakePortal struct {
	mutex     sync.Mutex
	failing   map[string]bool
	loginForm map[string]string
	calls     []string
}

func newFakePortal() *fakePortal {
	return &fakePortal{failing: map[string]bool{}}
}

func (p *fakePortal) fail(method string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.failing[method] = true
}

func (p *fakePortal) called(path string) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	for _, c := range p.calls {
		if c == path {
			return true
		}
	}
	return false
}

func (p *fakePortal) loginValue(key string) (string, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	value, ok := p.loginForm[key]
	return value, ok
}

func writeEnvelope(w http.ResponseWriter, d any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"d": d})
}

func (p *fakePortal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/lpuums")

	p.mutex.Lock()
	p.calls = append(p.calls, r.Method+" "+path)
	failing := p.failing[path]
	p.mutex.Unlock()

	if path == "/" {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, loginPageHtml)
			return
		}
		r.ParseForm()
		p.mutex.Lock()
		p.loginForm = map[string]string{}
		for key := range r.PostForm {
			p.loginForm[key] = r.PostForm.Get(key)
		}
		p.mutex.Unlock()

		if r.PostForm.Get("__VIEWSTATE") != "vs-token" ||
			r.PostForm.Get("txtU") != testRegNo ||
			r.PostForm.Get("TxtpwdAutoId_8767") != testPassword {
			fmt.Fprint(w, loginPageHtml)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "ASP.NET_SessionId", Value: testSession, Path: "/"})
		fmt.Fprint(w, `<html><body>Welcome</body></html>`)
		return
	}

	cookie, err := r.Cookie("ASP.NET_SessionId")
	if err != nil || cookie.Value != testSession {
		http.Error(w, "session expired", http.StatusUnauthorized)
		return
	}
	if failing {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	switch path {
	case "/frmStudentResult.aspx":
		fmt.Fprint(w, resultPageHtml)
	case "/StudentDashboard.aspx":
		fmt.Fprint(w, `<html><body><i class="iconsminds-information"></i></body></html>`)
	case "/frmstudentdownloadassignment.aspx":
		if r.Method == http.MethodGet {
			fmt.Fprint(w, assignmentPageHtml)
			return
		}
		r.ParseForm()
		if r.PostForm.Get("ctl00$cphHeading$Button1") != "View All" || r.PostForm.Get("__VIEWSTATE") != "assign-vs" {
			fmt.Fprint(w, assignmentPageHtml)
			return
		}
		fmt.Fprint(w, assignmentViewAllHtml())
	case "/StudentDashboard.aspx/GetStudentBasicInformation":
		writeEnvelope(w, []map[string]any{{
			"StudentName":        "Asha Verma",
			"Registrationnumber": testRegNo,
			"Program":            "B.Tech CSE",
			"Section":            "K22AB",
			"CGPA":               8.72,
			"StudentPicture":     "base64...",
			"PendingFee":         nil,
		}})
	case "/StudentDashboard.aspx/GetStudentCourses":
		writeEnvelope(w, `<div class="mycoursesdiv"><div class="c100 p90"><span>90%</span></div><p class="font-weight-medium">CSE101 Programming</p></div>
<div class="mycoursesdiv"><div class="c100 p75"><span>75%</span></div><p class="font-weight-medium">MTH201 Calculus</p></div>`)
	case "/StudentDashboard.aspx/GetStudentMessages":
		writeEnvelope(w, `<div class="mycoursesdiv"><p class="font-weight-medium">Fee reminder</p><p class="text-small text-muted">Pay before Friday</p></div>`)
	case "/StudentDashboard.aspx/GetStudentContactNo":
		writeEnvelope(w, "9876543210:1")
	case "/StudentDashboard.aspx/AnnouncementDetails":
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["LoginId"] != testRegNo || body["Type"] != "S" {
			writeEnvelope(w, []any{})
			return
		}
		writeEnvelope(w, []map[string]any{{
			"announcementid": 101,
			"subject":        "Holiday",
			"announcement":   "&lt;p&gt;Campus closed&lt;/p&gt;",
			"date":           "01 Jan 2025",
			"time":           "10:00 AM",
			"uploadedby":     "Admin",
			"employeename":   "R. Singh",
		}})
	case "/StudentDashboard.aspx/StudentAttendanceSummary":
		writeEnvelope(w, `<tr><td>CSE101 Programming</td><td>02 Jan</td><td>1</td><td>40</td><td>36</td><td>90</td><tr><td>Aggregate Attendance</td><td></td><td></td><td>40</td><td>36</td><td>90</td>`)
	case "/StudentDashboard.aspx/TermWiseMarks":
		writeEnvelope(w, `<a class="btn btn-link collapsed text-left" data-target="#collapse22231">Term Id : 22231</a>
<div id="collapse22231"><h4>CSE101 Programming</h4><table><tr><td>CA</td><td>25/30</td><td>25</td></tr></table></div>`)
	default:
		http.NotFound(w, r)
	}
}

func newTestPortal(t testing.TB) (*fakePortal, Options) {
	portal := newFakePortal()
	server := httptest.NewServer(portal)
	t.Cleanup(server.Close)

	return portal, Options{
		BaseUrl: server.URL + "/lpuums",
		Timeout: time.Second * 5,
	}
}
