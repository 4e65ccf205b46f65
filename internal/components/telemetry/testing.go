package telemetry

import (
	"strings"
	"sync"
)

// Report is a single call captured by TestAPI.
type Report struct {
	Level  string
	Id     string
	Params []any
}

// TestAPI records reports in memory so tests can assert on them.
type TestAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func NewTestAPI() *TestAPI {
	return &TestAPI{}
}

func (t *TestAPI) record(level, id string, params []any) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.reports = append(t.reports, Report{Level: level, Id: id, Params: params})
}

func (t *TestAPI) ReportBroken(id string, params ...any) {
	t.record("broken", id, params)
}

func (t *TestAPI) ReportWarning(id string, params ...any) {
	t.record("warning", id, params)
}

func (t *TestAPI) ReportDebug(msg string, params ...any) {}

func (t *TestAPI) ReportCount(id string, count int64) {
	t.record("count", id, []any{count})
}

// Reports returns the recorded reports at the given level.
func (t *TestAPI) Reports(level string) []Report {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	var out []Report
	for _, r := range t.reports {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// Has returns true if a report at the given level has an id ending in suffix.
func (t *TestAPI) Has(level, suffix string) bool {
	for _, r := range t.Reports(level) {
		if strings.HasSuffix(r.Id, suffix) {
			return true
		}
	}
	return false
}
