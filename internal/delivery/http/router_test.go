package http_test

import (
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/aliskhannn/revision-tracker-bot/internal/delivery/http"
	httpH "github.com/aliskhannn/revision-tracker-bot/internal/delivery/http/handlers"
	"github.com/aliskhannn/revision-tracker-bot/internal/service"
	"github.com/aliskhannn/revision-tracker-bot/internal/storage/memory"
)

const ownerHeader = "42"

func testRouter(t *testing.T, now time.Time) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	repos := store.Repositories()
	opt := service.WithClock(func() time.Time { return now })

	topics := service.NewTopicService(repos, store, opt)
	revisions := service.NewRevisionService(repos, store, opt)
	reset := service.NewResetService(repos, store, opt)
	settings := service.NewSettingsService(repos, store, opt)
	agenda := service.NewAgendaService(repos, opt)

	return httpapi.NewRouter(httpapi.RouterConfig{
		Logger:          zap.NewNop(),
		TopicHandler:    httpH.NewTopicHandler(topics),
		RevisionHandler: httpH.NewRevisionHandler(revisions, reset),
		SettingsHandler: httpH.NewSettingsHandler(settings),
		AgendaHandler:   httpH.NewAgendaHandler(agenda),
		HealthHandler:   httpH.NewHealthHandler(),
	})
}

func do(t *testing.T, r nethttp.Handler, method, path, owner, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *nethttp.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if owner != "" {
		req.Header.Set("X-Owner-ID", owner)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(out); err != nil {
		t.Fatalf("decode: %v body=%s", err, rr.Body.String())
	}
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, rr, &env)
	return env.Error.Code
}

func keys(ns []int64) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = time.Unix(0, n).UTC().Format("2006-01-02")
	}
	return out
}

// createSubTopic makes a topic and an easy subtopic studied on 2024-01-01 and returns the subtopic id.
func createSubTopic(t *testing.T, r nethttp.Handler) string {
	t.Helper()

	rr := do(t, r, nethttp.MethodPost, "/api/topics", ownerHeader, `{"title":"Maths"}`)
	if rr.Code != nethttp.StatusCreated {
		t.Fatalf("create topic status=%d body=%s", rr.Code, rr.Body.String())
	}
	var topic struct {
		Topic struct {
			ID string `json:"id"`
		} `json:"topic"`
	}
	decode(t, rr, &topic)

	study := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC).UnixNano()
	body := fmt.Sprintf(`{"main_topic_id":%q,"title":"Integrals","difficulty":"easy","study_date":%d}`, topic.Topic.ID, study)
	rr = do(t, r, nethttp.MethodPost, "/api/subtopics", ownerHeader, body)
	if rr.Code != nethttp.StatusCreated {
		t.Fatalf("create subtopic status=%d body=%s", rr.Code, rr.Body.String())
	}
	var sub struct {
		SubTopic struct {
			ID string `json:"id"`
		} `json:"sub_topic"`
	}
	decode(t, rr, &sub)
	return sub.SubTopic.ID
}

func TestHealthCheck(t *testing.T) {
	r := testRouter(t, time.Now())

	rr := do(t, r, nethttp.MethodGet, "/healthcheck", "", "")
	if rr.Code != nethttp.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
}

func TestOwnerHeaderRequired(t *testing.T) {
	r := testRouter(t, time.Now())

	tests := []struct {
		name   string
		owner  string
		status int
		code   string
	}{
		{"missing", "", nethttp.StatusUnauthorized, "missing_owner"},
		{"not a number", "abc", nethttp.StatusBadRequest, "invalid_owner"},
		{"negative", "-5", nethttp.StatusBadRequest, "invalid_owner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, r, nethttp.MethodGet, "/api/topics", tt.owner, "")
			if rr.Code != tt.status {
				t.Fatalf("status=%d want=%d", rr.Code, tt.status)
			}
			if got := errorCode(t, rr); got != tt.code {
				t.Fatalf("code=%q want=%q", got, tt.code)
			}
		})
	}
}

func TestPlannedDatesAndMarking(t *testing.T) {
	r := testRouter(t, time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC))
	id := createSubTopic(t, r)

	rr := do(t, r, nethttp.MethodGet, "/api/subtopics/"+id+"/planned-dates", ownerHeader, "")
	if rr.Code != nethttp.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var planned struct {
		Dates []int64 `json:"dates"`
	}
	decode(t, rr, &planned)
	want := []string{"2024-01-08", "2024-01-22", "2024-02-15", "2024-03-31"}
	if got := keys(planned.Dates); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("planned dates=%v want=%v", got, want)
	}

	rr = do(t, r, nethttp.MethodPost, "/api/subtopics/"+id+"/revisions/2", ownerHeader, "")
	if rr.Code != nethttp.StatusOK {
		t.Fatalf("mark status=%d body=%s", rr.Code, rr.Body.String())
	}
	var marked struct {
		Schedule struct {
			Schedule struct {
				ReviewCount    int    `json:"review_count"`
				ReviewStatuses []bool `json:"review_statuses"`
				NextReview     int64  `json:"next_review"`
			} `json:"schedule"`
		} `json:"schedule"`
	}
	decode(t, rr, &marked)
	sched := marked.Schedule.Schedule
	if sched.ReviewCount != 1 || !sched.ReviewStatuses[1] || sched.ReviewStatuses[0] {
		t.Fatalf("unexpected schedule after mark: %+v", sched)
	}
	if got := keys([]int64{sched.NextReview})[0]; got != "2024-01-08" {
		t.Fatalf("next review=%s want=2024-01-08", got)
	}

	rr = do(t, r, nethttp.MethodPost, "/api/subtopics/"+id+"/revisions/5", ownerHeader, "")
	if rr.Code != nethttp.StatusBadRequest {
		t.Fatalf("out of range status=%d want=400", rr.Code)
	}

	rr = do(t, r, nethttp.MethodDelete, "/api/subtopics/"+id+"/revisions/2", ownerHeader, "")
	if rr.Code != nethttp.StatusOK {
		t.Fatalf("unmark status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRescheduleMovesOverdueToTomorrow(t *testing.T) {
	r := testRouter(t, time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC))
	id := createSubTopic(t, r)

	rr := do(t, r, nethttp.MethodPost, "/api/subtopics/"+id+"/reschedule", ownerHeader, "")
	if rr.Code != nethttp.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(t, r, nethttp.MethodGet, "/api/subtopics/"+id+"/planned-dates", ownerHeader, "")
	var planned struct {
		Dates []int64 `json:"dates"`
	}
	decode(t, rr, &planned)
	// 2024-01-08 is overdue on the 10th, so every pending slot moves by 3 days.
	want := []string{"2024-01-11", "2024-01-25", "2024-02-18", "2024-04-03"}
	if got := keys(planned.Dates); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("planned dates=%v want=%v", got, want)
	}
}

func TestErrorKindsMapToStatus(t *testing.T) {
	r := testRouter(t, time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC))
	id := createSubTopic(t, r)

	tests := []struct {
		name   string
		method string
		path   string
		owner  string
		status int
		code   string
	}{
		{"foreign owner", nethttp.MethodGet, "/api/subtopics/" + id + "/planned-dates", "7", nethttp.StatusForbidden, "unauthorized"},
		{"unknown subtopic", nethttp.MethodGet, "/api/subtopics/1b4e28ba-2fa1-11d2-883f-0016d3cca427/planned-dates", ownerHeader, nethttp.StatusNotFound, "not_found"},
		{"bad uuid", nethttp.MethodPost, "/api/subtopics/nope/review", ownerHeader, nethttp.StatusBadRequest, "invalid_argument"},
		{"bad difficulty", nethttp.MethodGet, "/api/settings/intervals/extreme", ownerHeader, nethttp.StatusBadRequest, "invalid_argument"},
		{"bad month", nethttp.MethodGet, "/api/agenda/calendar?year=2024&month=13", ownerHeader, nethttp.StatusBadRequest, "invalid_argument"},
		{"reversed range", nethttp.MethodGet, "/api/agenda/planned?start=1704931200000000000&end=1704067200000000000", ownerHeader, nethttp.StatusBadRequest, "invalid_argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, r, tt.method, tt.path, tt.owner, "")
			if rr.Code != tt.status {
				t.Fatalf("status=%d want=%d body=%s", rr.Code, tt.status, rr.Body.String())
			}
			if got := errorCode(t, rr); got != tt.code {
				t.Fatalf("code=%q want=%q", got, tt.code)
			}
		})
	}
}

func TestAgendaEndpoints(t *testing.T) {
	r := testRouter(t, time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC))
	createSubTopic(t, r)

	onFirstRevision := time.Date(2024, time.January, 8, 15, 0, 0, 0, time.UTC).UnixNano()
	rr := do(t, r, nethttp.MethodGet, fmt.Sprintf("/api/agenda/due?date=%d", onFirstRevision), ownerHeader, "")
	var due struct {
		Due []json.RawMessage `json:"due"`
	}
	decode(t, rr, &due)
	if len(due.Due) != 1 {
		t.Fatalf("due on first revision day: got %d items", len(due.Due))
	}

	rr = do(t, r, nethttp.MethodGet, "/api/agenda/overdue", ownerHeader, "")
	var overdue struct {
		Overdue []json.RawMessage `json:"overdue"`
	}
	decode(t, rr, &overdue)
	if len(overdue.Overdue) != 1 {
		t.Fatalf("overdue as of now: got %d items", len(overdue.Overdue))
	}

	rr = do(t, r, nethttp.MethodGet, "/api/agenda/missed", ownerHeader, "")
	var missed struct {
		Missed []string `json:"missed"`
	}
	decode(t, rr, &missed)
	if len(missed.Missed) != 1 || missed.Missed[0] != "2024-01-08" {
		t.Fatalf("missed=%v", missed.Missed)
	}

	rr = do(t, r, nethttp.MethodGet, "/api/agenda/calendar?year=2024&month=1", ownerHeader, "")
	if rr.Code != nethttp.StatusOK {
		t.Fatalf("calendar status=%d body=%s", rr.Code, rr.Body.String())
	}
	var cal struct {
		Days []struct {
			DateKey string `json:"date_key"`
			Missed  bool   `json:"missed"`
		} `json:"days"`
	}
	decode(t, rr, &cal)
	var missedKeys []string
	for _, d := range cal.Days {
		if d.Missed {
			missedKeys = append(missedKeys, d.DateKey)
		}
	}
	if len(missedKeys) != 1 || missedKeys[0] != "2024-01-08" {
		t.Fatalf("calendar missed days=%v", missedKeys)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	r := testRouter(t, time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC))

	rr := do(t, r, nethttp.MethodGet, "/api/settings/defaults", ownerHeader, "")
	var defaults struct {
		Intervals struct {
			Medium []int `json:"medium"`
		} `json:"intervals"`
	}
	decode(t, rr, &defaults)
	if fmt.Sprint(defaults.Intervals.Medium) != "[3 7 21 45 90]" {
		t.Fatalf("default medium intervals=%v", defaults.Intervals.Medium)
	}

	body := `{"intervals":{"easy":[2,4],"medium":[1,2,3],"hard":[1]},"preferred_review_days":[1,3],"timezone":"Europe/Berlin"}`
	rr = do(t, r, nethttp.MethodPut, "/api/settings", ownerHeader, body)
	if rr.Code != nethttp.StatusOK {
		t.Fatalf("save status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(t, r, nethttp.MethodGet, "/api/settings/intervals/easy", ownerHeader, "")
	var easy struct {
		Intervals []int `json:"intervals"`
	}
	decode(t, rr, &easy)
	if fmt.Sprint(easy.Intervals) != "[2 4]" {
		t.Fatalf("easy intervals=%v", easy.Intervals)
	}

	rr = do(t, r, nethttp.MethodPut, "/api/settings", ownerHeader, `{"intervals":{"easy":[1],"medium":[1],"hard":[1]},"timezone":"Mars/Olympus"}`)
	if rr.Code != nethttp.StatusBadRequest {
		t.Fatalf("bad timezone status=%d want=400", rr.Code)
	}

	rr = do(t, r, nethttp.MethodPut, "/api/settings", ownerHeader, `{"intervals":{"easy":[1],"medium":[1],"hard":[2147483648]}}`)
	if rr.Code != nethttp.StatusBadRequest {
		t.Fatalf("oversized interval status=%d want=400 body=%s", rr.Code, rr.Body.String())
	}
	if got := errorCode(t, rr); got != "invalid_argument" {
		t.Fatalf("oversized interval code=%q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := testRouter(t, time.Now())

	req := httptest.NewRequest(nethttp.MethodOptions, "/api/topics", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", nethttp.MethodPost)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow-origin=%q", got)
	}
}

func TestCalendarDefaultsToOwnerMonth(t *testing.T) {
	// 22:00 UTC on Jan 31 is already Feb 1 in Tokyo.
	r := testRouter(t, time.Date(2024, time.January, 31, 22, 0, 0, 0, time.UTC))

	body := `{"intervals":{"easy":[7,21,45,90],"medium":[3,7,21,45,90],"hard":[1,3,7,21,45]},"timezone":"Asia/Tokyo"}`
	if rr := do(t, r, nethttp.MethodPut, "/api/settings", ownerHeader, body); rr.Code != nethttp.StatusOK {
		t.Fatalf("save status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr := do(t, r, nethttp.MethodGet, "/api/agenda/calendar", ownerHeader, "")
	if rr.Code != nethttp.StatusOK {
		t.Fatalf("calendar status=%d body=%s", rr.Code, rr.Body.String())
	}
	var cal struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Days  []struct {
			DateKey string `json:"date_key"`
		} `json:"days"`
	}
	decode(t, rr, &cal)
	if cal.Year != 2024 || cal.Month != 2 {
		t.Fatalf("calendar defaulted to %d-%d, want 2024-2", cal.Year, cal.Month)
	}
	if len(cal.Days) != 29 || cal.Days[0].DateKey != "2024-02-01" {
		t.Fatalf("days=%d, want the 29 days of February 2024", len(cal.Days))
	}
}
