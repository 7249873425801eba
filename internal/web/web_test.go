package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classcal/internal/config"
	"classcal/internal/ical"
)

func testConfig() *config.Config {
	return &config.Config{
		Listen:       "127.0.0.1:0",
		Timezone:     "Australia/Sydney",
		CalendarName: "My Class Schedule",
		UIDPrefix:    "test",
		Meetings: []config.MeetingConfig{{
			ClassNbr:  "1001",
			Course:    "COMP1010 - Computing 1",
			Component: "Lecture",
			Schedule:  "Mo 9:00AM - 10:00AM",
			Dates:     "01/02/2024 - 29/02/2024",
			Location:  "Room 101",
		}},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	return NewServer(cfg, t.TempDir()).Handler()
}

func TestHandleHealth(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHandleCalendar(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/calendar.ics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "my-class-schedule.ics")

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR\r\n"))
	assert.Contains(t, body, "DTSTART;TZID=Australia/Sydney:20240205T090000")
	assert.Contains(t, body, "UID:test::1001::0")
}

func TestHandleCalendarCompileError(t *testing.T) {
	cfg := testConfig()
	cfg.Meetings[0].Schedule = "whenever"
	h := newTestServer(t, cfg)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/calendar.ics", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "unable to generate calendar")
}

func TestHandleOccurrencesShape(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/occurrences?days=14", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp occurrencesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Australia/Sydney", resp.Timezone)
	assert.NotNil(t, resp.Occurrences)
	// 14 days, give or take a DST transition inside the window.
	assert.InDelta(t, 14*24, resp.RangeEnd.Sub(resp.RangeStart).Hours(), 1.0)
}

func TestBasicAuth(t *testing.T) {
	cfg := testConfig()
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "user", Password: "secret"}
	h := newTestServer(t, cfg)

	// /health stays open.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Everything else requires credentials.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/calendar.ics", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/calendar.ics", nil)
	req.SetBasicAuth("user", "secret")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/calendar.ics", nil)
	req.SetBasicAuth("user", "wrong")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpandEvents(t *testing.T) {
	loc, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	ev := ical.Event{
		UID:     "test::1001::0",
		Start:   time.Date(2024, 2, 5, 9, 0, 0, 0, loc),
		End:     time.Date(2024, 2, 5, 10, 0, 0, 0, loc),
		Until:   time.Date(2024, 3, 1, 0, 0, 0, 0, loc),
		Summary: "COMP1010 Lecture",
		Exceptions: []time.Time{
			time.Date(2024, 2, 12, 9, 0, 0, 0, loc),
		},
	}

	rangeStart := time.Date(2024, 2, 1, 0, 0, 0, 0, loc)
	rangeEnd := time.Date(2024, 3, 1, 0, 0, 0, 0, loc)

	dtos, err := expandEvents([]ical.Event{ev}, rangeStart, rangeEnd)
	require.NoError(t, err)

	// Mondays Feb 5, 19, 26; Feb 12 is excluded.
	require.Len(t, dtos, 3)
	assert.Equal(t, 5, dtos[0].Start.Day())
	assert.Equal(t, 19, dtos[1].Start.Day())
	assert.Equal(t, 26, dtos[2].Start.Day())
	for _, d := range dtos {
		assert.Equal(t, time.Hour, d.End.Sub(d.Start))
		assert.Equal(t, "COMP1010 Lecture", d.Summary)
	}
}
