package holiday

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classcal/internal/config"
)

func utcDays(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format("2006-01-02")
	}
	return out
}

func TestParseDates(t *testing.T) {
	days, err := ParseDates([]string{"2024-04-18", " 2024-06-10 "}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-04-18", "2024-06-10"}, utcDays(days))
	assert.Equal(t, 0, days[0].Hour())
}

func TestParseDatesMalformed(t *testing.T) {
	_, err := ParseDates([]string{"18/04/2024"}, time.UTC)
	assert.Error(t, err)
}

const feedBody = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//holidays//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:easter@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240418\r\n" +
	"SUMMARY:Easter\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:kings-birthday@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20240610T000000\r\n" +
	"SUMMARY:King's birthday\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestDatesFromICS(t *testing.T) {
	days, err := DatesFromICS([]byte(feedBody), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-04-18", "2024-06-10"}, utcDays(days))
}

func TestDatesFromICSMalformed(t *testing.T) {
	_, err := DatesFromICS([]byte("not a calendar"), time.UTC)
	assert.Error(t, err)
}

func TestFetcherCachesWithETag(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(feedBody))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	feed := Feed{ID: "test", URL: srv.URL}

	body, err := f.Fetch(context.Background(), feed)
	require.NoError(t, err)
	assert.Equal(t, feedBody, string(body))

	// Second fetch answers 304 and the cached body is reused.
	body, err = f.Fetch(context.Background(), feed)
	require.NoError(t, err)
	assert.Equal(t, feedBody, string(body))
	assert.Equal(t, 2, requests)
}

func TestFetcherFallsBackToCacheOnServerError(t *testing.T) {
	var healthy = true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(feedBody))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	feed := Feed{ID: "test", URL: srv.URL}

	_, err := f.Fetch(context.Background(), feed)
	require.NoError(t, err)

	healthy = false
	body, err := f.Fetch(context.Background(), feed)
	require.NoError(t, err)
	assert.Equal(t, feedBody, string(body))
}

func TestCollect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedBody))
	}))
	defer srv.Close()

	cfg := &config.Config{
		Holidays:     []string{"2024-06-10", "2024-10-07"}, // 06-10 also in the feed
		HolidayFeeds: []config.FeedConfig{{ID: "test", URL: srv.URL}},
	}

	days, err := Collect(context.Background(), cfg, time.UTC, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-04-18", "2024-06-10", "2024-10-07"}, utcDays(days))
}

func TestCollectSkipsBrokenFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("garbage"))
	}))
	defer srv.Close()

	cfg := &config.Config{
		Holidays:     []string{"2024-10-07"},
		HolidayFeeds: []config.FeedConfig{{ID: "broken", URL: srv.URL}},
	}

	days, err := Collect(context.Background(), cfg, time.UTC, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-10-07"}, utcDays(days))
}
