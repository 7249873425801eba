// Package holiday collects the non-teaching days that become EXDATE
// exceptions: literal dates from config plus days carrying events in
// subscribed holiday ICS feeds.
package holiday

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"classcal/internal/config"
	appLog "classcal/internal/log"
)

const dateLayout = "2006-01-02"

// ParseDates parses "YYYY-MM-DD" strings into midnights in loc.
func ParseDates(days []string, loc *time.Location) ([]time.Time, error) {
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(d), loc)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", d, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// DatesFromICS extracts the calendar days of every VEVENT in an ICS body,
// as midnights in loc. Feed events are typically all-day public holiday
// entries; timed events count for the day they start on.
func DatesFromICS(body []byte, loc *time.Location) ([]time.Time, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var out []time.Time
	for _, ve := range cal.Events() {
		p := ve.GetProperty(ical.ComponentPropertyDtStart)
		if p == nil || p.Value == "" {
			continue
		}
		t, err := parseFeedTime(p.Value, loc)
		if err != nil {
			continue
		}
		t = t.In(loc)
		out = append(out, time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc))
	}
	return out, nil
}

// parseFeedTime handles the three DTSTART shapes holiday feeds use:
// UTC date-time, floating date-time and bare date.
func parseFeedTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}

// Collect gathers the full holiday set for a compilation: config dates
// plus feed days, deduplicated and sorted. Feed failures are logged and
// skipped; the literal config dates always apply.
func Collect(ctx context.Context, cfg *config.Config, loc *time.Location, cacheDir string) ([]time.Time, error) {
	days, err := ParseDates(cfg.Holidays, loc)
	if err != nil {
		return nil, err
	}

	if len(cfg.HolidayFeeds) > 0 {
		fetcher := NewFetcher(cacheDir)
		for _, fc := range cfg.HolidayFeeds {
			feed := Feed{ID: fc.ID, URL: fc.URL}
			if feed.ID == "" {
				feed.ID = fc.URL
			}
			body, err := fetcher.Fetch(ctx, feed)
			if err != nil {
				appLog.Error("holiday feed fetch failed", err, "id", feed.ID)
				continue
			}
			feedDays, err := DatesFromICS(body, loc)
			if err != nil {
				appLog.Error("holiday feed parse failed", err, "id", feed.ID)
				continue
			}
			days = append(days, feedDays...)
		}
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	dedup := days[:0]
	for i, d := range days {
		if i == 0 || !d.Equal(days[i-1]) {
			dedup = append(dedup, d)
		}
	}
	return dedup, nil
}
