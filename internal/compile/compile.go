// Package compile turns a configuration's meeting records into a
// finished iCalendar document.
package compile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"classcal/internal/config"
	"classcal/internal/holiday"
	"classcal/internal/ical"
	"classcal/internal/schedule"
)

// Result is one finished compilation.
type Result struct {
	// Text is the encoded iCalendar document.
	Text string
	// Filename is the suggested output name, "<slug>.ics".
	Filename string
	// Events are the compiled events, available for occurrence previews.
	Events []ical.Event
}

// Meetings converts raw config meeting records into structured meetings.
// UIDs follow "<prefix>::<classNbr>::<row>"; prefix falls back to a
// random value when the config does not pin one, so stable UIDs across
// compilations require a configured uid_prefix.
func Meetings(cfgs []config.MeetingConfig, uidPrefix string, loc *time.Location) ([]schedule.Meeting, error) {
	if uidPrefix == "" {
		uidPrefix = uuid.NewString()
	}

	meetings := make([]schedule.Meeting, 0, len(cfgs))
	for i, mc := range cfgs {
		course, err := schedule.ParseCourseHeader(mc.Course)
		if err != nil {
			return nil, fmt.Errorf("meeting %d: %w", i, err)
		}
		slot, err := schedule.ParseTimeRange(mc.Schedule)
		if err != nil {
			return nil, fmt.Errorf("meeting %d: %w", i, err)
		}
		dates, err := schedule.ParseDateRange(mc.Dates, loc)
		if err != nil {
			return nil, fmt.Errorf("meeting %d: %w", i, err)
		}

		classNbr := mc.ClassNbr
		if classNbr == "" {
			classNbr = "0000"
		}
		component := mc.Component
		if component == "" {
			component = "Unknown"
		}

		meetings = append(meetings, schedule.Meeting{
			ID:         fmt.Sprintf("%s::%s::%d", uidPrefix, classNbr, i),
			Weekday:    slot.Weekday,
			Start:      slot.Start,
			End:        slot.End,
			Dates:      dates,
			CourseCode: course.Code,
			Component:  component,
			CourseName: course.Name,
			Location:   mc.Location,
		})
	}
	return meetings, nil
}

// Compile builds the calendar document for cfg at the given timestamp.
// The timestamp becomes the shared DTSTAMP of every event; callers pass
// time.Now() outside tests.
func Compile(ctx context.Context, cfg *config.Config, now time.Time, cacheDir string) (*Result, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}

	meetings, err := Meetings(cfg.Meetings, cfg.UIDPrefix, loc)
	if err != nil {
		return nil, err
	}

	holidays, err := holiday.Collect(ctx, cfg, loc, cacheDir)
	if err != nil {
		return nil, err
	}

	events, err := schedule.BuildEvents(meetings, holidays)
	if err != nil {
		return nil, err
	}

	doc := ical.Document{
		Name:       cfg.CalendarName,
		TimezoneID: cfg.Timezone,
		CreatedAt:  now,
		Events:     events,
	}
	text, err := doc.Encode()
	if err != nil {
		return nil, err
	}

	return &Result{
		Text:     text,
		Filename: Slug(cfg.CalendarName) + ".ics",
		Events:   events,
	}, nil
}

var slugRe = regexp.MustCompile(`[-\s]+`)

// Slug lowercases a calendar name and collapses whitespace runs into
// hyphens, for use as a filename stem.
func Slug(name string) string {
	return strings.ToLower(slugRe.ReplaceAllString(strings.TrimSpace(name), "-"))
}

// WriteFile writes a compiled document under dir atomically
// (temp file + rename) and returns the final path.
func WriteFile(dir string, res *Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, res.Filename)

	tmp, err := os.CreateTemp(dir, ".classcal-*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(res.Text); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", err
	}
	return path, nil
}
