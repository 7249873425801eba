package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	// ErrBadFormat is returned when a raw field does not match its
	// expected grammar.
	ErrBadFormat = errors.New("unrecognized field format")
	// ErrInvalidDate is returned when a date range names a day that does
	// not exist on the calendar.
	ErrInvalidDate = errors.New("no such calendar date")
)

// The three input grammars. These mirror the cells of a class schedule
// table: "COMP1010 - Computing 1", "01/02/2024 - 30/05/2024" and
// "Mo 9:00AM - 10:00AM".
var (
	courseHeaderRe = regexp.MustCompile(`^\s*(.*?)\s+-\s+(.*?)\s*$`)
	dateRangeRe    = regexp.MustCompile(`^\s*(\d\d)/(\d\d)/(\d{4})\s*-\s*(\d\d)/(\d\d)/(\d{4})\s*$`)
	timeRangeRe    = regexp.MustCompile(`^\s*(Su|Mo|Tu|We|Th|Fr|Sa)\s*(\d\d?):(\d\d)\s*(AM|PM)\s*-\s*(\d\d?):(\d\d)\s*(AM|PM)\s*$`)
)

var weekdayAbbrevs = map[string]time.Weekday{
	"Su": time.Sunday,
	"Mo": time.Monday,
	"Tu": time.Tuesday,
	"We": time.Wednesday,
	"Th": time.Thursday,
	"Fr": time.Friday,
	"Sa": time.Saturday,
}

// Course associates a course code with its full name.
type Course struct {
	Code string
	Name string
}

// TimeSlot is the weekday and wall-clock span of a weekly meeting.
type TimeSlot struct {
	Weekday time.Weekday
	Start   ClockTime
	End     ClockTime
}

// ParseCourseHeader splits "<code> - <name>" header text on its first
// " - " separator, trimming surrounding whitespace.
func ParseCourseHeader(s string) (Course, error) {
	m := courseHeaderRe.FindStringSubmatch(s)
	if m == nil {
		return Course{}, fmt.Errorf("course header %q: %w", s, ErrBadFormat)
	}
	return Course{Code: m[1], Name: m[2]}, nil
}

// ParseDateRange parses "DD/MM/YYYY - DD/MM/YYYY" into a half-open range
// of midnights in loc. The literal end date is pushed one day forward so
// the range excludes its end, matching the occurrence calculator.
func ParseDateRange(s string, loc *time.Location) (DateRange, error) {
	m := dateRangeRe.FindStringSubmatch(s)
	if m == nil {
		return DateRange{}, fmt.Errorf("date range %q: %w", s, ErrBadFormat)
	}
	start, err := dateAt(m[3], m[2], m[1], loc)
	if err != nil {
		return DateRange{}, fmt.Errorf("date range %q: %w", s, err)
	}
	end, err := dateAt(m[6], m[5], m[4], loc)
	if err != nil {
		return DateRange{}, fmt.Errorf("date range %q: %w", s, err)
	}
	return DateRange{Start: start, End: end.AddDate(0, 0, 1)}, nil
}

// ParseTimeRange parses a "Mo 9:00AM - 10:00AM" style cell: a two-letter
// weekday abbreviation and two 12-hour clock times. 12 AM maps to hour 0
// and 12 PM to hour 12.
func ParseTimeRange(s string) (TimeSlot, error) {
	m := timeRangeRe.FindStringSubmatch(s)
	if m == nil {
		return TimeSlot{}, fmt.Errorf("time range %q: %w", s, ErrBadFormat)
	}
	return TimeSlot{
		Weekday: weekdayAbbrevs[m[1]],
		Start:   clockTime(m[2], m[3], m[4]),
		End:     clockTime(m[5], m[6], m[7]),
	}, nil
}

// dateAt builds the midnight of year/month/day in loc, rejecting values
// that time.Date would silently normalize (e.g. 31/02).
func dateAt(year, month, day string, loc *time.Location) (time.Time, error) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, loc)
	if t.Year() != y || t.Month() != time.Month(mo) || t.Day() != d {
		return time.Time{}, fmt.Errorf("%w: %s/%s/%s", ErrInvalidDate, day, month, year)
	}
	return t, nil
}

func clockTime(hour, minute, meridiem string) ClockTime {
	h, _ := strconv.Atoi(hour)
	mi, _ := strconv.Atoi(minute)
	if h == 12 {
		h = 0
	}
	if meridiem == "PM" {
		h += 12
	}
	return ClockTime{Hour: h, Minute: mi}
}
