package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a meeting's active range ends before
// it starts.
var ErrInvalidRange = errors.New("active range end precedes start")

// FirstOccurrence scans forward from the start of the active range, one
// day at a time, to the first day on the meeting's weekday and places the
// meeting's time slot on it.
func FirstOccurrence(m Meeting) (Occurrence, error) {
	if m.Dates.End.Before(m.Dates.Start) {
		return Occurrence{}, fmt.Errorf("%w: %s to %s", ErrInvalidRange,
			m.Dates.Start.Format("2006-01-02"), m.Dates.End.Format("2006-01-02"))
	}
	day := m.Dates.Start
	for day.Weekday() != m.Weekday {
		day = day.AddDate(0, 0, 1)
	}
	return m.at(day), nil
}

// MatchOnDay reports the occurrence of m on the given calendar day, or
// false when the day is outside the active range or not on the meeting's
// weekday. It uses the same half-open range convention as
// FirstOccurrence, so exceptions are only ever produced for days that are
// genuinely part of the series.
func MatchOnDay(m Meeting, day time.Time) (Occurrence, bool) {
	if !day.Before(m.Dates.End) {
		return Occurrence{}, false
	}
	if !m.Dates.Start.Before(day.AddDate(0, 0, 1)) {
		return Occurrence{}, false
	}
	if day.Weekday() != m.Weekday {
		return Occurrence{}, false
	}
	return m.at(day), true
}
