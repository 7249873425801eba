package schedule

import "time"

// ClockTime is a wall-clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

// DateRange is a half-open span of calendar days: Start is the first day
// the weekly pattern is active, End the first day it no longer is. Both
// are midnights in the schedule's timezone.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Meeting is one scheduled class-component meeting: a weekly time slot
// bounded by an active date range. End must not precede Start on the
// clock; meetings never cross midnight.
type Meeting struct {
	ID      string
	Weekday time.Weekday
	Start   ClockTime
	End     ClockTime
	Dates   DateRange

	CourseCode string
	Component  string
	CourseName string
	Location   string
}

// Occurrence is a single concrete instance of a meeting.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

func (m Meeting) duration() time.Duration {
	return time.Duration(m.End.Hour-m.Start.Hour)*time.Hour +
		time.Duration(m.End.Minute-m.Start.Minute)*time.Minute
}

// at places the meeting's time slot on the given calendar day.
func (m Meeting) at(day time.Time) Occurrence {
	start := time.Date(day.Year(), day.Month(), day.Day(),
		m.Start.Hour, m.Start.Minute, 0, 0, day.Location())
	return Occurrence{Start: start, End: start.Add(m.duration())}
}
