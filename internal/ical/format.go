package ical

import "time"

const (
	utcLayout   = "20060102T150405Z"
	localLayout = "20060102T150405"
)

var weekdayCodes = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// FormatUTC renders t in the iCalendar UTC form used by DTSTAMP, UNTIL
// and EXDATE.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(utcLayout)
}

// FormatLocal renders t's wall-clock fields with no zone suffix. The zone
// travels separately as a TZID property parameter.
func FormatLocal(t time.Time) string {
	return t.Format(localLayout)
}

// WeekdayCode returns the two-letter BYDAY code for t's local weekday.
func WeekdayCode(t time.Time) string {
	return weekdayCodes[int(t.Weekday())]
}
