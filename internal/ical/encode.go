package ical

import (
	"fmt"
	"strings"
	"time"
)

// ProdID identifies this generator in emitted calendars.
const ProdID = "classcal"

// Status is a VEVENT STATUS value.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusTentative Status = "TENTATIVE"
	StatusCancelled Status = "CANCELLED"
)

// Event is one VEVENT: the first occurrence of a weekly series, the
// horizon the series repeats until, and the instances removed from it.
type Event struct {
	UID string

	// Start and End are the first concrete occurrence, as wall-clock
	// times in the document's timezone.
	Start time.Time
	End   time.Time

	// Until is the exclusive end of the weekly series.
	Until time.Time

	// Exceptions holds the start times of instances skipped via EXDATE.
	// Each must fall on Start's weekday within the series' range; the
	// schedule builder guarantees this.
	Exceptions []time.Time

	Summary     string
	Description string
	Location    string

	Transparent bool
	Status      Status
}

// Document is one complete calendar. It is assembled fresh per
// compilation, encoded once, and discarded.
type Document struct {
	Name       string
	TimezoneID string

	// CreatedAt is the shared DTSTAMP for every event in the document.
	// Zero means "now".
	CreatedAt time.Time

	Events []Event
}

// Encode renders the document as iCalendar text: CRLF-terminated lines,
// each folded at 75 octets, with a trailing CRLF after END:VCALENDAR.
//
// Encoding is all-or-nothing: an event with an unset start or end aborts
// the whole document rather than silently dropping the event.
func (d *Document) Encode() (string, error) {
	stamp := d.CreatedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	created := FormatUTC(stamp)
	tzid := Escape(d.TimezoneID)

	lines := make([]string, 0, 8+13*len(d.Events))
	lines = append(lines,
		"BEGIN:VCALENDAR",
		"PRODID:"+ProdID,
		"VERSION:2.0",
		"CALSCALE:GREGORIAN",
		"X-WR-TIMEZONE:"+tzid,
		"X-WR-CALNAME:"+Escape(d.Name),
	)
	lines = append(lines, TimezoneBlock(d.TimezoneID)...)

	for _, ev := range d.Events {
		if ev.Start.IsZero() || ev.End.IsZero() {
			return "", fmt.Errorf("event %q: %w", ev.UID, ErrInvalidTime)
		}

		status := ev.Status
		if status == "" {
			status = StatusConfirmed
		}
		transp := "OPAQUE"
		if ev.Transparent {
			transp = "TRANSPARENT"
		}

		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+Escape(ev.UID),
			"DTSTAMP:"+created,
			"DTSTART;TZID="+tzid+":"+FormatLocal(ev.Start),
			"DTEND;TZID="+tzid+":"+FormatLocal(ev.End),
			"SUMMARY:"+Escape(ev.Summary),
			"DESCRIPTION:"+Escape(ev.Description),
			"LOCATION:"+Escape(ev.Location),
			"RRULE:FREQ=WEEKLY;UNTIL="+FormatUTC(ev.Until)+";BYDAY="+WeekdayCode(ev.Start),
		)
		if len(ev.Exceptions) > 0 {
			exdates := make([]string, len(ev.Exceptions))
			for i, ex := range ev.Exceptions {
				exdates[i] = FormatUTC(ex)
			}
			lines = append(lines, "EXDATE:"+strings.Join(exdates, ","))
		}
		lines = append(lines,
			"TRANSP:"+transp,
			"STATUS:"+string(status),
			"END:VEVENT",
		)
	}

	lines = append(lines, "END:VCALENDAR")

	var b strings.Builder
	for _, line := range lines {
		folded, err := FoldLine(line)
		if err != nil {
			return "", fmt.Errorf("folding %q: %w", truncate(line, 24), err)
		}
		b.WriteString(folded)
		b.WriteString("\r\n")
	}
	return b.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
