package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"classcal/internal/ical"
)

// BuildEvents compiles meetings into calendar events, one VEVENT per
// meeting. Each holiday that lands on a scheduled day inside a meeting's
// active range becomes an exception on that meeting's series.
//
// A meeting without an ID gets a random UID, so repeated compilations are
// only deterministic when callers supply stable IDs.
func BuildEvents(meetings []Meeting, holidays []time.Time) ([]ical.Event, error) {
	events := make([]ical.Event, 0, len(meetings))
	for i, m := range meetings {
		first, err := FirstOccurrence(m)
		if err != nil {
			return nil, fmt.Errorf("meeting %d (%s %s): %w", i, m.CourseCode, m.Component, err)
		}

		var exceptions []time.Time
		for _, h := range holidays {
			if occ, ok := MatchOnDay(m, h); ok {
				exceptions = append(exceptions, occ.Start)
			}
		}

		uid := m.ID
		if uid == "" {
			uid = uuid.NewString()
		}

		events = append(events, ical.Event{
			UID:         uid,
			Start:       first.Start,
			End:         first.End,
			Until:       m.Dates.End,
			Exceptions:  exceptions,
			Summary:     m.CourseCode + " " + m.Component,
			Description: m.CourseCode + " - " + m.CourseName,
			Location:    m.Location,
			Status:      ical.StatusConfirmed,
		})
	}
	return events, nil
}
