package ical

// timezoneBlocks maps IANA zone identifiers to the literal VTIMEZONE
// lines embedded in generated calendars. The table only needs to cover
// the zones class schedules are actually published in.
var timezoneBlocks = map[string][]string{
	"Australia/Sydney": {
		"BEGIN:VTIMEZONE",
		"TZID:Australia/Sydney",
		"X-LIC-LOCATION:Australia/Sydney",
		"BEGIN:STANDARD",
		"TZOFFSETFROM:+1100",
		"TZOFFSETTO:+1000",
		"TZNAME:AEST",
		"DTSTART:19700405T030000",
		"RRULE:FREQ=YEARLY;BYMONTH=4;BYDAY=1SU",
		"END:STANDARD",
		"BEGIN:DAYLIGHT",
		"TZOFFSETFROM:+1000",
		"TZOFFSETTO:+1100",
		"TZNAME:AEDT",
		"DTSTART:19701004T020000",
		"RRULE:FREQ=YEARLY;BYMONTH=10;BYDAY=1SU",
		"END:DAYLIGHT",
		"END:VTIMEZONE",
	},
	"Australia/Brisbane": {
		"BEGIN:VTIMEZONE",
		"TZID:Australia/Brisbane",
		"X-LIC-LOCATION:Australia/Brisbane",
		"BEGIN:STANDARD",
		"TZOFFSETFROM:+1000",
		"TZOFFSETTO:+1000",
		"TZNAME:AEST",
		"DTSTART:19700101T000000",
		"END:STANDARD",
		"END:VTIMEZONE",
	},
	"Asia/Seoul": {
		"BEGIN:VTIMEZONE",
		"TZID:Asia/Seoul",
		"X-LIC-LOCATION:Asia/Seoul",
		"BEGIN:STANDARD",
		"TZOFFSETFROM:+0900",
		"TZOFFSETTO:+0900",
		"TZNAME:KST",
		"DTSTART:19700101T000000",
		"END:STANDARD",
		"END:VTIMEZONE",
	},
}

// TimezoneBlock returns the embeddable VTIMEZONE lines for the given zone
// identifier, or nil when the zone is not in the table. Callers decide
// whether a calendar without an embedded definition is acceptable.
func TimezoneBlock(id string) []string {
	return timezoneBlocks[id]
}
