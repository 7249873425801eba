package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCourseHeader(t *testing.T) {
	tests := []struct {
		in       string
		code     string
		name     string
	}{
		{"COMP1010 - Computing 1", "COMP1010", "Computing 1"},
		{"  MATH1110 - Mathematics 1  ", "MATH1110", "Mathematics 1"},
		{"ENGG1500 - Introduction - Part A", "ENGG1500", "Introduction - Part A"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseCourseHeader(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.code, c.Code)
			assert.Equal(t, tt.name, c.Name)
		})
	}
}

func TestParseCourseHeaderMalformed(t *testing.T) {
	_, err := ParseCourseHeader("COMP1010 Computing 1")
	assert.ErrorIs(t, err, ErrBadFormat)
}

func TestParseDateRange(t *testing.T) {
	loc := sydney(t)
	r, err := ParseDateRange("01/02/2024 - 30/05/2024", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, loc), r.Start)
	// End pushes one day past the literal end date.
	assert.Equal(t, time.Date(2024, 5, 31, 0, 0, 0, 0, loc), r.End)
}

func TestParseDateRangeOneDay(t *testing.T) {
	loc := sydney(t)
	r, err := ParseDateRange("01/02/2024 - 01/02/2024", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, loc), r.Start)
	assert.Equal(t, time.Date(2024, 2, 2, 0, 0, 0, 0, loc), r.End)
}

func TestParseDateRangeMalformed(t *testing.T) {
	loc := sydney(t)
	for _, in := range []string{
		"2024-02-01 - 2024-05-30",
		"01/02/2024",
		"1/2/2024 - 30/5/2024",
		"",
	} {
		_, err := ParseDateRange(in, loc)
		assert.ErrorIs(t, err, ErrBadFormat, "input %q", in)
	}
}

func TestParseDateRangeImpossibleDate(t *testing.T) {
	_, err := ParseDateRange("31/02/2024 - 30/05/2024", sydney(t))
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		in      string
		weekday time.Weekday
		start   ClockTime
		end     ClockTime
	}{
		{"Mo 9:00AM - 10:00AM", time.Monday, ClockTime{9, 0}, ClockTime{10, 0}},
		{"We 2:30PM - 4:15PM", time.Wednesday, ClockTime{14, 30}, ClockTime{16, 15}},
		{"Fr 12:00PM - 1:00PM", time.Friday, ClockTime{12, 0}, ClockTime{13, 0}},
		{"Su 12:00AM - 1:00AM", time.Sunday, ClockTime{0, 0}, ClockTime{1, 0}},
		{"Th 11:00AM - 12:00PM", time.Thursday, ClockTime{11, 0}, ClockTime{12, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			slot, err := ParseTimeRange(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.weekday, slot.Weekday)
			assert.Equal(t, tt.start, slot.Start)
			assert.Equal(t, tt.end, slot.End)
		})
	}
}

func TestParseTimeRangeMalformed(t *testing.T) {
	for _, in := range []string{
		"Monday 9:00AM - 10:00AM",
		"Mo 9:00 - 10:00",
		"Mo 9:00AM",
		"",
	} {
		_, err := ParseTimeRange(in)
		assert.ErrorIs(t, err, ErrBadFormat, "input %q", in)
	}
}
