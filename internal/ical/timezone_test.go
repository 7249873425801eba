package ical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimezoneBlockKnown(t *testing.T) {
	block := TimezoneBlock("Australia/Sydney")
	require.NotEmpty(t, block)

	assert.Equal(t, "BEGIN:VTIMEZONE", block[0])
	assert.Equal(t, "END:VTIMEZONE", block[len(block)-1])
	assert.Contains(t, block, "TZID:Australia/Sydney")
	assert.Contains(t, block, "RRULE:FREQ=YEARLY;BYMONTH=4;BYDAY=1SU")
	assert.Contains(t, block, "RRULE:FREQ=YEARLY;BYMONTH=10;BYDAY=1SU")
}

func TestTimezoneBlockUnknown(t *testing.T) {
	assert.Nil(t, TimezoneBlock("Europe/Madrid"))
	assert.Nil(t, TimezoneBlock(""))
}
