package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:05:30")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 9, Minute: 5, Second: 30}, c)
	assert.Equal(t, "09:05:30", c.String())
	assert.Equal(t, 9*3600+5*60+30, c.Seconds())
}

func TestParseClockRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "9am", "24:00:00", "12:60:00", "12:00:61"} {
		_, err := ParseClock(input)
		assert.Error(t, err, input)
	}
}

func TestClockBefore(t *testing.T) {
	early, _ := ParseClock("02:00:00")
	late, _ := ParseClock("22:00:00")
	assert.True(t, early.Before(late))
	assert.False(t, late.Before(early))
	assert.False(t, early.Before(early))
}
