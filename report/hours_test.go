package report

import (
	"testing"
	"time"

	"store-monitor/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(h, m, s int) model.ClockTime {
	return model.ClockTime{Hour: h, Minute: m, Second: s}
}

func TestBusinessMinutesDefaultsTo247(t *testing.T) {
	store := newFakeStore()
	store.timezones["s1"] = "UTC"
	engine := NewEngine(store, "")

	// No stored hours: any 7-day window is fully open.
	start := utc(10, 6, 30)
	minutes, err := engine.BusinessMinutes("s1", start, start.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.InDelta(t, 7*1440.0, minutes, 1e-9)
}

func TestBusinessMinutesMidnightCrossing(t *testing.T) {
	store := newFakeStore()
	store.timezones["s1"] = "UTC"
	// Open 22:00-02:00 every day.
	for day := 0; day < 7; day++ {
		store.addHours("s1", day, "22:00:00", "02:00:00")
	}
	engine := NewEngine(store, "")

	// 21:00 on the 10th through 03:00 on the 11th covers exactly one full
	// 22:00-02:00 window.
	minutes, err := engine.BusinessMinutes("s1", utc(10, 21, 0), utc(11, 3, 0))
	require.NoError(t, err)
	assert.InDelta(t, 240.0, minutes, 1e-9)

	// Splitting the same range at midnight must not drop or double-count
	// the boundary minute: the halves sum to the whole.
	before, err := engine.BusinessMinutes("s1", utc(10, 21, 0), utc(11, 0, 0))
	require.NoError(t, err)
	assert.InDelta(t, 120.0, before, 1e-9)

	after, err := engine.BusinessMinutes("s1", utc(11, 0, 0), utc(11, 3, 0))
	require.NoError(t, err)
	assert.InDelta(t, 120.0, after, 1e-9)
	assert.InDelta(t, minutes, before+after, 1e-9)
}

func TestBusinessMinutesFillsMissingWeekdays(t *testing.T) {
	store := newFakeStore()
	store.timezones["s1"] = "UTC"
	// Only Monday has explicit hours; Tuesday-Sunday default to 24/7.
	store.addHours("s1", 0, "09:00:00", "17:00:00")
	engine := NewEngine(store, "")

	// 2023-01-02 is a Monday.
	monday := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	minutes, err := engine.BusinessMinutes("s1", monday, monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.InDelta(t, 480.0+6*1440.0, minutes, 1e-9)

	// A full default Tuesday alone.
	tuesday := monday.AddDate(0, 0, 1)
	minutes, err = engine.BusinessMinutes("s1", tuesday, tuesday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.InDelta(t, 1440.0, minutes, 1e-9)
}

func TestBusinessMinutesFragmentedDay(t *testing.T) {
	store := newFakeStore()
	store.timezones["s1"] = "UTC"
	// Split Wednesday schedule (2023-01-04 is a Wednesday, day index 2).
	store.addHours("s1", 2, "08:00:00", "12:00:00")
	store.addHours("s1", 2, "14:00:00", "18:00:00")
	engine := NewEngine(store, "")

	wednesday := time.Date(2023, time.January, 4, 0, 0, 0, 0, time.UTC)
	minutes, err := engine.BusinessMinutes("s1", wednesday, wednesday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.InDelta(t, 480.0, minutes, 1e-9)

	// Clipping inside the gap touches neither window.
	minutes, err = engine.BusinessMinutes("s1", wednesday.Add(12*time.Hour+30*time.Minute), wednesday.Add(13*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, minutes)
}

func TestBusinessMinutesInvertedRange(t *testing.T) {
	store := newFakeStore()
	store.timezones["s1"] = "UTC"
	engine := NewEngine(store, "")

	minutes, err := engine.BusinessMinutes("s1", utc(10, 12, 0), utc(10, 12, 0))
	require.NoError(t, err)
	assert.Zero(t, minutes)
}

func TestWithinWindowMidnightCrossing(t *testing.T) {
	w := Window{Day: 0, Start: clock(22, 0, 0), End: clock(2, 0, 0), CrossesMidnight: true}

	assert.True(t, withinWindow(utc(10, 23, 30), w))
	assert.True(t, withinWindow(utc(10, 1, 0), w))
	assert.False(t, withinWindow(utc(10, 12, 0), w))
	assert.True(t, withinWindow(utc(10, 22, 0), w))
	assert.True(t, withinWindow(utc(10, 2, 0), w))
}
