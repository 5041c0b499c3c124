package report

import (
	"sort"
	"testing"
	"time"

	"store-monitor/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for engine tests.
type fakeStore struct {
	observations map[string][]model.StoreStatus
	hours        map[string][]model.StoreBusinessHours
	timezones    map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		observations: make(map[string][]model.StoreStatus),
		hours:        make(map[string][]model.StoreBusinessHours),
		timezones:    make(map[string]string),
	}
}

func (f *fakeStore) ObservationsBetween(storeID string, from, to time.Time) ([]model.StoreStatus, error) {
	var out []model.StoreStatus
	for _, o := range f.observations[storeID] {
		if !o.TimestampUTC.Before(from) && !o.TimestampUTC.After(to) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimestampUTC.Before(out[j].TimestampUTC) })
	return out, nil
}

func (f *fakeStore) PreviousObservation(storeID string, before time.Time) (*model.StoreStatus, error) {
	var prev *model.StoreStatus
	for i := range f.observations[storeID] {
		o := f.observations[storeID][i]
		if o.TimestampUTC.Before(before) && (prev == nil || o.TimestampUTC.After(prev.TimestampUTC)) {
			prev = &o
		}
	}
	return prev, nil
}

func (f *fakeStore) BusinessHoursFor(storeID string) ([]model.StoreBusinessHours, error) {
	return f.hours[storeID], nil
}

func (f *fakeStore) TimezoneFor(storeID string) (string, error) {
	return f.timezones[storeID], nil
}

func (f *fakeStore) DistinctStoreIDs() ([]string, error) {
	var ids []string
	for id := range f.observations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeStore) LatestObservationTime() (time.Time, error) {
	var latest time.Time
	for _, obs := range f.observations {
		for _, o := range obs {
			if o.TimestampUTC.After(latest) {
				latest = o.TimestampUTC
			}
		}
	}
	return latest, nil
}

func (f *fakeStore) addHours(storeID string, day int, start, end string) {
	f.hours[storeID] = append(f.hours[storeID], model.StoreBusinessHours{
		StoreID:        storeID,
		DayOfWeek:      day,
		StartTimeLocal: start,
		EndTimeLocal:   end,
	})
}

func (f *fakeStore) addObservation(storeID string, ts time.Time, status string) {
	f.observations[storeID] = append(f.observations[storeID], model.StoreStatus{
		StoreID:      storeID,
		TimestampUTC: ts,
		Status:       status,
	})
}

// utc builds an instant in January 2023 (no DST transitions nearby).
func utc(day, hour, minute int) time.Time {
	return time.Date(2023, time.January, day, hour, minute, 0, 0, time.UTC)
}

func TestComputeMetricsConstantActiveWeek(t *testing.T) {
	store := newFakeStore()
	store.timezones["s1"] = "UTC"

	// Hourly active observations over a full week, 24/7 default hours.
	ref := utc(25, 12, 0)
	for ts := ref.Add(-7 * 24 * time.Hour); !ts.After(ref); ts = ts.Add(time.Hour) {
		store.addObservation("s1", ts, "active")
	}

	engine := NewEngine(store, "")
	metrics, err := engine.ComputeMetrics("s1", ref)
	require.NoError(t, err)

	assert.InDelta(t, 60.0, metrics.UptimeLastHour, 1e-9)
	assert.InDelta(t, 24.0, metrics.UptimeLastDay, 1e-9)
	assert.InDelta(t, 168.0, metrics.UptimeLastWeek, 1e-9)
	assert.Zero(t, metrics.DowntimeLastHour)
	assert.Zero(t, metrics.DowntimeLastDay)
	assert.Zero(t, metrics.DowntimeLastWeek)
}

func TestComputeMetricsNoObservations(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, "")

	metrics, err := engine.ComputeMetrics("ghost", utc(25, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, model.StoreMetrics{StoreID: "ghost"}, metrics)
}

func TestComputeMetricsInvalidTimezone(t *testing.T) {
	store := newFakeStore()
	store.timezones["s1"] = "Not/AZone"
	store.addObservation("s1", utc(25, 11, 0), "active")

	engine := NewEngine(store, "")
	_, err := engine.ComputeMetrics("s1", utc(25, 12, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not/AZone")
}

// An observation outside business hours is dropped before segmentation but
// still counts as the prior observation for the single-observation lookback.
func TestComputeMetricsOutOfHoursObservationFeedsLookback(t *testing.T) {
	store := newFakeStore()
	store.timezones["s1"] = "UTC"
	for day := 0; day < 7; day++ {
		store.addHours("s1", day, "09:00:00", "17:00:00")
	}

	// 08:00 on the 24th is outside business hours and before the day
	// window; 13:00 on the 25th is the only in-hours observation.
	store.addObservation("s1", utc(24, 8, 0), "inactive")
	store.addObservation("s1", utc(25, 13, 0), "active")
	ref := utc(25, 17, 0)

	engine := NewEngine(store, "")
	metrics, err := engine.ComputeMetrics("s1", ref)
	require.NoError(t, err)

	// Hour window 16:00-17:00 has no in-window observation: all downtime.
	assert.InDelta(t, 0.0, metrics.UptimeLastHour, 1e-9)
	assert.InDelta(t, 60.0, metrics.DowntimeLastHour, 1e-9)

	// Day window: single 13:00 observation; the out-of-hours 08:00 row is
	// the prior observation and disagrees, so the window splits at 13:00.
	// 09:00-13:00 down, 13:00-17:00 up on the 25th.
	assert.InDelta(t, 4.0, metrics.UptimeLastDay, 1e-9)
	assert.InDelta(t, 4.0, metrics.DowntimeLastDay, 1e-9)

	// Week window: nothing in history precedes its start, so the single
	// observation's status covers every open minute of the week.
	assert.InDelta(t, 56.0, metrics.UptimeLastWeek, 1e-9)
	assert.InDelta(t, 0.0, metrics.DowntimeLastWeek, 1e-9)
}
