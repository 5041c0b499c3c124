// Package report implements the uptime/downtime inference engine: local-time
// conversion, weekly business-hour windows, segmentation of sparse status
// observations, and the three rolling-window aggregates.
package report

import (
	"sync"
	"time"

	"store-monitor/model"
)

// Store is the read surface the engine consumes. *db.Store satisfies it.
type Store interface {
	ObservationsBetween(storeID string, from, to time.Time) ([]model.StoreStatus, error)
	PreviousObservation(storeID string, before time.Time) (*model.StoreStatus, error)
	BusinessHoursFor(storeID string) ([]model.StoreBusinessHours, error)
	TimezoneFor(storeID string) (string, error)
	DistinctStoreIDs() ([]string, error)
	LatestObservationTime() (time.Time, error)
}

// Observation is one status snapshot converted to store-local time.
// Day is the local weekday with 0 = Monday, matching the business hours data.
type Observation struct {
	UTC    time.Time
	Local  time.Time
	Status string
	Day    int
}

// Engine computes per-store uptime metrics. Timezone and business-hours
// lookups are memoized per store id; an Engine is built fresh for each
// report run so a bulk reload can never serve stale schedules.
type Engine struct {
	store     Store
	defaultTZ string

	mu         sync.Mutex
	locCache   map[string]*time.Location
	hoursCache map[string][]Window
}

func NewEngine(store Store, defaultTZ string) *Engine {
	if defaultTZ == "" {
		defaultTZ = "America/Chicago"
	}
	return &Engine{
		store:      store,
		defaultTZ:  defaultTZ,
		locCache:   make(map[string]*time.Location),
		hoursCache: make(map[string][]Window),
	}
}

// ComputeMetrics produces the six-field report row for one store at the
// given reference instant. Hour fields are minutes, day/week fields hours.
func (e *Engine) ComputeMetrics(storeID string, referenceUTC time.Time) (model.StoreMetrics, error) {
	metrics := model.StoreMetrics{StoreID: storeID}

	referenceUTC = referenceUTC.UTC()
	hourAgo := referenceUTC.Add(-time.Hour)
	dayAgo := referenceUTC.Add(-24 * time.Hour)
	weekAgo := referenceUTC.Add(-7 * 24 * time.Hour)

	rows, err := e.store.ObservationsBetween(storeID, weekAgo, referenceUTC)
	if err != nil {
		return metrics, err
	}
	if len(rows) == 0 {
		// No signal all week: report zeros rather than guessing.
		return metrics, nil
	}

	observations := make([]Observation, 0, len(rows))
	for _, row := range rows {
		local, err := e.ToLocal(row.TimestampUTC, storeID)
		if err != nil {
			return metrics, err
		}
		observations = append(observations, Observation{
			UTC:    row.TimestampUTC,
			Local:  local,
			Status: row.Status,
			Day:    localWeekday(local),
		})
	}

	// Snapshots outside business hours are dropped before segmentation.
	// They stay in history and remain visible to the prior-observation
	// lookback in the single-observation case.
	filtered, err := e.filterByBusinessHours(storeID, observations)
	if err != nil {
		return metrics, err
	}

	referenceLocal, err := e.ToLocal(referenceUTC, storeID)
	if err != nil {
		return metrics, err
	}
	hourAgoLocal, err := e.ToLocal(hourAgo, storeID)
	if err != nil {
		return metrics, err
	}
	dayAgoLocal, err := e.ToLocal(dayAgo, storeID)
	if err != nil {
		return metrics, err
	}
	weekAgoLocal, err := e.ToLocal(weekAgo, storeID)
	if err != nil {
		return metrics, err
	}

	hourStats, err := e.uptimeDowntime(storeID, observationsSince(filtered, hourAgoLocal), hourAgoLocal, referenceLocal)
	if err != nil {
		return metrics, err
	}
	dayStats, err := e.uptimeDowntime(storeID, observationsSince(filtered, dayAgoLocal), dayAgoLocal, referenceLocal)
	if err != nil {
		return metrics, err
	}
	weekStats, err := e.uptimeDowntime(storeID, filtered, weekAgoLocal, referenceLocal)
	if err != nil {
		return metrics, err
	}

	metrics.UptimeLastHour = hourStats.UptimeMinutes
	metrics.DowntimeLastHour = hourStats.DowntimeMinutes
	metrics.UptimeLastDay = dayStats.UptimeMinutes / 60.0
	metrics.DowntimeLastDay = dayStats.DowntimeMinutes / 60.0
	metrics.UptimeLastWeek = weekStats.UptimeMinutes / 60.0
	metrics.DowntimeLastWeek = weekStats.DowntimeMinutes / 60.0
	return metrics, nil
}

// filterByBusinessHours keeps observations whose local time falls inside
// some business window for their weekday.
func (e *Engine) filterByBusinessHours(storeID string, observations []Observation) ([]Observation, error) {
	windows, err := e.windowsFor(storeID)
	if err != nil {
		return nil, err
	}
	filtered := make([]Observation, 0, len(observations))
	for _, obs := range observations {
		for _, w := range windowsForDay(windows, obs.Day) {
			if withinWindow(obs.Local, w) {
				filtered = append(filtered, obs)
				break
			}
		}
	}
	return filtered, nil
}

func observationsSince(observations []Observation, startLocal time.Time) []Observation {
	subset := make([]Observation, 0, len(observations))
	for _, obs := range observations {
		if !obs.Local.Before(startLocal) {
			subset = append(subset, obs)
		}
	}
	return subset
}

// localWeekday maps a local instant to the 0=Monday..6=Sunday convention
// used by the business hours data.
func localWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
