package report

import (
	"sort"
	"strings"
	"time"

	"store-monitor/model"
)

// segment is one status-labeled slice of a report window.
type segment struct {
	start  time.Time
	end    time.Time
	status string
}

func isActive(status string) bool {
	return strings.EqualFold(status, model.StatusActive)
}

// uptimeDowntime attributes a window's open-business minutes to uptime and
// downtime from the sparse observations that fall inside it.
//
// Rules, in order:
//  1. a window with zero business minutes contributes nothing;
//  2. no observations means the whole window is downtime;
//  3. a single observation consults the most recent observation before the
//     window start (raw history, business hours or not): equal status covers
//     the whole window, a differing status splits it at the observation, and
//     no prior observation lets the single status cover everything;
//  4. with two or more observations, the first observation's status holds
//     retroactively from the window start and each status holds until the
//     next observation. The lead-in deliberately skips the rule-3 lookback.
func (e *Engine) uptimeDowntime(storeID string, observations []Observation, startLocal, endLocal time.Time) (model.UptimeStats, error) {
	total, err := e.BusinessMinutes(storeID, startLocal, endLocal)
	if err != nil {
		return model.UptimeStats{}, err
	}
	if total == 0 {
		return model.UptimeStats{}, nil
	}

	if len(observations) == 0 {
		// No signal means down for the whole window.
		return model.UptimeStats{DowntimeMinutes: total, TotalBusinessMinutes: total}, nil
	}

	sort.Slice(observations, func(i, j int) bool {
		return observations[i].Local.Before(observations[j].Local)
	})

	if len(observations) == 1 {
		return e.singleObservation(storeID, observations[0], startLocal, total)
	}

	uptime := 0.0
	downtime := 0.0
	for _, seg := range buildSegments(observations, startLocal, endLocal) {
		minutes, err := e.BusinessMinutes(storeID, seg.start, seg.end)
		if err != nil {
			return model.UptimeStats{}, err
		}
		if isActive(seg.status) {
			uptime += minutes
		} else {
			downtime += minutes
		}
	}
	return model.UptimeStats{
		UptimeMinutes:        uptime,
		DowntimeMinutes:      downtime,
		TotalBusinessMinutes: total,
	}, nil
}

// singleObservation resolves a window containing exactly one observation via
// the prior-observation lookback: the most recent observation strictly
// before the window start, drawn from raw history.
func (e *Engine) singleObservation(storeID string, obs Observation, startLocal time.Time, total float64) (model.UptimeStats, error) {
	prev, err := e.store.PreviousObservation(storeID, startLocal.UTC())
	if err != nil {
		return model.UptimeStats{}, err
	}

	// No prior evidence, or the prior observation agrees: the observed
	// status covers the whole window.
	if prev == nil || strings.EqualFold(prev.Status, obs.Status) {
		if isActive(obs.Status) {
			return model.UptimeStats{UptimeMinutes: total, TotalBusinessMinutes: total}, nil
		}
		return model.UptimeStats{DowntimeMinutes: total, TotalBusinessMinutes: total}, nil
	}

	// Differing prior status: the window splits at the observation.
	before, err := e.BusinessMinutes(storeID, startLocal, obs.Local)
	if err != nil {
		return model.UptimeStats{}, err
	}
	after := total - before
	if isActive(obs.Status) {
		return model.UptimeStats{UptimeMinutes: after, DowntimeMinutes: before, TotalBusinessMinutes: total}, nil
	}
	return model.UptimeStats{UptimeMinutes: before, DowntimeMinutes: after, TotalBusinessMinutes: total}, nil
}

// buildSegments covers [startLocal, endLocal] with status-labeled segments:
// the first observation's status fills the lead-in, each observation's status
// holds until the next one, and the last holds to the window end. Only
// positive-duration segments are emitted.
func buildSegments(observations []Observation, startLocal, endLocal time.Time) []segment {
	segments := make([]segment, 0, len(observations)+1)

	first := observations[0]
	if startLocal.Before(first.Local) {
		segments = append(segments, segment{start: startLocal, end: first.Local, status: first.Status})
	}

	for i, obs := range observations {
		segStart := obs.Local
		if startLocal.After(segStart) {
			segStart = startLocal
		}
		segEnd := endLocal
		if i < len(observations)-1 && observations[i+1].Local.Before(endLocal) {
			segEnd = observations[i+1].Local
		}
		if segStart.Before(segEnd) {
			segments = append(segments, segment{start: segStart, end: segEnd, status: obs.Status})
		}
	}
	return segments
}
