package report

import (
	"fmt"
	"time"

	"store-monitor/model"
)

// Window is one weekly open interval in store-local time. Day uses the
// 0=Monday convention of the business hours data.
type Window struct {
	Day             int
	Start           model.ClockTime
	End             model.ClockTime
	CrossesMidnight bool
}

// endOfDay is the conventional "open through end of day" end marker used by
// the 24/7 default; its end instant anchors to the next midnight.
var endOfDay = model.ClockTime{Hour: 23, Minute: 59, Second: 59}

func defaultWindow(day int) Window {
	return Window{Day: day, Start: model.ClockTime{}, End: endOfDay}
}

// windowsFor returns a store's weekly windows with defaulting applied: a
// store without business hours is open 24/7, and weekdays missing from a
// partial schedule are filled with the 24/7 default. Results are memoized
// per store for the life of the engine.
func (e *Engine) windowsFor(storeID string) ([]Window, error) {
	e.mu.Lock()
	windows, ok := e.hoursCache[storeID]
	e.mu.Unlock()
	if ok {
		return windows, nil
	}

	rows, err := e.store.BusinessHoursFor(storeID)
	if err != nil {
		return nil, err
	}

	windows = make([]Window, 0, len(rows)+7)
	seen := make(map[int]bool, 7)
	for _, row := range rows {
		start, err := model.ParseClock(row.StartTimeLocal)
		if err != nil {
			return nil, fmt.Errorf("store %s day %d: %w", storeID, row.DayOfWeek, err)
		}
		end, err := model.ParseClock(row.EndTimeLocal)
		if err != nil {
			return nil, fmt.Errorf("store %s day %d: %w", storeID, row.DayOfWeek, err)
		}
		windows = append(windows, Window{
			Day:             row.DayOfWeek,
			Start:           start,
			End:             end,
			CrossesMidnight: end.Before(start),
		})
		seen[row.DayOfWeek] = true
	}
	for day := 0; day < 7; day++ {
		if !seen[day] {
			windows = append(windows, defaultWindow(day))
		}
	}

	e.mu.Lock()
	e.hoursCache[storeID] = windows
	e.mu.Unlock()
	return windows, nil
}

func windowsForDay(windows []Window, day int) []Window {
	var out []Window
	for _, w := range windows {
		if w.Day == day {
			out = append(out, w)
		}
	}
	return out
}

// withinWindow reports whether a local instant falls inside the window,
// boundaries inclusive. For midnight-crossers membership means at or after
// the start, or at or before the end.
func withinWindow(local time.Time, w Window) bool {
	sec := local.Hour()*3600 + local.Minute()*60 + local.Second()
	if !w.CrossesMidnight {
		return sec >= w.Start.Seconds() && sec <= w.End.Seconds()
	}
	return sec >= w.Start.Seconds() || sec <= w.End.Seconds()
}

// anchor resolves a window's absolute start/end instants for the calendar
// day beginning at dayStart. A midnight-crossing end lands on the following
// day; the 23:59:59 end marker extends to the next midnight.
func anchor(w Window, dayStart time.Time) (time.Time, time.Time) {
	loc := dayStart.Location()
	y, m, d := dayStart.Date()
	start := time.Date(y, m, d, w.Start.Hour, w.Start.Minute, w.Start.Second, 0, loc)

	var end time.Time
	switch {
	case w.CrossesMidnight:
		ny, nm, nd := dayStart.AddDate(0, 0, 1).Date()
		end = time.Date(ny, nm, nd, w.End.Hour, w.End.Minute, w.End.Second, 0, loc)
	case w.End == endOfDay:
		end = time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	default:
		end = time.Date(y, m, d, w.End.Hour, w.End.Minute, w.End.Second, 0, loc)
	}
	return start, end
}

// BusinessMinutes returns the open-business minutes inside the local range
// [startLocal, endLocal]: it walks calendar days, anchors each day's windows,
// clips them to the range and sums the positive-duration clips. This is the
// sole source of truth for open time, used both for whole-window totals and
// for sub-interval apportionment.
func (e *Engine) BusinessMinutes(storeID string, startLocal, endLocal time.Time) (float64, error) {
	if !startLocal.Before(endLocal) {
		return 0, nil
	}
	windows, err := e.windowsFor(storeID)
	if err != nil {
		return 0, err
	}

	total := 0.0
	// Walk from one day before the range start: a midnight-crossing window
	// anchored to the previous day can spill open minutes past midnight
	// into the range. Anything else from that day clips to nothing.
	current := startOfDay(startLocal).AddDate(0, 0, -1)
	last := startOfDay(endLocal)
	for !current.After(last) {
		for _, w := range windowsForDay(windows, localWeekday(current)) {
			winStart, winEnd := anchor(w, current)

			periodStart := winStart
			if startLocal.After(periodStart) {
				periodStart = startLocal
			}
			periodEnd := winEnd
			if endLocal.Before(periodEnd) {
				periodEnd = endLocal
			}
			if periodStart.Before(periodEnd) {
				total += periodEnd.Sub(periodStart).Minutes()
			}
		}
		current = current.AddDate(0, 0, 1)
	}
	return total, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
