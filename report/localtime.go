package report

import (
	"fmt"
	"time"

	apperrors "store-monitor/pkg/errors"
)

// Timezone resolves a store's IANA timezone identifier, falling back to the
// configured default when the store has no timezone row.
func (e *Engine) Timezone(storeID string) (string, error) {
	tz, err := e.store.TimezoneFor(storeID)
	if err != nil {
		return "", err
	}
	if tz == "" {
		return e.defaultTZ, nil
	}
	return tz, nil
}

// location loads and memoizes the store's *time.Location. A stored timezone
// that is not a valid IANA identifier only fails here, at first conversion.
func (e *Engine) location(storeID string) (*time.Location, error) {
	e.mu.Lock()
	loc, ok := e.locCache[storeID]
	e.mu.Unlock()
	if ok {
		return loc, nil
	}

	tz, err := e.Timezone(storeID)
	if err != nil {
		return nil, err
	}
	loc, err = time.LoadLocation(tz)
	if err != nil {
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("invalid timezone %q for store %s", tz, storeID), err)
	}

	e.mu.Lock()
	e.locCache[storeID] = loc
	e.mu.Unlock()
	return loc, nil
}

// ToLocal converts a UTC instant to the store's local time.
func (e *Engine) ToLocal(utc time.Time, storeID string) (time.Time, error) {
	loc, err := e.location(storeID)
	if err != nil {
		return time.Time{}, err
	}
	return utc.UTC().In(loc), nil
}
