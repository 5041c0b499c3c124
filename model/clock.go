package model

import "fmt"

// ClockTime is a local time of day with second precision.
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// ParseClock parses "HH:MM:SS".
func ParseClock(s string) (ClockTime, error) {
	var c ClockTime
	n, err := fmt.Sscanf(s, "%d:%d:%d", &c.Hour, &c.Minute, &c.Second)
	if err != nil || n != 3 {
		return ClockTime{}, fmt.Errorf("invalid time of day %q", s)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 || c.Second < 0 || c.Second > 59 {
		return ClockTime{}, fmt.Errorf("time of day %q out of range", s)
	}
	return c, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Seconds returns the offset from midnight.
func (c ClockTime) Seconds() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

func (c ClockTime) Before(o ClockTime) bool {
	return c.Seconds() < o.Seconds()
}
