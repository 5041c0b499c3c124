package model

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// StoreStatus is one raw status observation for a store. Timestamps are
// always UTC. No single column is unique, the pair is.
type StoreStatus struct {
	StoreID      string    `gorm:"primaryKey;index:idx_store_time" json:"store_id"`
	TimestampUTC time.Time `gorm:"primaryKey;index:idx_store_time" json:"timestamp_utc"`
	Status       string    `gorm:"size:10" json:"status"`
}

func (StoreStatus) TableName() string {
	return "store_status"
}

// StoreBusinessHours is one weekly open window for a store. Times are local
// time-of-day strings ("HH:MM:SS"); day 0 is Monday, matching the source
// CSVs. Crossing midnight is derived from end < start, never stored.
type StoreBusinessHours struct {
	StoreID        string `gorm:"primaryKey" json:"store_id"`
	DayOfWeek      int    `gorm:"primaryKey" json:"day_of_week"`
	StartTimeLocal string `gorm:"primaryKey" json:"start_time_local"`
	EndTimeLocal   string `gorm:"primaryKey" json:"end_time_local"`
}

func (StoreBusinessHours) TableName() string {
	return "store_business_hours"
}

type StoreTimezone struct {
	StoreID     string `gorm:"primaryKey" json:"store_id"`
	TimezoneStr string `json:"timezone_str"`
}

func (StoreTimezone) TableName() string {
	return "store_timezones"
}
