package model

import "time"

type ReportStatus string

const (
	ReportRunning  ReportStatus = "Running"
	ReportComplete ReportStatus = "Complete"
	ReportError    ReportStatus = "Error"
)

// ReportJob tracks one report run. Jobs live in the in-memory registry for
// the life of the process; they are never persisted.
type ReportJob struct {
	ID          string       `json:"report_id"`
	Status      ReportStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt time.Time    `json:"completed_at,omitempty"`
	CSVData     string       `json:"-"`
	Error       string       `json:"error,omitempty"`
	TotalStores int          `json:"total_stores,omitempty"`
}

// UptimeStats is the uptime/downtime split for one store over one window,
// in minutes of open business time.
type UptimeStats struct {
	UptimeMinutes        float64
	DowntimeMinutes      float64
	TotalBusinessMinutes float64
}

// StoreMetrics is one report row. Hour fields are minutes, day and week
// fields are hours; the mixed units are part of the report contract.
type StoreMetrics struct {
	StoreID          string  `json:"store_id"`
	UptimeLastHour   float64 `json:"uptime_last_hour"`
	UptimeLastDay    float64 `json:"uptime_last_day"`
	UptimeLastWeek   float64 `json:"uptime_last_week"`
	DowntimeLastHour float64 `json:"downtime_last_hour"`
	DowntimeLastDay  float64 `json:"downtime_last_day"`
	DowntimeLastWeek float64 `json:"downtime_last_week"`
}
