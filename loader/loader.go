// Package loader implements the replace-and-batch-insert CSV ingestion
// pipeline for the three record kinds the report engine reads.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"store-monitor/model"
	"store-monitor/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Loader struct {
	db        *gorm.DB
	batchSize int
}

func New(db *gorm.DB, batchSize int) *Loader {
	if batchSize <= 0 {
		batchSize = 5000
	}
	return &Loader{db: db, batchSize: batchSize}
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// parseTimestamp accepts the timestamp shapes seen in status CSVs, with or
// without a trailing " UTC" marker, and normalizes to UTC.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), " UTC"))
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// header reads the CSV header and maps the wanted column names to indices.
func header(r *csv.Reader, want ...string) (map[string]int, error) {
	head, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	idx := make(map[string]int, len(want))
	for i, name := range head {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range want {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("csv header missing column %q", name)
		}
	}
	return idx, nil
}

// LoadStoreStatus replaces the store_status table with the CSV contents.
// The whole file is parsed before any row is deleted, so a malformed row
// aborts the load with the previous dataset intact.
func (l *Loader) LoadStoreStatus(r io.Reader) (int, error) {
	logger.Info("starting store status load")

	cr := csv.NewReader(r)
	idx, err := header(cr, "store_id", "timestamp_utc", "status")
	if err != nil {
		return 0, err
	}

	var rows []model.StoreStatus
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read status row %d: %w", len(rows)+1, err)
		}
		ts, err := parseTimestamp(rec[idx["timestamp_utc"]])
		if err != nil {
			return 0, fmt.Errorf("status row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, model.StoreStatus{
			StoreID:      strings.TrimSpace(rec[idx["store_id"]]),
			TimestampUTC: ts,
			Status:       strings.TrimSpace(rec[idx["status"]]),
		})
	}
	logger.Info("parsed store status csv", zap.Int("records", len(rows)))

	return len(rows), l.replaceStatus(rows)
}

// LoadBusinessHours replaces the store_business_hours table. Time-of-day
// values are validated and stored canonically; whether a window crosses
// midnight is derived at read time, never stored.
func (l *Loader) LoadBusinessHours(r io.Reader) (int, error) {
	logger.Info("starting business hours load")

	cr := csv.NewReader(r)
	idx, err := header(cr, "store_id", "dayOfWeek", "start_time_local", "end_time_local")
	if err != nil {
		return 0, err
	}

	var rows []model.StoreBusinessHours
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read business hours row %d: %w", len(rows)+1, err)
		}
		day, err := strconv.Atoi(strings.TrimSpace(rec[idx["dayOfWeek"]]))
		if err != nil || day < 0 || day > 6 {
			return 0, fmt.Errorf("business hours row %d: invalid dayOfWeek %q", len(rows)+1, rec[idx["dayOfWeek"]])
		}
		start, err := model.ParseClock(strings.TrimSpace(rec[idx["start_time_local"]]))
		if err != nil {
			return 0, fmt.Errorf("business hours row %d: %w", len(rows)+1, err)
		}
		end, err := model.ParseClock(strings.TrimSpace(rec[idx["end_time_local"]]))
		if err != nil {
			return 0, fmt.Errorf("business hours row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, model.StoreBusinessHours{
			StoreID:        strings.TrimSpace(rec[idx["store_id"]]),
			DayOfWeek:      day,
			StartTimeLocal: start.String(),
			EndTimeLocal:   end.String(),
		})
	}
	logger.Info("parsed business hours csv", zap.Int("records", len(rows)))

	return len(rows), l.replaceBusinessHours(rows)
}

// LoadTimezones replaces the store_timezones table.
func (l *Loader) LoadTimezones(r io.Reader) (int, error) {
	logger.Info("starting timezone load")

	cr := csv.NewReader(r)
	idx, err := header(cr, "store_id", "timezone_str")
	if err != nil {
		return 0, err
	}

	var rows []model.StoreTimezone
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read timezone row %d: %w", len(rows)+1, err)
		}
		tz := strings.TrimSpace(rec[idx["timezone_str"]])
		if tz == "" {
			return 0, fmt.Errorf("timezone row %d: empty timezone_str", len(rows)+1)
		}
		rows = append(rows, model.StoreTimezone{
			StoreID:     strings.TrimSpace(rec[idx["store_id"]]),
			TimezoneStr: tz,
		})
	}
	logger.Info("parsed timezone csv", zap.Int("records", len(rows)))

	return len(rows), l.replaceTimezones(rows)
}

func (l *Loader) replaceStatus(rows []model.StoreStatus) error {
	if err := l.truncate(&model.StoreStatus{}); err != nil {
		return err
	}
	for start := 0; start < len(rows); start += l.batchSize {
		end := min(start+l.batchSize, len(rows))
		if err := l.db.Create(rows[start:end]).Error; err != nil {
			return fmt.Errorf("failed to insert status batch: %w", err)
		}
		l.logProgress("store_status", end, len(rows))
	}
	logger.Info("store status load completed", zap.Int("records", len(rows)))
	return nil
}

func (l *Loader) replaceBusinessHours(rows []model.StoreBusinessHours) error {
	if err := l.truncate(&model.StoreBusinessHours{}); err != nil {
		return err
	}
	for start := 0; start < len(rows); start += l.batchSize {
		end := min(start+l.batchSize, len(rows))
		if err := l.db.Create(rows[start:end]).Error; err != nil {
			return fmt.Errorf("failed to insert business hours batch: %w", err)
		}
		l.logProgress("store_business_hours", end, len(rows))
	}
	logger.Info("business hours load completed", zap.Int("records", len(rows)))
	return nil
}

func (l *Loader) replaceTimezones(rows []model.StoreTimezone) error {
	if err := l.truncate(&model.StoreTimezone{}); err != nil {
		return err
	}
	for start := 0; start < len(rows); start += l.batchSize {
		end := min(start+l.batchSize, len(rows))
		if err := l.db.Create(rows[start:end]).Error; err != nil {
			return fmt.Errorf("failed to insert timezone batch: %w", err)
		}
		l.logProgress("store_timezones", end, len(rows))
	}
	logger.Info("timezone load completed", zap.Int("records", len(rows)))
	return nil
}

func (l *Loader) truncate(m any) error {
	if err := l.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
		return fmt.Errorf("failed to clear table: %w", err)
	}
	return nil
}

func (l *Loader) logProgress(table string, loaded, total int) {
	percent := 100.0
	if total > 0 {
		percent = float64(loaded) / float64(total) * 100.0
	}
	logger.Info("processed batch",
		zap.String("table", table),
		zap.Int("loaded", loaded),
		zap.Int("total", total),
		zap.Float64("percent", percent))
}
