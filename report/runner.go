package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"store-monitor/model"
	"store-monitor/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CSVHeader is the report column order, fixed by the download contract.
var CSVHeader = []string{
	"store_id",
	"uptime_last_hour", "uptime_last_day", "uptime_last_week",
	"downtime_last_hour", "downtime_last_day", "downtime_last_week",
}

// Runner executes report runs: one reference instant, every store seen in
// observation history, a fresh Engine per run.
type Runner struct {
	store    Store
	registry Registry
	workers  int

	defaultTZ string

	// OnFinished, when set, is invoked with the job after it reaches a
	// terminal state.
	OnFinished func(model.ReportJob)
}

func NewRunner(store Store, registry Registry, workers int, defaultTZ string) *Runner {
	if workers <= 0 {
		workers = 1
	}
	return &Runner{store: store, registry: registry, workers: workers, defaultTZ: defaultTZ}
}

// Trigger registers a new running job and computes it in the background.
func (r *Runner) Trigger() string {
	id := uuid.NewString()
	r.registry.Create(id)
	go r.Run(id)
	return id
}

// Run computes the report for an already-registered job id.
func (r *Runner) Run(id string) {
	start := time.Now()
	logger.Info("report run started", zap.String("report_id", id))

	rows, err := r.computeAll()
	if err != nil {
		logger.Error("report run failed", zap.String("report_id", id), zap.Error(err))
		r.registry.Fail(id, err)
		r.finish(id)
		return
	}

	csvData, err := buildCSV(rows)
	if err != nil {
		r.registry.Fail(id, err)
		r.finish(id)
		return
	}

	r.registry.Complete(id, csvData, len(rows))
	logger.Info("report run completed",
		zap.String("report_id", id),
		zap.Int("stores", len(rows)),
		zap.Duration("elapsed", time.Since(start)))
	r.finish(id)
}

func (r *Runner) finish(id string) {
	if r.OnFinished == nil {
		return
	}
	if job, ok := r.registry.Get(id); ok {
		r.OnFinished(job)
	}
}

// computeAll fans the per-store computation out over a bounded worker pool.
// Stores are independent; a failing store yields an all-zero row and never
// aborts its siblings.
func (r *Runner) computeAll() ([]model.StoreMetrics, error) {
	reference, err := r.referenceTime()
	if err != nil {
		return nil, err
	}
	storeIDs, err := r.store.DistinctStoreIDs()
	if err != nil {
		return nil, err
	}

	// Fresh engine per run: caches never outlive one dataset.
	engine := NewEngine(r.store, r.defaultTZ)

	rows := make([]model.StoreMetrics, len(storeIDs))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rows[i] = computeOne(engine, storeIDs[i], reference)
			}
		}()
	}
	for i := range storeIDs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return rows, nil
}

// computeOne isolates a single store's computation; any error or panic
// degrades to an all-zero row.
func computeOne(engine *Engine, storeID string, reference time.Time) (row model.StoreMetrics) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("panic computing store metrics",
				zap.String("store_id", storeID), zap.Any("panic", p))
			row = model.StoreMetrics{StoreID: storeID}
		}
	}()

	metrics, err := engine.ComputeMetrics(storeID, reference)
	if err != nil {
		logger.Warn("failed to compute store metrics",
			zap.String("store_id", storeID), zap.Error(err))
		return model.StoreMetrics{StoreID: storeID}
	}

	metrics.UptimeLastHour = round2(metrics.UptimeLastHour)
	metrics.UptimeLastDay = round2(metrics.UptimeLastDay)
	metrics.UptimeLastWeek = round2(metrics.UptimeLastWeek)
	metrics.DowntimeLastHour = round2(metrics.DowntimeLastHour)
	metrics.DowntimeLastDay = round2(metrics.DowntimeLastDay)
	metrics.DowntimeLastWeek = round2(metrics.DowntimeLastWeek)
	return metrics
}

// referenceTime is the newest observation timestamp in the dataset, falling
// back to now when no observations exist.
func (r *Runner) referenceTime() (time.Time, error) {
	latest, err := r.store.LatestObservationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to resolve reference time: %w", err)
	}
	if latest.IsZero() {
		return time.Now().UTC(), nil
	}
	return latest.UTC(), nil
}

func buildCSV(rows []model.StoreMetrics) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(CSVHeader); err != nil {
		return "", err
	}
	for _, row := range rows {
		record := []string{
			row.StoreID,
			formatMetric(row.UptimeLastHour),
			formatMetric(row.UptimeLastDay),
			formatMetric(row.UptimeLastWeek),
			formatMetric(row.DowntimeLastHour),
			formatMetric(row.DowntimeLastDay),
			formatMetric(row.DowntimeLastWeek),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
