package report

import (
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"store-monitor/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerProducesRowForEveryStore(t *testing.T) {
	store := newFakeStore()
	store.timezones["good"] = "UTC"
	store.timezones["broken"] = "Not/AZone"

	ref := utc(25, 12, 0)
	for ts := ref.Add(-2 * time.Hour); !ts.After(ref); ts = ts.Add(30 * time.Minute) {
		store.addObservation("good", ts, "active")
		store.addObservation("broken", ts, "active")
	}

	registry := NewMemoryRegistry()
	runner := NewRunner(store, registry, 2, "")

	registry.Create("job-1")
	runner.Run("job-1")

	job, ok := registry.Get("job-1")
	require.True(t, ok)
	require.Equal(t, model.ReportComplete, job.Status)
	assert.Equal(t, 2, job.TotalStores)
	assert.False(t, job.CompletedAt.IsZero())

	records, err := csv.NewReader(strings.NewReader(job.CSVData)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, CSVHeader, records[0])

	rows := map[string][]string{}
	for _, rec := range records[1:] {
		rows[rec[0]] = rec
	}

	// The broken store degrades to an all-zero row, not a missing one.
	require.Contains(t, rows, "broken")
	for _, field := range rows["broken"][1:] {
		assert.Equal(t, "0.00", field)
	}

	// The healthy store was active for its whole observed window.
	require.Contains(t, rows, "good")
	assert.Equal(t, "60.00", rows["good"][1])
	assert.Equal(t, "0.00", rows["good"][4])
}

func TestRunnerTriggerRegistersRunningJob(t *testing.T) {
	store := newFakeStore()
	registry := NewMemoryRegistry()
	runner := NewRunner(store, registry, 1, "")

	id := runner.Trigger()
	require.NotEmpty(t, id)

	job, ok := registry.Get(id)
	require.True(t, ok)
	assert.NotEqual(t, model.ReportError, job.Status)
}

func TestRunnerFinishedHook(t *testing.T) {
	store := newFakeStore()
	registry := NewMemoryRegistry()
	runner := NewRunner(store, registry, 1, "")

	var finished []model.ReportJob
	runner.OnFinished = func(job model.ReportJob) {
		finished = append(finished, job)
	}

	registry.Create("job-2")
	runner.Run("job-2")

	require.Len(t, finished, 1)
	assert.Equal(t, "job-2", finished[0].ID)
	assert.Equal(t, model.ReportComplete, finished[0].Status)
}

func TestMemoryRegistryLifecycle(t *testing.T) {
	registry := NewMemoryRegistry()

	_, ok := registry.Get("missing")
	assert.False(t, ok)

	registry.Create("a")
	job, ok := registry.Get("a")
	require.True(t, ok)
	assert.Equal(t, model.ReportRunning, job.Status)
	assert.False(t, job.CreatedAt.IsZero())

	registry.Complete("a", "store_id\n", 0)
	job, _ = registry.Get("a")
	assert.Equal(t, model.ReportComplete, job.Status)
	assert.Equal(t, "store_id\n", job.CSVData)

	registry.Create("b")
	registry.Fail("b", errors.New("boom"))
	job, _ = registry.Get("b")
	assert.Equal(t, model.ReportError, job.Status)
	assert.Equal(t, "boom", job.Error)

	assert.Len(t, registry.Jobs(), 2)
}
