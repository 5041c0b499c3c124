package report

import (
	"sync"
	"time"

	"store-monitor/model"
)

// Registry stores report jobs keyed by id. It is injected into the runner so
// report computation stays testable without any storage dependency.
type Registry interface {
	Create(id string)
	Complete(id, csvData string, totalStores int)
	Fail(id string, err error)
	Get(id string) (model.ReportJob, bool)
	Jobs() []model.ReportJob
}

// MemoryRegistry is the process-lifetime implementation. Jobs are mutated
// once to a terminal state and never evicted; retention is the caller's
// concern.
type MemoryRegistry struct {
	mu   sync.RWMutex
	jobs map[string]*model.ReportJob
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{jobs: make(map[string]*model.ReportJob)}
}

func (r *MemoryRegistry) Create(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[id] = &model.ReportJob{
		ID:        id,
		Status:    model.ReportRunning,
		CreatedAt: time.Now().UTC(),
	}
}

func (r *MemoryRegistry) Complete(id, csvData string, totalStores int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return
	}
	job.Status = model.ReportComplete
	job.CSVData = csvData
	job.TotalStores = totalStores
	job.CompletedAt = time.Now().UTC()
}

func (r *MemoryRegistry) Fail(id string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return
	}
	job.Status = model.ReportError
	job.Error = err.Error()
	job.CompletedAt = time.Now().UTC()
}

func (r *MemoryRegistry) Get(id string) (model.ReportJob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return model.ReportJob{}, false
	}
	return *job, true
}

func (r *MemoryRegistry) Jobs() []model.ReportJob {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.ReportJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, *job)
	}
	return out
}
