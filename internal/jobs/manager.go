package jobs

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-wc/internal/errors"
	"github.com/gcbaptista/go-wc/internal/logging"
	"github.com/gcbaptista/go-wc/model"
)

// Func is the work performed by a job. It receives a context cancelled when
// the manager stops and returns the report to attach to the job.
type Func func(ctx context.Context, job *model.Job) (*model.Report, error)

// Manager handles background job execution and tracking
type Manager struct {
	mu        sync.RWMutex
	jobs      map[string]*model.Job
	workers   chan struct{} // Limits concurrent jobs
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	stopOnce  sync.Once
	metrics   *JobMetrics
	retention time.Duration
	log       *zap.Logger
}

// NewManager creates a new job manager with specified worker count.
// Finished jobs older than retention are dropped by the cleanup routine;
// zero keeps them forever.
func NewManager(maxWorkers int, retention time.Duration, log *zap.Logger) *Manager {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		jobs:      make(map[string]*model.Job),
		workers:   make(chan struct{}, maxWorkers),
		ctx:       ctx,
		cancel:    cancel,
		metrics:   NewJobMetrics(),
		retention: retention,
		log:       logging.OrNop(log).Named("jobs"),
	}
}

// Start begins background cleanup of finished jobs
func (m *Manager) Start() {
	m.log.Info("job manager started", zap.Int("max_workers", cap(m.workers)))
	if m.retention > 0 {
		m.wg.Add(1)
		go m.cleanupRoutine()
	}
}

// Stop cancels running jobs and waits for every worker to exit.
// It is safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		// Cancel under mu so ExecuteJob cannot add to wg after Wait starts.
		m.mu.Lock()
		m.cancel()
		m.mu.Unlock()
		m.wg.Wait()
		m.log.Info("job manager stopped")
	})
}

// CreateJob creates a new pending job and returns its ID
func (m *Manager) CreateJob(jobType model.JobType, total int, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		Progress:  &model.JobProgress{Total: total},
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.jobs[job.ID] = job
	m.metrics.RecordJobCreated(jobType)
	m.log.Debug("job created", zap.String("job_id", job.ID), zap.String("type", string(jobType)))
	return job.ID
}

// GetJob returns a copy of the job with the given ID
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return copyJob(job), nil
}

// ListJobs returns copies of all jobs, newest first, optionally filtered by status
func (m *Manager) ListJobs(status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if status == nil || job.Status == *status {
			result = append(result, copyJob(job))
		}
	}
	slices.SortFunc(result, func(a, b *model.Job) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// ExecuteJob runs fn for the pending job in a goroutine once a worker slot
// is free. It returns immediately; poll GetJob for the outcome.
func (m *Manager) ExecuteJob(jobID string, fn Func) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}
	if m.ctx.Err() != nil {
		m.mu.Unlock()
		m.updateJobStatus(jobID, model.JobStatusCancelled, "job manager shutting down", nil)
		return fmt.Errorf("job manager is shutting down")
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()

		// Acquire worker slot
		select {
		case m.workers <- struct{}{}:
		case <-m.ctx.Done():
			m.updateJobStatus(jobID, model.JobStatusCancelled, "job manager shutting down", nil)
			return
		}
		defer func() { <-m.workers }()
		if m.ctx.Err() != nil {
			m.updateJobStatus(jobID, model.JobStatusCancelled, "job manager shutting down", nil)
			return
		}

		m.updateJobStatus(jobID, model.JobStatusRunning, "", nil)
		snapshot, _ := m.GetJob(jobID)

		startTime := time.Now()
		report, err := fn(m.ctx, snapshot)
		executionTime := time.Since(startTime)

		switch {
		case err != nil && m.ctx.Err() != nil:
			m.updateJobStatus(jobID, model.JobStatusCancelled, err.Error(), nil)
		case err != nil:
			m.updateJobStatus(jobID, model.JobStatusFailed, err.Error(), nil)
			m.metrics.RecordJobFailed(snapshot.Type)
			m.log.Warn("job failed", zap.String("job_id", jobID),
				zap.Duration("took", executionTime), zap.Error(err))
		default:
			m.updateJobStatus(jobID, model.JobStatusCompleted, "", report)
			m.metrics.RecordJobCompleted(snapshot.Type, executionTime)
			m.log.Debug("job completed", zap.String("job_id", jobID), zap.Duration("took", executionTime))
		}
	}()

	return nil
}

// UpdateJobProgress updates the progress of a running job
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}
	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

// updateJobStatus moves a job to status, attaching an error message or a
// result. Terminal jobs are never updated again.
func (m *Manager) updateJobStatus(jobID string, status model.JobStatus, errorMsg string, report *model.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists || job.Status.IsTerminal() {
		return
	}

	oldStatus := job.Status
	job.Status = status
	now := time.Now()
	if status == model.JobStatusRunning {
		job.StartedAt = &now
	}
	if errorMsg != "" {
		job.Error = errorMsg
	}
	if report != nil {
		job.Result = report
	}
	if status.IsTerminal() {
		job.CompletedAt = &now
	}

	m.metrics.RecordJobStatusChange(oldStatus, status)
}

// cleanupRoutine runs periodic job cleanup
func (m *Manager) cleanupRoutine() {
	defer m.wg.Done()

	interval := m.retention / 24
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(m.retention)
		case <-m.ctx.Done():
			return
		}
	}
}

// CleanupOldJobs removes finished jobs that completed more than maxAge ago
// and returns how many were removed.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0
	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			cleaned++
		}
	}
	if cleaned > 0 {
		m.log.Info("cleaned up old jobs", zap.Int("count", cleaned))
	}
	return cleaned
}

// GetMetrics returns current job performance metrics
func (m *Manager) GetMetrics() JobMetricsData {
	return m.metrics.GetMetrics()
}

// Collector exposes the job metrics to Prometheus
func (m *Manager) Collector() prometheus.Collector {
	return m.metrics
}

// GetJobSuccessRate returns the overall job success rate
func (m *Manager) GetJobSuccessRate() float64 {
	return m.metrics.GetSuccessRate()
}

// GetCurrentWorkload returns the number of pending and running jobs
func (m *Manager) GetCurrentWorkload() int64 {
	return m.metrics.GetCurrentWorkload()
}

func copyJob(job *model.Job) *model.Job {
	jobCopy := *job
	if job.Progress != nil {
		progressCopy := *job.Progress
		jobCopy.Progress = &progressCopy
	}
	if job.Metadata != nil {
		jobCopy.Metadata = make(map[string]string, len(job.Metadata))
		for k, v := range job.Metadata {
			jobCopy.Metadata[k] = v
		}
	}
	return &jobCopy
}
