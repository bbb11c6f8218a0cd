package services

import (
	"context"

	"github.com/gcbaptista/go-wc/internal/engine"
	"github.com/gcbaptista/go-wc/internal/jobs"
	"github.com/gcbaptista/go-wc/model"
)

// Analyzer runs counting and frequency analysis over named inputs
type Analyzer interface {
	Analyze(ctx context.Context, req engine.Request) (*engine.Result, error)
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	CreateJob(jobType model.JobType, total int, metadata map[string]string) string
	ExecuteJob(jobID string, fn jobs.Func) error
	UpdateJobProgress(jobID string, current, total int, message string)
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
	GetMetrics() jobs.JobMetricsData
	GetJobSuccessRate() float64
	GetCurrentWorkload() int64
}

var (
	_ Analyzer   = (*engine.Engine)(nil)
	_ JobManager = (*jobs.Manager)(nil)
)
