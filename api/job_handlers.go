package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	wcerrors "github.com/gcbaptista/go-wc/internal/errors"
	"github.com/gcbaptista/go-wc/model"
)

// AnalyzeAsyncHandler starts a background analysis job and returns its ID.
// Request Body: AnalyzeRequest
func (api *API) AnalyzeAsyncHandler(c *gin.Context) {
	if api.jobs == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeInvalidRequest, "Job management is not enabled")
		return
	}
	req, ok := api.bindRequest(c)
	if !ok {
		return
	}
	applyModeDefaults(req)

	engineReq, err := api.engineRequest(req)
	if err != nil {
		SendInternalError(c, "request preparation", err)
		return
	}

	jobID := api.jobs.CreateJob(model.JobTypeAnalyze, len(engineReq.Inputs), map[string]string{
		"inputs":    strconv.Itoa(len(engineReq.Inputs)),
		"frequency": strconv.FormatBool(req.Frequency),
		"top_k":     strconv.Itoa(engineReq.TopK),
	})

	err = api.jobs.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) (*model.Report, error) {
		jobReq := engineReq
		jobReq.OnProgress = func(done, total int) {
			api.jobs.UpdateJobProgress(job.ID, done, total, "analyzing inputs")
		}
		res, err := api.analyzer.Analyze(ctx, jobReq)
		if err != nil {
			return nil, err
		}
		return &res.Report, nil
	})
	if err != nil {
		api.log.Warn("failed to start job", zap.String("job_id", jobID), zap.Error(err))
		SendJobExecutionError(c, "analysis", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Analysis of " + strconv.Itoa(len(engineReq.Inputs)) + " input(s) started",
		"job_id":  jobID,
	})
}

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	if api.jobs == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeInvalidRequest, "Job management is not enabled")
		return
	}
	jobID := c.Param("jobId")

	job, err := api.jobs.GetJob(jobID)
	if err != nil {
		if errors.Is(err, wcerrors.ErrJobNotFound) {
			SendJobNotFoundError(c, jobID)
			return
		}
		SendInternalError(c, "job lookup", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler handles requests to list jobs, newest first
func (api *API) ListJobsHandler(c *gin.Context) {
	if api.jobs == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeInvalidRequest, "Job management is not enabled")
		return
	}
	statusParam := c.Query("status")
	if result := ValidateJobStatus(statusParam); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	var statusFilter *model.JobStatus
	if statusParam != "" {
		status := model.JobStatus(statusParam)
		statusFilter = &status
	}

	jobs := api.jobs.ListJobs(statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	if api.jobs == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeInvalidRequest, "Job management is not enabled")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics":          api.jobs.GetMetrics(),
		"success_rate":     api.jobs.GetJobSuccessRate(),
		"current_workload": api.jobs.GetCurrentWorkload(),
	})
}
