package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-wc/config"
	"github.com/gcbaptista/go-wc/internal/engine"
	"github.com/gcbaptista/go-wc/internal/input"
	"github.com/gcbaptista/go-wc/internal/logging"
	"github.com/gcbaptista/go-wc/model"
	"github.com/gcbaptista/go-wc/services"
)

// Dependencies are the collaborators the API handlers need.
type Dependencies struct {
	Analyzer services.Analyzer
	Jobs     services.JobManager
	// Gatherer backs GET /metrics; nil leaves the route out.
	Gatherer    prometheus.Gatherer
	DefaultTopK int
	Logger      *zap.Logger
}

// API holds dependencies for API handlers
type API struct {
	analyzer    services.Analyzer
	jobs        services.JobManager
	defaultTopK int
	log         *zap.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(deps Dependencies) *API {
	topK := deps.DefaultTopK
	if topK <= 0 {
		topK = config.DefaultTopK
	}
	return &API{
		analyzer:    deps.Analyzer,
		jobs:        deps.Jobs,
		defaultTopK: topK,
		log:         logging.OrNop(deps.Logger).Named("http"),
	}
}

// SetupRoutes defines all the API routes of the word count service.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	apiHandler := NewAPI(deps)

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Synchronous analysis routes
	router.POST("/count", apiHandler.CountHandler)
	router.POST("/frequency", apiHandler.FrequencyHandler)
	router.POST("/analyze", apiHandler.AnalyzeHandler)

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.POST("/analyze", apiHandler.AnalyzeAsyncHandler) // Start a background analysis
		jobRoutes.GET("", apiHandler.ListJobsHandler)              // List jobs, optionally by status
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler) // Get job performance metrics
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)         // Get job status by ID
	}
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "go-wc",
		"timestamp": time.Now().Unix(),
	})
}

// CountHandler returns lines, words and characters per input plus a total.
// Request Body: AnalyzeRequest (mode fields ignored)
func (api *API) CountHandler(c *gin.Context) {
	req, ok := api.bindRequest(c)
	if !ok {
		return
	}
	req.Lines, req.Words, req.Characters, req.Frequency = true, true, true, false

	res, ok := api.analyze(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res.Report)
}

// FrequencyResponse is the body returned by /frequency.
type FrequencyResponse struct {
	Ranking        []model.RankedEntry `json:"ranking"`
	TopK           int                 `json:"top_k"`
	DistinctTokens int                 `json:"distinct_tokens"`
	TotalTokens    int                 `json:"total_tokens"`
}

// FrequencyHandler returns the top-K words across all inputs.
// Request Body: AnalyzeRequest (mode fields ignored)
func (api *API) FrequencyHandler(c *gin.Context) {
	req, ok := api.bindRequest(c)
	if !ok {
		return
	}
	req.Lines, req.Words, req.Characters, req.Frequency = false, false, false, true

	res, ok := api.analyze(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, FrequencyResponse{
		Ranking:        res.Report.Ranking,
		TopK:           api.topK(req),
		DistinctTokens: res.Table.Len(),
		TotalTokens:    res.Table.Total(),
	})
}

// AnalyzeHandler runs the analysis selected by the mode fields of the body.
// With no mode set it counts lines, words and characters.
func (api *API) AnalyzeHandler(c *gin.Context) {
	req, ok := api.bindRequest(c)
	if !ok {
		return
	}
	applyModeDefaults(req)

	res, ok := api.analyze(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res.Report)
}

// bindRequest decodes and validates the body. It writes the error response
// and returns false when the request cannot be served.
func (api *API) bindRequest(c *gin.Context) (*AnalyzeRequest, bool) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return nil, false
	}
	if result := ValidateAnalyzeRequest(&req); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return nil, false
	}
	return &req, true
}

func (api *API) analyze(c *gin.Context, req *AnalyzeRequest) (*engine.Result, bool) {
	engineReq, err := api.engineRequest(req)
	if err != nil {
		SendInternalError(c, "request preparation", err)
		return nil, false
	}
	res, err := api.analyzer.Analyze(c.Request.Context(), engineReq)
	if err != nil {
		SendAnalysisError(c, err)
		return nil, false
	}
	return res, true
}

func (api *API) engineRequest(req *AnalyzeRequest) (engine.Request, error) {
	provider, err := input.NewStaticProvider(req.Inputs)
	if err != nil {
		return engine.Request{}, err
	}
	names := make([]string, len(req.Inputs))
	for i, in := range req.Inputs {
		names[i] = in.Name
	}
	return engine.Request{
		Inputs:    names,
		Provider:  provider,
		Counts:    req.Lines || req.Words || req.Characters,
		Frequency: req.Frequency,
		TopK:      api.topK(req),
	}, nil
}

func (api *API) topK(req *AnalyzeRequest) int {
	if req.TopK != nil {
		return *req.TopK
	}
	return api.defaultTopK
}

func applyModeDefaults(req *AnalyzeRequest) {
	if !req.Lines && !req.Words && !req.Characters && !req.Frequency {
		req.Lines, req.Words, req.Characters = true, true, true
	}
}
