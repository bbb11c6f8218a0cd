// Package api provides the HTTP interface of gowc-server.
package api

import (
	"fmt"
	"strings"

	"github.com/gcbaptista/go-wc/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// AnalyzeRequest is the body accepted by /count, /frequency, /analyze and
// /jobs/analyze. The mode fields are only read by the analyze endpoints.
type AnalyzeRequest struct {
	Inputs     []model.TextInput `json:"inputs"`
	TopK       *int              `json:"top_k,omitempty"`
	Lines      bool              `json:"lines"`
	Words      bool              `json:"words"`
	Characters bool              `json:"characters"`
	Frequency  bool              `json:"frequency"`
}

// ValidateAnalyzeRequest checks the inputs and ranking size of req.
// Unnamed inputs are named "input-<i>" in place so that every input can be
// reported.
func ValidateAnalyzeRequest(req *AnalyzeRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if req == nil {
		result.AddError("body", "Request body is required")
		return result
	}

	if len(req.Inputs) == 0 {
		result.AddError("inputs", "No inputs provided")
	}

	seen := make(map[string]int, len(req.Inputs))
	for i := range req.Inputs {
		in := &req.Inputs[i]
		if in.Name == "" {
			in.Name = fmt.Sprintf("input-%d", i)
		}
		if strings.TrimSpace(in.Name) != in.Name {
			result.AddError(fmt.Sprintf("inputs[%d].name", i), "Input name cannot have leading or trailing whitespace")
			continue
		}
		if first, dup := seen[in.Name]; dup {
			result.AddError(fmt.Sprintf("inputs[%d].name", i),
				fmt.Sprintf("Duplicate input name '%s' (also used by inputs[%d])", in.Name, first))
			continue
		}
		seen[in.Name] = i
	}

	if req.TopK != nil && *req.TopK < 0 {
		result.AddError("top_k", fmt.Sprintf("top_k must not be negative (got %d)", *req.TopK))
	}

	return result
}

// ValidateJobStatus validates the optional status filter of the job list
func ValidateJobStatus(status string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	switch model.JobStatus(status) {
	case "", model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted,
		model.JobStatusFailed, model.JobStatusCancelled:
	default:
		result.AddError("status", "Unknown job status '"+status+"'")
	}

	return result
}
