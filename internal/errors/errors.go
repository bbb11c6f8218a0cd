package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrInputUnreadable is returned when an input cannot be read
	ErrInputUnreadable = errors.New("input unreadable")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrSnapshotCorrupt is returned when a saved frequency table cannot be decoded
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
)

// InputUnreadableError records which input failed and why
type InputUnreadableError struct {
	Name string
	Err  error
}

func (e *InputUnreadableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: unreadable", e.Name)
	}
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *InputUnreadableError) Is(target error) bool {
	return target == ErrInputUnreadable
}

func (e *InputUnreadableError) Unwrap() error {
	return e.Err
}

// NewInputUnreadableError creates a new InputUnreadableError
func NewInputUnreadableError(name string, err error) *InputUnreadableError {
	return &InputUnreadableError{Name: name, Err: err}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// SnapshotError wraps a failure to decode a saved frequency table
type SnapshotError struct {
	Path string
	Err  error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot '%s' is corrupt: %v", e.Path, e.Err)
}

func (e *SnapshotError) Is(target error) bool {
	return target == ErrSnapshotCorrupt
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// NewSnapshotError creates a new SnapshotError
func NewSnapshotError(path string, err error) *SnapshotError {
	return &SnapshotError{Path: path, Err: err}
}
