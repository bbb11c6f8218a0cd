// Package testutil provides fixtures and helpers shared by the gowc tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-wc/internal/input"
	"github.com/gcbaptista/go-wc/model"
)

// Sample texts with well known rankings.
const (
	SampleText     = "hello world hello world hello test test"
	SampleTextMore = "example example example test test test test hello"
)

// SampleTop3 is the top 3 of SampleText alone.
func SampleTop3() []model.RankedEntry {
	return []model.RankedEntry{
		{Token: "hello", Count: 3},
		{Token: "test", Count: 2},
		{Token: "world", Count: 2},
	}
}

// MergedTop3 is the top 3 of SampleText and SampleTextMore together.
func MergedTop3() []model.RankedEntry {
	return []model.RankedEntry{
		{Token: "test", Count: 6},
		{Token: "hello", Count: 4},
		{Token: "example", Count: 3},
	}
}

// StaticInputs serves texts in memory under the names input-0, input-1, ...
// and returns the provider together with the names in order.
func StaticInputs(t testing.TB, texts ...string) (input.Provider, []string) {
	t.Helper()
	inputs := make([]model.TextInput, len(texts))
	names := make([]string, len(texts))
	for i, text := range texts {
		names[i] = fmt.Sprintf("input-%d", i)
		inputs[i] = model.TextInput{Name: names[i], Text: text}
	}
	p, err := input.NewStaticProvider(inputs)
	require.NoError(t, err)
	return p, names
}

// WriteFiles creates files, keyed by slash separated relative path, below a
// fresh temporary directory and returns that directory.
func WriteFiles(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	}
	return dir
}

// JobGetter is the part of a job manager the polling helpers need.
type JobGetter interface {
	GetJob(jobID string) (*model.Job, error)
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      5 * time.Second,
		PollInterval: 5 * time.Millisecond,
	}
}

// WaitForJob polls a job until it reaches a terminal status or times out
func WaitForJob(t testing.TB, jobs JobGetter, jobID string, opts JobPollingOptions) *model.Job {
	t.Helper()
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not finish within %v", jobID, opts.Timeout)
			return nil
		case <-ticker.C:
			job, err := jobs.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			if job.Status.IsTerminal() {
				return job
			}
			if opts.LogProgress && job.Progress != nil {
				t.Logf("Job %s progress: %d/%d - %s",
					jobID, job.Progress.Current, job.Progress.Total, job.Progress.Message)
			}
		}
	}
}

// AssertJobCompleted verifies that a job completed successfully
func AssertJobCompleted(t testing.TB, job *model.Job, expectedType model.JobType) {
	t.Helper()
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}
