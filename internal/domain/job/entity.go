// Package job defines the background processing job aggregate and its state
// machine.  Jobs are persisted for status polling and audit; the actual work
// queue lives in Redis.
package job

import (
	"time"

	"github.com/google/uuid"

	"github.com/adsforge/adsforge/pkg/errors"
)

// Type identifies what work the job performs.
type Type string

const (
	TypeExtraction Type = "extraction"
	TypeADSGen     Type = "ads_generation"
	TypeReport     Type = "report"
)

// Status is the job lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Job is one unit of background work.
type Job struct {
	ID         uuid.UUID `json:"id"`
	Type       Type      `json:"type"`
	OwnerID    uuid.UUID `json:"owner_id"`
	DocumentID uuid.UUID `json:"document_id,omitempty"`

	Status    Status `json:"status"`
	Attempts  int    `json:"attempts"`
	MaxRetry  int    `json:"max_retry"`
	LastError string `json:"last_error,omitempty"`

	// ResultRef points at the job's output: an application ID for extraction
	// jobs, a storage key for generation and report jobs.
	ResultRef string `json:"result_ref,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// New creates a pending job.
func New(jobType Type, ownerID, documentID uuid.UUID, maxRetry int) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		OwnerID:    ownerID,
		DocumentID: documentID,
		Status:     StatusPending,
		MaxRetry:   maxRetry,
	}
}

// Start transitions the job to running and counts the attempt.
func (j *Job) Start() error {
	if j.Status == StatusSucceeded {
		return errors.New(errors.ErrCodeJobAlreadyDone, "job already completed")
	}
	now := time.Now().UTC()
	j.Status = StatusRunning
	j.StartedAt = &now
	j.Attempts++
	return nil
}

// Succeed records successful completion.
func (j *Job) Succeed(resultRef string) {
	now := time.Now().UTC()
	j.Status = StatusSucceeded
	j.ResultRef = resultRef
	j.LastError = ""
	j.FinishedAt = &now
}

// Fail records a failed attempt.  The job returns to pending while retries
// remain; it goes terminal once the retry budget is spent.
func (j *Job) Fail(reason string) {
	j.LastError = reason
	if j.Attempts > j.MaxRetry {
		now := time.Now().UTC()
		j.Status = StatusFailed
		j.FinishedAt = &now
		return
	}
	j.Status = StatusPending
}

// Retryable reports whether the job may be attempted again.
func (j *Job) Retryable() bool {
	return j.Status == StatusPending && j.Attempts <= j.MaxRetry
}
