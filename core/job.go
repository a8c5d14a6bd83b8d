package core

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of an asynchronous ingestion job.
type JobStatus string

const (
	JobStatusCreated   JobStatus = "created"
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status is a terminal state.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is a handle to asynchronous ingestion work. Metadata is free-form and
// is populated with diagnostic detail when the job fails.
type Job struct {
	ID          uuid.UUID
	Status      JobStatus
	Metadata    map[string]any
	CreatedAt   time.Time
	CompletedAt time.Time
}
