package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of one posting job.
type JobStatus string

const (
	JobPending    JobStatus = "PENDING"
	JobQueued     JobStatus = "QUEUED"
	JobProcessing JobStatus = "PROCESSING"
	JobCompleted  JobStatus = "COMPLETED"
	JobFailed     JobStatus = "FAILED"
	JobCancelled  JobStatus = "CANCELLED"
	JobRetry      JobStatus = "RETRY"
)

const (
	// DefaultMaxAttempts bounds executor retries per job.
	DefaultMaxAttempts = 3
	// MaxPriority caps the job priority range (0..MaxPriority).
	MaxPriority = 10
)

// Job is one (account, video) unit of automation work. Jobs are never deleted;
// cancellation is a terminal state, not removal.
type Job struct {
	JobID        uuid.UUID
	AccountID    uuid.UUID
	VideoID      uuid.UUID
	Priority     int
	ScheduledFor *time.Time
	Status       JobStatus
	AttemptCount int
	MaxAttempts  int
	Error        string
	ErrorStack   string
	Logs         []JobLogEntry
	Screenshots  []string
	StartedAt    *time.Time
	CompletedAt  *time.Time
	FailedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// JobLogEntry is one line of the job's append-only execution log.
type JobLogEntry struct {
	At      time.Time
	Message string
}

// Terminal reports whether no outbound transition exists from s.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobCancelled
}

// jobTransitions enumerates the legal status moves. FAILED -> RETRY carries an
// additional attempt-count guard enforced at the store so concurrent retries
// cannot both pass it.
var jobTransitions = map[JobStatus][]JobStatus{
	JobPending:    {JobQueued, JobProcessing, JobCancelled},
	JobQueued:     {JobProcessing, JobCancelled},
	JobProcessing: {JobCompleted, JobFailed, JobCancelled},
	JobFailed:     {JobRetry, JobCancelled},
	JobRetry:      {JobQueued, JobProcessing, JobCancelled},
}

// JobCanTransition reports whether from -> to is a legal job status move.
func JobCanTransition(from, to JobStatus) bool {
	for _, next := range jobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CancellableStatuses are the source states from which an explicit cancel is
// accepted. A FAILED job can be cancelled instead of retried. Cancelling a
// PROCESSING job is cooperative: the record flips to CANCELLED and the
// executor is expected to observe it and abandon the work.
var CancellableStatuses = []JobStatus{JobPending, JobQueued, JobProcessing, JobFailed, JobRetry}
