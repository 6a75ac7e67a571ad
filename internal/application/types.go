package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/reelpilot/autopost/internal/domain"
)

// Config carries the policy knobs the service applies uniformly.
type Config struct {
	DefaultDailyPostLimit int
	DefaultMaxAttempts    int
	// CancelFlagTTL bounds how long a cooperative-cancellation flag stays
	// visible to polling executors after a cancel.
	CancelFlagTTL time.Duration
	// StuckJobCeiling is the PROCESSING age past which a job is considered
	// stuck; the external sweeper queries against it.
	StuckJobCeiling time.Duration
}

// SubmitJobsRequest is a user's "post this video from these accounts" request.
type SubmitJobsRequest struct {
	VideoID      uuid.UUID
	AccountIDs   []uuid.UUID
	Priority     *int
	ScheduledFor *time.Time
}

// SubmitJobsResult reports an admitted batch.
type SubmitJobsResult struct {
	Created int
	Jobs    []domain.Job
}

// CreateAccountRequest carries the inputs for a new posting account.
// Password is plaintext here and sealed before it reaches storage.
type CreateAccountRequest struct {
	Username       string
	Password       string
	Email          string
	PhoneNumber    string
	ProxyID        *uuid.UUID
	DailyPostLimit int
}

// UpdateAccountRequest carries mutable account fields. Nil means unchanged.
type UpdateAccountRequest struct {
	Email          *string
	PhoneNumber    *string
	ProxyID        *uuid.UUID
	ClearProxy     bool
	DailyPostLimit *int
	Password       *string
	IsWarmedUp     *bool
}

// CreateProxyRequest carries the inputs for a new pool proxy.
type CreateProxyRequest struct {
	Host     string
	Port     int
	Username string
	Password string
	Protocol domain.ProxyProtocol
	Country  string
}

// UpdateProxyRequest carries mutable proxy fields. Nil means unchanged.
type UpdateProxyRequest struct {
	Host     *string
	Port     *int
	Username *string
	Password *string
	Protocol *domain.ProxyProtocol
	Country  *string
	IsActive *bool
}

// CreateVideoRequest carries metadata from the media-storage collaborator.
type CreateVideoRequest struct {
	Title        string
	Description  string
	Tags         []string
	OriginalName string
	StoragePath  string
	MimeType     string
	SizeBytes    int64
	Duration     float64
}

// UpdateVideoRequest carries mutable video metadata. Nil means unchanged.
type UpdateVideoRequest struct {
	Title       *string
	Description *string
	Tags        []string
}

// JobLogsResult is the execution trace view of one job.
type JobLogsResult struct {
	JobID       uuid.UUID
	Status      domain.JobStatus
	Logs        []domain.JobLogEntry
	Screenshots []string
	Error       string
	ErrorStack  string
	StartedAt   *time.Time
	CompletedAt *time.Time
	FailedAt    *time.Time
}

// ListJobsQuery narrows job listings.
type ListJobsQuery struct {
	Status    *domain.JobStatus
	AccountID *uuid.UUID
}
