package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reelpilot/autopost/internal/domain"
	"github.com/reelpilot/autopost/internal/ports"
)

// SubmitJobs validates a post request and materializes one PENDING job per
// requested account. Admission is all-or-nothing: any invalid account aborts
// the whole batch before a single row is written. Daily-limit eligibility is
// deliberately NOT checked here — it can change between admission and
// execution, so BeginJob re-validates it at start time instead.
func (s *Service) SubmitJobs(ctx context.Context, userID uuid.UUID, req SubmitJobsRequest) (SubmitJobsResult, error) {
	if len(req.AccountIDs) == 0 {
		return SubmitJobsResult{}, fmt.Errorf("%w: at least one account is required", domain.ErrInvalidRequest)
	}
	priority := 0
	if req.Priority != nil {
		priority = *req.Priority
	}
	if priority < 0 || priority > domain.MaxPriority {
		return SubmitJobsResult{}, fmt.Errorf("%w: priority must be between 0 and %d", domain.ErrInvalidRequest, domain.MaxPriority)
	}

	video, err := s.videos.GetOwned(ctx, userID, req.VideoID)
	if err != nil {
		return SubmitJobsResult{}, fmt.Errorf("%w: video not found", domain.ErrNotFound)
	}

	accounts, err := s.accounts.ListOwnedByIDs(ctx, userID, req.AccountIDs)
	if err != nil {
		return SubmitJobsResult{}, err
	}
	if len(accounts) != len(req.AccountIDs) {
		resolved := make(map[uuid.UUID]bool, len(accounts))
		for _, a := range accounts {
			resolved[a.AccountID] = true
		}
		missing := make([]string, 0)
		for _, id := range req.AccountIDs {
			if !resolved[id] {
				missing = append(missing, id.String())
			}
		}
		return SubmitJobsResult{}, fmt.Errorf("%w: accounts not found or not owned by requester: %s",
			domain.ErrInvalidRequest, strings.Join(missing, ", "))
	}

	blocked := make([]string, 0)
	for _, a := range accounts {
		if a.Blocked() {
			blocked = append(blocked, a.Username)
		}
	}
	if len(blocked) > 0 {
		return SubmitJobsResult{}, fmt.Errorf("%w: cannot create jobs for banned or suspended accounts: %s",
			domain.ErrInvalidRequest, strings.Join(blocked, ", "))
	}

	batch := make([]ports.NewJobParams, 0, len(accounts))
	for _, a := range accounts {
		batch = append(batch, ports.NewJobParams{
			AccountID:    a.AccountID,
			VideoID:      video.VideoID,
			Priority:     priority,
			ScheduledFor: req.ScheduledFor,
			MaxAttempts:  s.cfg.DefaultMaxAttempts,
		})
	}

	now := s.nowFn()
	payload, _ := json.Marshal(map[string]any{
		"video_id":     video.VideoID,
		"account_ids":  req.AccountIDs,
		"priority":     priority,
		"requested_by": userID,
		"requested_at": now,
	})
	jobs, err := s.jobs.CreateBatchTx(ctx, batch, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    ports.EventJobBatchCreated,
		PartitionKey: video.VideoID.String(),
		Payload:      payload,
		OccurredAt:   now,
	})
	if err != nil {
		return SubmitJobsResult{}, err
	}
	return SubmitJobsResult{Created: len(jobs), Jobs: jobs}, nil
}

// GetJob returns one job scoped to the owner of its account.
func (s *Service) GetJob(ctx context.Context, userID, jobID uuid.UUID) (domain.Job, error) {
	return s.jobs.GetOwned(ctx, userID, jobID)
}

// ListJobs returns the caller's jobs, optionally narrowed by status/account.
func (s *Service) ListJobs(ctx context.Context, userID uuid.UUID, q ListJobsQuery) ([]domain.Job, error) {
	return s.jobs.ListByOwner(ctx, userID, ports.JobFilter{Status: q.Status, AccountID: q.AccountID})
}

// GetJobLogs returns the execution trace of one job.
func (s *Service) GetJobLogs(ctx context.Context, userID, jobID uuid.UUID) (JobLogsResult, error) {
	job, err := s.jobs.GetOwned(ctx, userID, jobID)
	if err != nil {
		return JobLogsResult{}, err
	}
	return JobLogsResult{
		JobID:       job.JobID,
		Status:      job.Status,
		Logs:        job.Logs,
		Screenshots: job.Screenshots,
		Error:       job.Error,
		ErrorStack:  job.ErrorStack,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
		FailedAt:    job.FailedAt,
	}, nil
}

// RetryJob moves a FAILED job to RETRY, guarded by the attempt budget. RETRY is
// distinct from PENDING so job history shows the job was retried.
func (s *Service) RetryJob(ctx context.Context, userID, jobID uuid.UUID) (domain.Job, error) {
	job, err := s.jobs.GetOwned(ctx, userID, jobID)
	if err != nil {
		return domain.Job{}, err
	}
	if job.Status.Terminal() {
		return domain.Job{}, fmt.Errorf("%w: job is %s", domain.ErrInvalidTransition, job.Status)
	}
	if job.Status != domain.JobFailed {
		return domain.Job{}, fmt.Errorf("%w: only failed jobs can be retried", domain.ErrInvalidRequest)
	}
	if job.AttemptCount >= job.MaxAttempts {
		return domain.Job{}, fmt.Errorf("%w: %d of %d attempts used", domain.ErrRetryExhausted, job.AttemptCount, job.MaxAttempts)
	}

	// The store re-checks status and attempt budget inside the UPDATE; a lost
	// race surfaces as applied=false rather than a double transition.
	applied, err := s.jobs.MarkRetried(ctx, jobID, s.nowFn())
	if err != nil {
		return domain.Job{}, err
	}
	if !applied {
		return domain.Job{}, fmt.Errorf("%w: job changed state concurrently", domain.ErrInvalidTransition)
	}
	return s.jobs.GetOwned(ctx, userID, jobID)
}

// CancelJob marks a non-terminal job CANCELLED and raises the cooperative
// cancellation flag for polling executors. In-flight work is not interrupted.
func (s *Service) CancelJob(ctx context.Context, userID, jobID uuid.UUID) (domain.Job, error) {
	job, err := s.jobs.GetOwned(ctx, userID, jobID)
	if err != nil {
		return domain.Job{}, err
	}
	if job.Status.Terminal() {
		return domain.Job{}, fmt.Errorf("%w: cannot cancel job with status %s", domain.ErrInvalidTransition, job.Status)
	}

	now := s.nowFn()
	payload, _ := json.Marshal(map[string]any{
		"job_id":       job.JobID,
		"account_id":   job.AccountID,
		"cancelled_at": now,
	})
	applied, err := s.jobs.MarkCancelled(ctx, jobID, now, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    ports.EventJobCancelled,
		PartitionKey: job.JobID.String(),
		Payload:      payload,
		OccurredAt:   now,
	})
	if err != nil {
		return domain.Job{}, err
	}
	if !applied {
		return domain.Job{}, fmt.Errorf("%w: job changed state concurrently", domain.ErrInvalidTransition)
	}
	_ = s.cancellations.MarkCancelled(ctx, jobID, s.cfg.CancelFlagTTL)
	return s.jobs.GetOwned(ctx, userID, jobID)
}

// MarkJobQueued records that the external scheduler dequeued the job for
// execution (PENDING/RETRY -> QUEUED).
func (s *Service) MarkJobQueued(ctx context.Context, jobID uuid.UUID) error {
	applied, err := s.jobs.MarkQueued(ctx, jobID, s.nowFn())
	if err != nil {
		return err
	}
	if !applied {
		return s.transitionRejected(ctx, jobID, domain.JobQueued)
	}
	return nil
}

// BeginJob records executor start. Eligibility is re-validated here, not just
// at admission: the account may have been banned or hit its daily limit since
// the job was created.
func (s *Service) BeginJob(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return err
	}
	account, err := s.accounts.Get(ctx, job.AccountID)
	if err != nil {
		return err
	}
	if !domain.AccountEligibleForJob(account) {
		return fmt.Errorf("%w: account %s is not eligible at execution time", domain.ErrInvalidRequest, account.Username)
	}
	applied, err := s.jobs.MarkProcessing(ctx, jobID, s.nowFn())
	if err != nil {
		return err
	}
	if !applied {
		return s.transitionRejected(ctx, jobID, domain.JobProcessing)
	}
	return nil
}

// CompleteJob records executor success: COMPLETED, completed_at, error cleared,
// and the account's posts_today bumped — one transaction.
func (s *Service) CompleteJob(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return err
	}
	now := s.nowFn()
	payload, _ := json.Marshal(map[string]any{
		"job_id":       job.JobID,
		"account_id":   job.AccountID,
		"video_id":     job.VideoID,
		"completed_at": now,
	})
	applied, err := s.jobs.CompleteTx(ctx, jobID, now, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    ports.EventJobCompleted,
		PartitionKey: job.AccountID.String(),
		Payload:      payload,
		OccurredAt:   now,
	})
	if err != nil {
		return err
	}
	if !applied {
		return s.transitionRejected(ctx, jobID, domain.JobCompleted)
	}
	return nil
}

// FailJob records executor failure: FAILED, failed_at, error details, and the
// attempt counter bumped atomically.
func (s *Service) FailJob(ctx context.Context, jobID uuid.UUID, errMsg, errStack string) error {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return err
	}
	now := s.nowFn()
	payload, _ := json.Marshal(map[string]any{
		"job_id":     job.JobID,
		"account_id": job.AccountID,
		"error":      errMsg,
		"failed_at":  now,
	})
	applied, err := s.jobs.MarkFailed(ctx, jobID, now, errMsg, errStack, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    ports.EventJobFailed,
		PartitionKey: job.AccountID.String(),
		Payload:      payload,
		OccurredAt:   now,
	})
	if err != nil {
		return err
	}
	if !applied {
		return s.transitionRejected(ctx, jobID, domain.JobFailed)
	}
	return nil
}

// AppendJobLog appends one line to the job's execution log.
func (s *Service) AppendJobLog(ctx context.Context, jobID uuid.UUID, message string) error {
	return s.jobs.AppendLog(ctx, jobID, domain.JobLogEntry{At: s.nowFn(), Message: message})
}

// AddJobScreenshot records a screenshot reference captured during execution.
func (s *Service) AddJobScreenshot(ctx context.Context, jobID uuid.UUID, ref string) error {
	return s.jobs.AddScreenshot(ctx, jobID, ref)
}

// IsJobCancelled exposes the cooperative-cancellation flag to polling executors.
func (s *Service) IsJobCancelled(ctx context.Context, jobID uuid.UUID) (bool, error) {
	return s.cancellations.IsCancelled(ctx, jobID)
}

// ListStuckJobs returns PROCESSING jobs older than the configured ceiling, for
// the external sweeper that reconciles them back to FAILED.
func (s *Service) ListStuckJobs(ctx context.Context, limit int) ([]domain.Job, error) {
	return s.jobs.ListProcessingOlderThan(ctx, s.nowFn().Add(-s.cfg.StuckJobCeiling), limit)
}

// transitionRejected reloads the job to report the state that blocked the move.
func (s *Service) transitionRejected(ctx context.Context, jobID uuid.UUID, target domain.JobStatus) error {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, job.Status, target)
}

// StuckJobCeiling reports the configured PROCESSING age ceiling.
func (s *Service) StuckJobCeiling() time.Duration {
	return s.cfg.StuckJobCeiling
}
