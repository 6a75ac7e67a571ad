package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/reelpilot/autopost/internal/domain"
	"github.com/reelpilot/autopost/internal/ports"
	"gorm.io/gorm"
)

type jobRepository struct {
	db *gorm.DB
}

// CreateBatchTx inserts every job of an admitted batch plus the batch outbox
// event in one transaction. A failure on any row rolls the whole batch back.
func (r *jobRepository) CreateBatchTx(ctx context.Context, batch []ports.NewJobParams, event ports.OutboxEvent) ([]domain.Job, error) {
	now := time.Now().UTC()
	result := make([]domain.Job, 0, len(batch))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, params := range batch {
			rec := jobModel{
				AccountID:    params.AccountID,
				VideoID:      params.VideoID,
				Priority:     params.Priority,
				ScheduledFor: params.ScheduledFor,
				Status:       string(domain.JobPending),
				MaxAttempts:  params.MaxAttempts,
				Logs:         "[]",
				Screenshots:  "[]",
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			result = append(result, toDomainJob(rec))
		}

		outbox := outboxModel{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      string(event.Payload),
			CreatedAt:    event.OccurredAt,
		}
		return tx.Create(&outbox).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *jobRepository) Get(ctx context.Context, jobID uuid.UUID) (domain.Job, error) {
	var rec jobModel
	if err := r.db.WithContext(ctx).Where("job_id = ?", jobID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Job{}, domain.ErrNotFound
		}
		return domain.Job{}, err
	}
	return toDomainJob(rec), nil
}

// GetOwned resolves a job through its account's owner so users can only ever
// see jobs for accounts they own.
func (r *jobRepository) GetOwned(ctx context.Context, ownerID, jobID uuid.UUID) (domain.Job, error) {
	var rec jobModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN accounts ON accounts.account_id = post_jobs.account_id").
		Where("post_jobs.job_id = ?", jobID).
		Where("accounts.owner_id = ?", ownerID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Job{}, domain.ErrNotFound
		}
		return domain.Job{}, err
	}
	return toDomainJob(rec), nil
}

func (r *jobRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter ports.JobFilter) ([]domain.Job, error) {
	query := r.db.WithContext(ctx).
		Joins("JOIN accounts ON accounts.account_id = post_jobs.account_id").
		Where("accounts.owner_id = ?", ownerID)
	if filter.Status != nil {
		query = query.Where("post_jobs.status = ?", string(*filter.Status))
	}
	if filter.AccountID != nil {
		query = query.Where("post_jobs.account_id = ?", *filter.AccountID)
	}
	var rows []jobModel
	if err := query.Order("post_jobs.created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Job, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainJob(row))
	}
	return result, nil
}

func (r *jobRepository) MarkQueued(ctx context.Context, jobID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&jobModel{}).
		Where("job_id = ?", jobID).
		Where("status IN ?", []string{string(domain.JobPending), string(domain.JobRetry)}).
		Updates(map[string]any{
			"status":     string(domain.JobQueued),
			"updated_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *jobRepository) MarkProcessing(ctx context.Context, jobID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&jobModel{}).
		Where("job_id = ?", jobID).
		Where("status IN ?", []string{string(domain.JobPending), string(domain.JobQueued), string(domain.JobRetry)}).
		Updates(map[string]any{
			"status":        string(domain.JobProcessing),
			"started_at":    at,
			"attempt_count": gorm.Expr("attempt_count + 1"),
			"updated_at":    at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CompleteTx flips PROCESSING -> COMPLETED, bumps the account's posts_today
// with a SQL-side increment, and enqueues the completion event. All three
// commit or none do, so a crash can never count a post that no completed job
// backs.
func (r *jobRepository) CompleteTx(ctx context.Context, jobID uuid.UUID, at time.Time, event ports.OutboxEvent) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec jobModel
		if err := tx.Where("job_id = ?", jobID).Take(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		res := tx.Model(&jobModel{}).
			Where("job_id = ?", jobID).
			Where("status = ?", string(domain.JobProcessing)).
			Updates(map[string]any{
				"status":       string(domain.JobCompleted),
				"completed_at": at,
				"error":        nil,
				"error_stack":  nil,
				"updated_at":   at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := tx.Model(&accountModel{}).
			Where("account_id = ?", rec.AccountID).
			Updates(map[string]any{
				"posts_today": gorm.Expr("posts_today + 1"),
				"updated_at":  at,
			}).Error; err != nil {
			return err
		}

		outbox := outboxModel{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      string(event.Payload),
			CreatedAt:    event.OccurredAt,
		}
		if err := tx.Create(&outbox).Error; err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *jobRepository) MarkFailed(ctx context.Context, jobID uuid.UUID, at time.Time, errMsg, errStack string, event ports.OutboxEvent) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&jobModel{}).
			Where("job_id = ?", jobID).
			Where("status = ?", string(domain.JobProcessing)).
			Updates(map[string]any{
				"status":      string(domain.JobFailed),
				"failed_at":   at,
				"error":       nullableString(errMsg),
				"error_stack": nullableString(errStack),
				"updated_at":  at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		outbox := outboxModel{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      string(event.Payload),
			CreatedAt:    event.OccurredAt,
		}
		if err := tx.Create(&outbox).Error; err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// MarkRetried applies FAILED -> RETRY with the attempt budget re-checked
// inside the UPDATE, so two concurrent retry requests cannot both pass.
func (r *jobRepository) MarkRetried(ctx context.Context, jobID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&jobModel{}).
		Where("job_id = ?", jobID).
		Where("status = ?", string(domain.JobFailed)).
		Where("attempt_count < max_attempts").
		Updates(map[string]any{
			"status":      string(domain.JobRetry),
			"error":       nil,
			"error_stack": nil,
			"updated_at":  at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *jobRepository) MarkCancelled(ctx context.Context, jobID uuid.UUID, at time.Time, event ports.OutboxEvent) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		statuses := make([]string, 0, len(domain.CancellableStatuses))
		for _, s := range domain.CancellableStatuses {
			statuses = append(statuses, string(s))
		}
		res := tx.Model(&jobModel{}).
			Where("job_id = ?", jobID).
			Where("status IN ?", statuses).
			Updates(map[string]any{
				"status":     string(domain.JobCancelled),
				"updated_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		outbox := outboxModel{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      string(event.Payload),
			CreatedAt:    event.OccurredAt,
		}
		if err := tx.Create(&outbox).Error; err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// AppendLog concatenates one entry onto the jsonb log array store-side, so
// concurrent appends from executor and core interleave instead of overwriting.
func (r *jobRepository) AppendLog(ctx context.Context, jobID uuid.UUID, entry domain.JobLogEntry) error {
	raw, err := json.Marshal([]domain.JobLogEntry{entry})
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Model(&jobModel{}).
		Where("job_id = ?", jobID).
		Updates(map[string]any{
			"logs":       gorm.Expr("logs || ?::jsonb", string(raw)),
			"updated_at": entry.At,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepository) AddScreenshot(ctx context.Context, jobID uuid.UUID, ref string) error {
	raw, err := json.Marshal([]string{ref})
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Model(&jobModel{}).
		Where("job_id = ?", jobID).
		Update("screenshots", gorm.Expr("screenshots || ?::jsonb", string(raw)))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepository) ListProcessingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]domain.Job, error) {
	var rows []jobModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.JobProcessing)).
		Where("started_at < ?", cutoff).
		Order("started_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Job, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainJob(row))
	}
	return result, nil
}
