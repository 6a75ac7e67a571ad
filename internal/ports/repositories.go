package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/reelpilot/autopost/internal/domain"
)

// CreateAccountParams captures the inputs for a new posting account.
// The password arrives already sealed; repositories never see plaintext secrets.
type CreateAccountParams struct {
	OwnerID        uuid.UUID
	Username       string
	SealedPassword string
	Email          string
	PhoneNumber    string
	ProxyID        *uuid.UUID
	DailyPostLimit int
}

// UpdateAccountParams carries the mutable account fields. Nil means unchanged.
type UpdateAccountParams struct {
	Email          *string
	PhoneNumber    *string
	ProxyID        *uuid.UUID
	ClearProxy     bool
	DailyPostLimit *int
	SealedPassword *string
	IsWarmedUp     *bool
}

// AccountRepository defines persistence for posting accounts. Counter
// mutations (posts_today, failed_attempts) are expressed as atomic store-side
// updates, never read-then-write, so concurrent job completions cannot lose
// increments.
type AccountRepository interface {
	Create(ctx context.Context, params CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, accountID uuid.UUID) (domain.Account, error)
	GetOwned(ctx context.Context, ownerID, accountID uuid.UUID) (domain.Account, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, status *domain.AccountStatus) ([]domain.Account, error)
	ListOwnedByIDs(ctx context.Context, ownerID uuid.UUID, accountIDs []uuid.UUID) ([]domain.Account, error)
	Update(ctx context.Context, accountID uuid.UUID, params UpdateAccountParams, updatedAt time.Time) (domain.Account, error)
	Delete(ctx context.Context, accountID uuid.UUID) error

	// MarkLoggedIn records a successful platform login: ACTIVE status,
	// last_login_at, failed_attempts reset.
	MarkLoggedIn(ctx context.Context, accountID uuid.UUID, at time.Time) error
	// BeginWarmup flips ACTIVE -> WARMING_UP guarded on the current status so a
	// concurrent ban or suspension cannot be overwritten.
	BeginWarmup(ctx context.Context, accountID uuid.UUID, at time.Time) (bool, error)
	// CompleteWarmup records executor-reported warmup completion.
	CompleteWarmup(ctx context.Context, accountID uuid.UUID, at time.Time) error
	// MarkBanned applies the terminal ban transition with an outbox event in the
	// same transaction.
	MarkBanned(ctx context.Context, accountID uuid.UUID, reason string, at time.Time, event OutboxEvent) error
	// CountByProxy reports how many accounts reference a proxy; proxies with
	// referents cannot be deleted.
	CountByProxy(ctx context.Context, proxyID uuid.UUID) (int64, error)
	// ResetDailyCounters zeroes posts_today across all accounts. Invoked by the
	// external day-boundary trigger, not by this core.
	ResetDailyCounters(ctx context.Context) error
}

// CreateProxyParams captures the inputs for a new pool proxy.
type CreateProxyParams struct {
	Host           string
	Port           int
	Username       string
	SealedPassword string
	Protocol       domain.ProxyProtocol
	Country        string
}

// UpdateProxyParams carries the mutable proxy fields. Nil means unchanged.
type UpdateProxyParams struct {
	Host           *string
	Port           *int
	Username       *string
	SealedPassword *string
	Protocol       *domain.ProxyProtocol
	Country        *string
	IsActive       *bool
}

// ProxyRepository defines persistence for the proxy pool. ApplyProbeResult is
// the single write path for health counters and must be atomic per proxy:
// concurrent probes may race on ordering (last probe wins) but can never lose
// a fail_count update.
type ProxyRepository interface {
	Create(ctx context.Context, params CreateProxyParams) (domain.Proxy, error)
	Get(ctx context.Context, proxyID uuid.UUID) (domain.Proxy, error)
	List(ctx context.Context) ([]domain.Proxy, error)
	Update(ctx context.Context, proxyID uuid.UUID, params UpdateProxyParams, updatedAt time.Time) (domain.Proxy, error)
	Delete(ctx context.Context, proxyID uuid.UUID) error
	ApplyProbeResult(ctx context.Context, proxyID uuid.UUID, healthy bool, at time.Time) (domain.Proxy, error)
	// ListDueForCheck returns proxies whose last check is older than the cutoff
	// (or never checked), bounded for one monitor sweep.
	ListDueForCheck(ctx context.Context, cutoff time.Time, limit int) ([]domain.Proxy, error)
}

// CreateVideoParams captures the metadata handed over by the media-storage
// collaborator; the core never inspects file bytes.
type CreateVideoParams struct {
	OwnerID      uuid.UUID
	Title        string
	Description  string
	Tags         []string
	OriginalName string
	StoragePath  string
	MimeType     string
	SizeBytes    int64
	Duration     float64
}

// UpdateVideoParams carries the mutable video metadata. Nil means unchanged.
type UpdateVideoParams struct {
	Title       *string
	Description *string
	Tags        []string
}

// VideoRepository defines persistence for video metadata records.
type VideoRepository interface {
	Create(ctx context.Context, params CreateVideoParams) (domain.Video, error)
	GetOwned(ctx context.Context, ownerID, videoID uuid.UUID) (domain.Video, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, status *domain.VideoStatus) ([]domain.Video, error)
	UpdateMetadata(ctx context.Context, videoID uuid.UUID, params UpdateVideoParams, updatedAt time.Time) (domain.Video, error)
	// SetStatus applies from -> to guarded on the current status.
	SetStatus(ctx context.Context, videoID uuid.UUID, from, to domain.VideoStatus, updatedAt time.Time) (bool, error)
}

// NewJobParams captures one job row of an admission batch.
type NewJobParams struct {
	AccountID    uuid.UUID
	VideoID      uuid.UUID
	Priority     int
	ScheduledFor *time.Time
	MaxAttempts  int
}

// JobFilter narrows job listings.
type JobFilter struct {
	Status    *domain.JobStatus
	AccountID *uuid.UUID
}

// JobRepository defines persistence for jobs. Every status mutation is a
// guarded single-row update keyed on the expected source status; callers learn
// about lost races through the applied flag, never through partial writes.
type JobRepository interface {
	// CreateBatchTx inserts all rows and the admission outbox event in one
	// transaction: either every job of the batch exists or none does.
	CreateBatchTx(ctx context.Context, batch []NewJobParams, event OutboxEvent) ([]domain.Job, error)
	Get(ctx context.Context, jobID uuid.UUID) (domain.Job, error)
	GetOwned(ctx context.Context, ownerID, jobID uuid.UUID) (domain.Job, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter JobFilter) ([]domain.Job, error)

	MarkQueued(ctx context.Context, jobID uuid.UUID, at time.Time) (bool, error)
	MarkProcessing(ctx context.Context, jobID uuid.UUID, at time.Time) (bool, error)
	// CompleteTx marks the job COMPLETED, bumps the account's posts_today
	// atomically, and enqueues the completion event — one transaction.
	CompleteTx(ctx context.Context, jobID uuid.UUID, at time.Time, event OutboxEvent) (bool, error)
	MarkFailed(ctx context.Context, jobID uuid.UUID, at time.Time, errMsg, errStack string, event OutboxEvent) (bool, error)
	// MarkRetried applies FAILED -> RETRY with the attempt-count guard inside
	// the UPDATE itself, so two concurrent retries cannot both pass.
	MarkRetried(ctx context.Context, jobID uuid.UUID, at time.Time) (bool, error)
	MarkCancelled(ctx context.Context, jobID uuid.UUID, at time.Time, event OutboxEvent) (bool, error)

	AppendLog(ctx context.Context, jobID uuid.UUID, entry domain.JobLogEntry) error
	AddScreenshot(ctx context.Context, jobID uuid.UUID, ref string) error
	// ListProcessingOlderThan supports the external stuck-job sweeper.
	ListProcessingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]domain.Job, error)
}
