package postgres

import (
	"time"

	"github.com/google/uuid"
)

type accountModel struct {
	AccountID      uuid.UUID  `gorm:"column:account_id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID        uuid.UUID  `gorm:"column:owner_id"`
	Username       string     `gorm:"column:username"`
	SealedPassword string     `gorm:"column:sealed_password"`
	Email          *string    `gorm:"column:email"`
	PhoneNumber    *string    `gorm:"column:phone_number"`
	Status         string     `gorm:"column:status"`
	IsBanned       bool       `gorm:"column:is_banned"`
	BanReason      *string    `gorm:"column:ban_reason"`
	BannedAt       *time.Time `gorm:"column:banned_at"`
	FailedAttempts int        `gorm:"column:failed_attempts"`
	DailyPostLimit int        `gorm:"column:daily_post_limit"`
	PostsToday     int        `gorm:"column:posts_today"`
	IsWarmedUp     bool       `gorm:"column:is_warmed_up"`
	ProxyID        *uuid.UUID `gorm:"column:proxy_id"`
	LastLoginAt    *time.Time `gorm:"column:last_login_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (accountModel) TableName() string { return "accounts" }

type proxyModel struct {
	ProxyID        uuid.UUID  `gorm:"column:proxy_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Host           string     `gorm:"column:host"`
	Port           int        `gorm:"column:port"`
	Username       *string    `gorm:"column:username"`
	SealedPassword *string    `gorm:"column:sealed_password"`
	Protocol       string     `gorm:"column:protocol"`
	Country        *string    `gorm:"column:country"`
	IsActive       bool       `gorm:"column:is_active"`
	FailCount      int        `gorm:"column:fail_count"`
	LastChecked    *time.Time `gorm:"column:last_checked"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (proxyModel) TableName() string { return "proxies" }

type videoModel struct {
	VideoID      uuid.UUID `gorm:"column:video_id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID      uuid.UUID `gorm:"column:owner_id"`
	Title        string    `gorm:"column:title"`
	Description  *string   `gorm:"column:description"`
	Tags         string    `gorm:"column:tags;type:jsonb"`
	OriginalName *string   `gorm:"column:original_name"`
	StoragePath  string    `gorm:"column:storage_path"`
	MimeType     *string   `gorm:"column:mime_type"`
	SizeBytes    int64     `gorm:"column:size_bytes"`
	Duration     float64   `gorm:"column:duration"`
	Status       string    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (videoModel) TableName() string { return "videos" }

type jobModel struct {
	JobID        uuid.UUID  `gorm:"column:job_id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID    uuid.UUID  `gorm:"column:account_id"`
	VideoID      uuid.UUID  `gorm:"column:video_id"`
	Priority     int        `gorm:"column:priority"`
	ScheduledFor *time.Time `gorm:"column:scheduled_for"`
	Status       string     `gorm:"column:status"`
	AttemptCount int        `gorm:"column:attempt_count"`
	MaxAttempts  int        `gorm:"column:max_attempts"`
	Error        *string    `gorm:"column:error"`
	ErrorStack   *string    `gorm:"column:error_stack"`
	Logs         string     `gorm:"column:logs;type:jsonb"`
	Screenshots  string     `gorm:"column:screenshots;type:jsonb"`
	StartedAt    *time.Time `gorm:"column:started_at"`
	CompletedAt  *time.Time `gorm:"column:completed_at"`
	FailedAt     *time.Time `gorm:"column:failed_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (jobModel) TableName() string { return "post_jobs" }

type outboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        string     `gorm:"column:payload;type:jsonb"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (outboxModel) TableName() string { return "post_outbox" }
