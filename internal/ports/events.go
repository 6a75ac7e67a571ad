package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the core. Consumers subscribe by type; payloads are
// JSON documents keyed by the entity id.
const (
	EventJobBatchCreated = "job.batch.created"
	EventJobCompleted    = "job.completed"
	EventJobFailed       = "job.failed"
	EventJobCancelled    = "job.cancelled"
	EventAccountBanned   = "account.banned"
	EventProxyDemoted    = "proxy.demoted"
)

// OutboxEvent is the write-side event payload prior to storage.
// It is adapter-neutral to keep application code independent of broker specifics.
type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

// OutboxRecord represents durable outbox state, including retry/error metadata.
type OutboxRecord struct {
	OutboxID       uuid.UUID
	EventType      string
	PartitionKey   string
	Payload        []byte
	RetryCount     int
	LastError      *string
	CreatedAt      time.Time
	PublishedAt    *time.Time
	LastErrorAt    *time.Time
	ClaimToken     *string
	ClaimUntil     *time.Time
	DeadLetteredAt *time.Time
}

// OutboxRepository controls publish-retry workflow for lifecycle events.
// Transactional writers insert rows directly inside their own transactions;
// Enqueue covers standalone events with no co-committed state change.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
	MarkDeadLettered(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
}

// EventPublisher delivers a claimed outbox record to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
