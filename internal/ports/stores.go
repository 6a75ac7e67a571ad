package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CancellationStore holds cooperative-cancellation flags for in-flight jobs.
// Cancelling never interrupts an executor; the executor polls IsCancelled
// between automation steps and abandons the work itself. Flags carry a TTL so
// stale entries for long-finished jobs expire on their own.
type CancellationStore interface {
	MarkCancelled(ctx context.Context, jobID uuid.UUID, ttl time.Duration) error
	IsCancelled(ctx context.Context, jobID uuid.UUID) (bool, error)
}
