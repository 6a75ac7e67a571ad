package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisCancellationStore holds cooperative-cancellation flags with TTL.
// Executors poll IsCancelled between automation steps; the flag expiring after
// the TTL is fine because by then the job record itself is terminal.
type RedisCancellationStore struct {
	client *redis.Client
}

// NewRedisCancellationStore creates the cancellation flag cache adapter.
func NewRedisCancellationStore(client *redis.Client) *RedisCancellationStore {
	return &RedisCancellationStore{client: client}
}

func (s *RedisCancellationStore) MarkCancelled(ctx context.Context, jobID uuid.UUID, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return s.client.Set(ctx, "post:cancelled:"+jobID.String(), "1", ttl).Err()
}

func (s *RedisCancellationStore) IsCancelled(ctx context.Context, jobID uuid.UUID) (bool, error) {
	n, err := s.client.Exists(ctx, "post:cancelled:"+jobID.String()).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
