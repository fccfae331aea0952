package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClaimStore serializes booking attempts per target: SETNX takes a short
// claim for the duration of the create operation, the TTL guards against a
// crashed holder.
type ClaimStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewClaimStore(rdb *redis.Client, ttl time.Duration) *ClaimStore {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &ClaimStore{rdb: rdb, ttl: ttl}
}

func claimKey(targetID string) string { return fmt.Sprintf("grt:resv:claim:%s", targetID) }

func (s *ClaimStore) Acquire(ctx context.Context, targetID string) (bool, error) {
	return s.rdb.SetNX(ctx, claimKey(targetID), "1", s.ttl).Result()
}

func (s *ClaimStore) Release(ctx context.Context, targetID string) {
	if err := s.rdb.Del(ctx, claimKey(targetID)).Err(); err != nil {
		// TTL 会兜底，过期自动释放
		log.Printf("release claim %s: %v", targetID, err)
	}
}
