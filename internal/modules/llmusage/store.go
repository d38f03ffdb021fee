package llmusage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store keeps monthly usage counters in redis.
type Store struct {
	rdb *redis.Client
}

// NewStore returns a Store backed by the given client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// UseToken atomically counts one call against subject in month.
// A call that would exceed quota is refunded and ErrInsufficientTokens returned,
// so the counter never drifts above quota.
func (s *Store) UseToken(ctx context.Context, subject, month string, quota int) error {
	key := counterKey(subject, month)

	var incr *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.Expire(ctx, key, counterTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("llmusage: incr %s: %w", key, err)
	}
	if incr.Val() <= int64(quota) {
		return nil
	}
	if err := s.rdb.Decr(ctx, key).Err(); err != nil {
		return fmt.Errorf("llmusage: refund %s: %w", key, err)
	}
	return ErrInsufficientTokens
}

// Used returns the number of calls counted for subject in month.
func (s *Store) Used(ctx context.Context, subject, month string) (int, error) {
	n, err := s.rdb.Get(ctx, counterKey(subject, month)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("llmusage: get: %w", err)
	}
	return n, nil
}
