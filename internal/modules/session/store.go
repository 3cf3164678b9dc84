// README: Session snapshot store backed by Redis string keys holding JSON.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session snapshot not found")

const keyPrefix = "waybill:session"

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: rdb, ttl: ttl}
}

func key(kind, id string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, kind, id)
}

func (s *Store) put(ctx context.Context, kind, id string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", kind, err)
	}
	return s.redis.Set(ctx, key(kind, id), b, s.ttl).Err()
}

func (s *Store) get(ctx context.Context, kind, id string, dst any) error {
	b, err := s.redis.Get(ctx, key(kind, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s snapshot: %w", kind, err)
	}
	return nil
}
