package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/idempotency"
)

const keyPrefix = "idem:"

// record is the wire shape stored in redis. Body is base64-encoded by
// encoding/json's []byte handling.
type record struct {
	Status      int       `json:"status"`
	ContentType string    `json:"contentType"`
	Body        []byte    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store is a redis implementation of idempotency.Store. Expiry is
// delegated to redis via SET ... EX.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key idempotency.Key) (idempotency.Record, bool, error) {
	val, err := s.client.Get(ctx, redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return idempotency.Record{}, false, nil
		}
		return idempotency.Record{}, false, fmt.Errorf("idempotency get: %w", err)
	}

	var rec record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return idempotency.Record{}, false, fmt.Errorf("idempotency decode: %w", err)
	}
	return idempotency.Record{
		StatusCode:  rec.Status,
		ContentType: rec.ContentType,
		Body:        rec.Body,
		CreatedAt:   rec.CreatedAt,
	}, true, nil
}

func (s *Store) Put(ctx context.Context, key idempotency.Key, rec idempotency.Record, ttl time.Duration) error {
	b, err := json.Marshal(record{
		Status:      rec.StatusCode,
		ContentType: rec.ContentType,
		Body:        rec.Body,
		CreatedAt:   rec.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("idempotency encode: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(key), b, ttl).Err(); err != nil {
		return fmt.Errorf("idempotency set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key idempotency.Key) error {
	if err := s.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("idempotency del: %w", err)
	}
	return nil
}

func redisKey(key idempotency.Key) string {
	return keyPrefix + key.Method + ":" + key.Route + ":" + key.Value
}
