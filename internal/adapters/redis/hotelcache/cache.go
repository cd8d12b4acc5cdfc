package hotelcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
)

const keyPrefix = "hotel:"

// Cache is a redis implementation of hotelcache.Cache. Hotels are stored
// as JSON under "hotel:<id>" with the configured TTL.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, id domain.HotelID) (domain.Hotel, bool, error) {
	val, err := c.client.Get(ctx, redisKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Hotel{}, false, nil
		}
		return domain.Hotel{}, false, fmt.Errorf("hotel cache get: %w", err)
	}
	var h domain.Hotel
	if err := json.Unmarshal([]byte(val), &h); err != nil {
		return domain.Hotel{}, false, fmt.Errorf("hotel cache decode: %w", err)
	}
	return h, true, nil
}

func (c *Cache) Set(ctx context.Context, h domain.Hotel, ttl time.Duration) error {
	b, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("hotel cache encode: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(h.ID), b, ttl).Err(); err != nil {
		return fmt.Errorf("hotel cache set: %w", err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, id domain.HotelID) error {
	if err := c.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("hotel cache del: %w", err)
	}
	return nil
}

func redisKey(id domain.HotelID) string {
	return keyPrefix + strconv.FormatInt(int64(id), 10)
}
