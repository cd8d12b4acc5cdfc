package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hrs-cloud/hotel-booking-api/internal/platform/ratelimit"
)

// Config is the deployment-provided configuration of the API service.
type Config struct {
	Port string

	// StorageBackend selects the persistence adapters: "memory" or "postgres".
	StorageBackend string
	// CacheBackend selects idempotency/hotel-cache adapters: "memory" or "redis".
	CacheBackend string

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	RateLimit ratelimit.Config
	// RateLimitMaxIdle is how long an untouched bucket survives before the
	// prune ticker drops it.
	RateLimitMaxIdle time.Duration

	IdempotencyTTL time.Duration
	HotelCacheTTL  time.Duration

	// CapacityLockWait bounds how long a booking write may wait for the
	// hotel capacity lock before surfacing a retryable error.
	CapacityLockWait time.Duration
}

// LoadFromEnv reads configuration from the environment, applying the
// documented defaults. Values that fail to parse are errors, not silently
// defaulted.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		StorageBackend: getenv("STORAGE_BACKEND", "memory"),
		CacheBackend:   getenv("CACHE_BACKEND", "memory"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RateLimit: ratelimit.Config{
			Capacity:       100,
			RefillRate:     10,
			RefillInterval: time.Second,
		},
		RateLimitMaxIdle: time.Hour,
		IdempotencyTTL:   10 * time.Minute,
		HotelCacheTTL:    time.Hour,
		CapacityLockWait: 5 * time.Second,
	}

	var err error
	if cfg.RateLimit.Capacity, err = intEnv("RATE_LIMIT_CAPACITY", cfg.RateLimit.Capacity); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.RefillRate, err = intEnv("RATE_LIMIT_REFILL_RATE", cfg.RateLimit.RefillRate); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.RefillInterval, err = durationEnv("RATE_LIMIT_REFILL_INTERVAL", cfg.RateLimit.RefillInterval); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitMaxIdle, err = durationEnv("RATE_LIMIT_MAX_IDLE", cfg.RateLimitMaxIdle); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.HotelCacheTTL, err = durationEnv("HOTEL_CACHE_TTL", cfg.HotelCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.CapacityLockWait, err = durationEnv("CAPACITY_LOCK_WAIT", cfg.CapacityLockWait); err != nil {
		return Config{}, err
	}

	if cfg.RateLimit.Capacity <= 0 || cfg.RateLimit.RefillRate <= 0 || cfg.RateLimit.RefillInterval <= 0 {
		return Config{}, fmt.Errorf("rate limit capacity, refill rate and refill interval must all be positive")
	}
	if cfg.StorageBackend == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func intEnv(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", k, err)
	}
	return n, nil
}

func durationEnv(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. 30s): %w", k, err)
	}
	return d, nil
}
