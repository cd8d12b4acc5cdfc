package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hrs-cloud/hotel-booking-api/internal/adapters/httpapi"
	membookingrepo "github.com/hrs-cloud/hotel-booking-api/internal/adapters/memory/bookingrepo"
	memhotelcache "github.com/hrs-cloud/hotel-booking-api/internal/adapters/memory/hotelcache"
	memhotelrepo "github.com/hrs-cloud/hotel-booking-api/internal/adapters/memory/hotelrepo"
	memidempotency "github.com/hrs-cloud/hotel-booking-api/internal/adapters/memory/idempotency"
	memuserrepo "github.com/hrs-cloud/hotel-booking-api/internal/adapters/memory/userrepo"
	"github.com/hrs-cloud/hotel-booking-api/internal/adapters/postgres"
	pgbookingrepo "github.com/hrs-cloud/hotel-booking-api/internal/adapters/postgres/bookingrepo"
	pghotelrepo "github.com/hrs-cloud/hotel-booking-api/internal/adapters/postgres/hotelrepo"
	pguserrepo "github.com/hrs-cloud/hotel-booking-api/internal/adapters/postgres/userrepo"
	redisclient "github.com/hrs-cloud/hotel-booking-api/internal/adapters/redis"
	redishotelcache "github.com/hrs-cloud/hotel-booking-api/internal/adapters/redis/hotelcache"
	redisidempotency "github.com/hrs-cloud/hotel-booking-api/internal/adapters/redis/idempotency"
	"github.com/hrs-cloud/hotel-booking-api/internal/app/bookings"
	"github.com/hrs-cloud/hotel-booking-api/internal/app/hotels"
	"github.com/hrs-cloud/hotel-booking-api/internal/app/users"
	platformclock "github.com/hrs-cloud/hotel-booking-api/internal/platform/clock"
	"github.com/hrs-cloud/hotel-booking-api/internal/platform/config"
	"github.com/hrs-cloud/hotel-booking-api/internal/platform/ratelimit"
	bookingrepoport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/bookingrepo"
	hotelcacheport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/hotelcache"
	hotelrepoport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/hotelrepo"
	idempotencyport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/idempotency"
	userrepoport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/userrepo"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := platformclock.NewSystemClock()

	var (
		hotelRepo   hotelrepoport.Repository
		userRepo    userrepoport.Repository
		bookingRepo bookingrepoport.Repository
	)
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			log.Error("postgres unavailable", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		hotelRepo = pghotelrepo.NewRepo(pool)
		userRepo = pguserrepo.NewRepo(pool)
		bookingRepo = pgbookingrepo.NewRepo(pool)
	default:
		memHotels := memhotelrepo.NewRepo()
		hotelRepo = memHotels
		userRepo = memuserrepo.NewRepo()
		bookingRepo = membookingrepo.NewRepo(memHotels)
	}

	var (
		idemStore  idempotencyport.Store
		hotelCache hotelcacheport.Cache
	)
	switch cfg.CacheBackend {
	case "redis":
		client, err := redisclient.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Error("redis unavailable", "err", err)
			os.Exit(1)
		}
		defer func() { _ = client.Close() }()

		idemStore = redisidempotency.NewStore(client)
		hotelCache = redishotelcache.NewCache(client)
	default:
		idemStore = memidempotency.NewStore(clk)
		hotelCache = memhotelcache.NewCache(clk)
	}

	limiter := ratelimit.New(cfg.RateLimit)
	go pruneLoop(ctx, limiter, cfg.RateLimitMaxIdle, log)

	bookingSvc := bookings.NewService(bookingRepo, hotelRepo, userRepo, clk, cfg.CapacityLockWait)
	hotelSvc := hotels.NewService(hotelRepo, hotelCache, cfg.HotelCacheTTL, log)
	userSvc := users.NewService(userRepo)

	api := httpapi.NewServer(bookingSvc, hotelSvc, userSvc, idemStore, cfg.IdempotencyTTL, limiter, clk, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("api listening", "port", cfg.Port, "storage", cfg.StorageBackend, "cache", cfg.CacheBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// pruneLoop evicts rate-limit buckets that have been idle long enough to
// be full again, keeping the per-client map from growing unbounded.
func pruneLoop(ctx context.Context, limiter *ratelimit.Limiter, maxIdle time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(maxIdle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.PruneStale(maxIdle); n > 0 {
				log.Debug("pruned rate limit buckets", "count", n)
			}
		}
	}
}
