package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ms-reservation/internal/api"
	"ms-reservation/internal/booking"
	bookingredis "ms-reservation/internal/booking/redis"
	"ms-reservation/internal/config"
	"ms-reservation/internal/database/migrations"
	"ms-reservation/internal/kafka"
	"ms-reservation/internal/logger"
	"ms-reservation/internal/models"
	"ms-reservation/internal/store"
	"ms-reservation/internal/tenant"
	"ms-reservation/internal/tickets"
	"ms-reservation/internal/trips"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting reservation service")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}
	cfg := config.Load()

	// The tenant catalog is the one piece of state the whole service
	// cannot run without.
	registry, err := tenant.LoadRegistry(cfg.Registry.CatalogFile)
	if err != nil {
		log.Fatal("REGISTRY", fmt.Sprintf("loading tenant catalog: %v", err))
	}
	log.Info("REGISTRY", fmt.Sprintf("%d tenants loaded from %s", registry.Len(), cfg.Registry.CatalogFile))

	open := tenant.OpenPostgres(cfg.Database)
	if cfg.Database.AutoMigrate {
		open = withMigrations(open, log)
	}
	pool := tenant.NewPool(registry, open, log)
	executor := tenant.NewExecutor(registry, pool, log, cfg.Fanout)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("REDIS", fmt.Sprintf("redis connection error: %v", err))
	}
	defer redisClient.Close()
	seatLocks := bookingredis.NewSeatLock(redisClient, cfg.Booking.SeatLockTTL)

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		topics := []string{
			cfg.Kafka.Topics.TicketCreated,
			cfg.Kafka.Topics.TicketConfirmed,
			cfg.Kafka.Topics.TicketCanceled,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("topic creation might have failed: %v", err))
		}
	} else {
		log.Warn("KAFKA", "kafka disabled, ticket events will not be streamed")
	}

	tripService := trips.NewService(pool, log)
	aggregator := tickets.NewAggregator(executor, log)
	var events booking.EventPublisher
	if producer != nil {
		events = producer
	}
	bookingService := booking.NewService(
		pool,
		seatLocks,
		events,
		cfg.Kafka.Topics,
		booking.NewQRGenerator(os.Getenv("QR_SECRET_KEY")),
		log,
	)

	handler := &api.Handler{
		Trips:    tripService,
		Tickets:  aggregator,
		Bookings: bookingService,
		Logger:   log,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("APP", fmt.Sprintf("listening on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("APP", fmt.Sprintf("server error: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("APP", "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("APP", fmt.Sprintf("shutdown: %v", err))
	}
	pool.Reset()
	log.Info("APP", "stopped")
}

// withMigrations brings a freshly opened tenant schema up to date
// before the handle enters the pool.
func withMigrations(open tenant.Opener, log *logger.Logger) tenant.Opener {
	return func(ctx context.Context, t models.Tenant) (*store.Store, error) {
		h, err := open(ctx, t)
		if err != nil {
			return nil, err
		}
		runner := migrations.NewRunner(h.Bun, migrations.DefaultOptions())
		if err := runner.Up(); err != nil {
			h.Close()
			return nil, fmt.Errorf("migrating tenant %s: %w", t.Key, err)
		}
		log.LogTenant(t.Key, "schema migrated")
		return h, nil
	}
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.LogAPI(r.Method, r.URL.Path, fmt.Sprintf("%d", ww.Status()), time.Since(start).String())
		})
	}
}
