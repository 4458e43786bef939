package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/unan-salud/salud-al-paso/internal/alerts"
	"github.com/unan-salud/salud-al-paso/internal/backend"
	"github.com/unan-salud/salud-al-paso/internal/config"
	"github.com/unan-salud/salud-al-paso/internal/db"
	"github.com/unan-salud/salud-al-paso/internal/monitoring"
	redisclient "github.com/unan-salud/salud-al-paso/internal/redis"
)

const version = "1.0.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	monitoring.Init()
	if cfg.SentryDSN != "" {
		flush, err := monitoring.InitSentry(cfg.SentryDSN, cfg.Env, version)
		if err != nil {
			log.Printf("sentry init error: %v", err)
		} else {
			defer flush()
		}
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo backend.Repository = backend.NewMemoryRepository()
	if cfg.PostgresDSN != "" {
		var pgRepo *backend.PgRepository
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err := db.Open(pgCtx, cfg.PostgresDSN, db.PoolOptions{}, func(ctx context.Context, pool *pgxpool.Pool) error {
			pgRepo = backend.NewPgRepository(pool)
			return pgRepo.EnsureSchema(ctx)
		})
		cancelPg()
		if err != nil {
			log.Fatalf("postgres connection error: %v", err)
		}
		defer pgPool.Close()
		repo = pgRepo
		log.Println("connected to Postgres")
	} else {
		log.Println("POSTGRES_DSN not set, using in-memory store")
	}

	locker := redisclient.NewLocalLocker()
	notifiers := alerts.Fanout{alerts.LogNotifier{}}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = redisclient.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connection error: %v", err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Printf("error closing redis: %v", err)
			}
		}()
		log.Println("connected to Redis")

		locker = redisclient.NewRedisLocker(rdb, cfg.LockTTL)
		notifiers = append(notifiers, alerts.NewRedisNotifier(rdb, cfg.AlertChannel))
	}

	if cfg.KafkaBroker != "" {
		kn, err := alerts.NewKafkaNotifier(cfg.KafkaBroker, cfg.AlertChannel)
		if err != nil {
			log.Printf("kafka unavailable, emergency alerts stay local: %v", err)
		} else {
			defer kn.Close()
			notifiers = append(notifiers, kn)
			log.Printf("publishing emergency alerts to kafka topic=%s", cfg.AlertChannel)
		}
	}

	svc := backend.NewService(repo, locker, notifiers)
	router := backend.NewRouter(backend.RouterConfig{
		Service: svc,
		Redis:   rdb,
		Env:     cfg.Env,
		Version: version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()
	log.Println("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
