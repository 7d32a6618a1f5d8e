package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/medibook/medibook/internal/account"
	"github.com/medibook/medibook/internal/api"
	"github.com/medibook/medibook/internal/auth"
	"github.com/medibook/medibook/internal/booking"
	"github.com/medibook/medibook/internal/config"
	"github.com/medibook/medibook/internal/db"
	"github.com/medibook/medibook/internal/doctor"
	"github.com/medibook/medibook/internal/notification"
	"github.com/medibook/medibook/internal/observability/metrics"
	redisclient "github.com/medibook/medibook/internal/redis"
	"github.com/medibook/medibook/internal/upload"
	"github.com/medibook/medibook/pkg/logging"
)

const version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	uploads, err := upload.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload store error: %v", err)
	}

	accountRepo := account.NewPgRepository(pgPool)
	doctorRepo := doctor.NewPgRepository(pgPool)
	bookingRepo := booking.NewPgRepository(pgPool)
	notificationRepo := notification.NewPgRepository(pgPool)

	bookingMetrics := metrics.NewBookingMetrics(nil)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)

	notifications := notification.NewService(notificationRepo, logger)
	doctors := doctor.NewService(doctorRepo, accountRepo, notifications, logger)
	accounts := account.NewService(accountRepo, hasher, tokens, doctors, notifications, logger)
	bookings := booking.NewService(bookingRepo, doctorRepo, locker, notifications, bookingMetrics, logger)

	app := api.New(api.Deps{
		Accounts:      accounts,
		Doctors:       doctors,
		Bookings:      bookings,
		Notifications: notifications,
		AccountRepo:   accountRepo,
		Tokens:        tokens,
		Uploads:       uploads,
		Metrics:       bookingMetrics,
		Env:           cfg.Env,
		Logger:        logger,
	})

	handler := api.NewRouter(api.RouterConfig{
		API:     app,
		PgPool:  pgPool,
		Redis:   rdb,
		Env:     cfg.Env,
		Version: version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		log.Println("shutting down api-server")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
