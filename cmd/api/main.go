package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopstack/accounts-api/internal/api"
	"github.com/shopstack/accounts-api/internal/core/ports"
	"github.com/shopstack/accounts-api/internal/core/service"
	"github.com/shopstack/accounts-api/internal/infrastructure/config"
	mongodb "github.com/shopstack/accounts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/shopstack/accounts-api/internal/infrastructure/db/redis"
	"github.com/shopstack/accounts-api/internal/infrastructure/notify"
	"github.com/shopstack/accounts-api/internal/infrastructure/queue"
	"github.com/shopstack/accounts-api/internal/infrastructure/security"
	"github.com/shopstack/accounts-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logg := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	accountRepo := mongodb.NewAccountRepository(db)
	tokenRepo := mongodb.NewTokenRepository(db)
	if err := accountRepo.EnsureIndexes(ctx); err != nil {
		logg.Fatal().Err(err).Msg("account indexes failed")
	}
	if err := tokenRepo.EnsureIndexes(ctx); err != nil {
		logg.Fatal().Err(err).Msg("token indexes failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Outbound notifications ---
	var notifier ports.Notifier
	if cfg.SMTP.Host != "" {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		logg.Warn().Msg("SMTP_HOST not set, notifications go to the log")
		notifier = notify.NewLogNotifier(logg)
	}

	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, notifier, logg)
	dispatcher.Start(ctx)

	// --- Core services ---
	hasher := security.NewBcryptHasher(0)
	sessions := security.NewJWTSessionIssuer(cfg.JWTSecret, cfg.SessionTTL)
	authService := service.NewAuthService(accountRepo, tokenRepo, hasher, sessions, dispatcher, service.Config{
		LinkBaseURL:    cfg.LinkBaseURL,
		VerifyTokenTTL: cfg.VerifyTokenTTL,
		ResetTokenTTL:  cfg.ResetTokenTTL,
	}, logg)

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		Sessions:    sessions,
		Limiter:     redisdb.NewRateLimiter(rdb),
		Mongo:       db,
		Redis:       rdb,
		Log:         logg,
	})

	go func() {
		logg.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil {
			logg.Info().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	logg.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("server shutdown failed")
		os.Exit(1)
	}
	logg.Info().Msg("shutdown complete")
}
