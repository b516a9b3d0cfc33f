package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cabletrack/stb-billing/internal/api"
	"github.com/cabletrack/stb-billing/internal/core/service"
	"github.com/cabletrack/stb-billing/internal/infrastructure/config"
	mongodb "github.com/cabletrack/stb-billing/internal/infrastructure/db/mongo"
	redisdb "github.com/cabletrack/stb-billing/internal/infrastructure/db/redis"
	"github.com/cabletrack/stb-billing/internal/infrastructure/notify"
	"github.com/cabletrack/stb-billing/internal/infrastructure/sms"
	"github.com/cabletrack/stb-billing/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	// --- Repositories ---
	customerRepo := mongodb.NewCustomerRepository(db)
	stbRepo := mongodb.NewSTBRepository(db)
	txRepo := mongodb.NewTransactionRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	settingsRepo := mongodb.NewSettingsRepository(db)

	for name, fn := range map[string]func(context.Context) error{
		"customers":    customerRepo.EnsureIndexes,
		"stbs":         stbRepo.EnsureIndexes,
		"transactions": txRepo.EnsureIndexes,
		"users":        userRepo.EnsureIndexes,
	} {
		if err := fn(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// Startup repair: the settings collection holds exactly one document.
	if _, err := settingsRepo.EnsureSingleton(ctx); err != nil {
		log.Fatal().Err(err).Msg("settings repair failed")
	}

	// --- Notifications ---
	smsClient := sms.NewClient(cfg.SMS.Timeout, log)
	notifier := notify.NewService(settingsRepo, smsClient, cfg.SMS.Workers, log)
	notifier.Start(ctx)

	// --- Services ---
	reportCache := redisdb.NewReportCache(rdb, cfg.ReportCacheTTL)

	ledgerService := service.NewLedgerService(customerRepo, stbRepo, txRepo, notifier, log)
	customerService := service.NewCustomerService(customerRepo, stbRepo, txRepo, log)
	reportService := service.NewReportService(customerRepo, stbRepo, txRepo, reportCache, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	userService := service.NewUserService(userRepo, log)
	settingsService := service.NewSettingsService(settingsRepo, log)

	created, err := userService.SeedAdmin(ctx, cfg.Seed.AdminName, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("admin seed failed")
	}
	if created {
		log.Info().Str("email", cfg.Seed.AdminEmail).Msg("bootstrap admin account created")
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Customers: customerService,
		Ledger:    ledgerService,
		Reports:   reportService,
		Auth:      authService,
		Users:     userService,
		Settings:  settingsService,
		Mongo:     db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
