package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-interiors/meridian/internal/app"
	"github.com/meridian-interiors/meridian/internal/auth"
	"github.com/meridian-interiors/meridian/internal/expenses"
	"github.com/meridian-interiors/meridian/internal/leads"
	"github.com/meridian-interiors/meridian/internal/ledger"
	"github.com/meridian-interiors/meridian/internal/platform/cache"
	"github.com/meridian-interiors/meridian/internal/platform/db"
	"github.com/meridian-interiors/meridian/internal/revenue"
	revenuehttp "github.com/meridian-interiors/meridian/internal/revenue/http"
	"github.com/meridian-interiors/meridian/internal/shared"
	"github.com/meridian-interiors/meridian/internal/vendors"
	"github.com/meridian-interiors/meridian/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionSecret, cfg.SessionTTL)
	reportCache := cache.New(redisClient, cfg.ReportCacheTTL)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	revenueRepo := revenue.NewRepository(dbpool)
	revenueService := revenue.NewService(revenueRepo, reportCache)
	revenueHandler := revenuehttp.NewHandler(logger, revenueService)

	leadRepo := leads.NewRepository(dbpool)
	leadService := leads.NewService(leadRepo, revenueService, logger)
	leadHandler := leads.NewHandler(logger, leadService)

	ledgerRepo := ledger.NewRepository(dbpool)
	ledgerService := ledger.NewService(ledgerRepo, reportCache, logger)
	ledgerHandler := ledger.NewHandler(logger, ledgerService, leadService)

	vendorRepo := vendors.NewRepository(dbpool)
	vendorService := vendors.NewService(vendorRepo, reportCache, logger)
	vendorHandler := vendors.NewHandler(logger, vendorService)

	expenseRepo := expenses.NewRepository(dbpool)
	expenseService := expenses.NewService(expenseRepo, reportCache, logger)
	expenseHandler := expenses.NewHandler(logger, expenseService)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	importHandler := jobs.NewHandler(jobClient, inspector, redisClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		AuthHandler:    authHandler,
		LeadHandler:    leadHandler,
		LedgerHandler:  ledgerHandler,
		VendorHandler:  vendorHandler,
		ExpenseHandler: expenseHandler,
		RevenueHandler: revenueHandler,
		ImportHandler:  importHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
