package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"rege/internal/ai"
	"rege/internal/amqp"
	"rege/internal/auth"
	"rege/internal/cache"
	"rege/internal/config"
	"rege/internal/core"
	apphttp "rege/internal/http"
	"rege/internal/log"
	"rege/internal/services"
	"rege/internal/storage"
)

const summaryCacheTTL = 5 * time.Minute

func main() {
	// .env is for local development only; missing file is fine.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration invalid", log.FieldError, err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("open database", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	summaries := cache.NewLRU[core.Summary](cfg.SummaryCacheSize, summaryCacheTTL)

	var txService *services.TransactionService
	if cfg.SyncEnabled() {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("connect to broker", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		txService = services.NewTransactionService(store, amqpClient, summaries, logger)
		logger.Info("sync pipeline enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		txService = services.NewTransactionService(store, nil, summaries, logger)
		logger.Info("sync pipeline disabled, AMQP_URL not set")
	}

	gateway := ai.NewGateway(ai.Config{
		BaseURL:    cfg.AIBaseURL,
		APIKey:     cfg.AIAPIKey,
		FlashModel: cfg.AIFlashModel,
		ProModel:   cfg.AIProModel,
	}, logger)
	assistant := services.NewAssistantService(gateway, txService,
		cache.NewLRU[string](1024, cfg.QuoteCacheTTL), logger)

	authService := auth.NewService(store, auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL), logger)

	srv := apphttp.NewServer(":"+cfg.Port, authService, txService, assistant, store, cfg.RateLimitPerMinute, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
