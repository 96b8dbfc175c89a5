package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tradebridge/legalai/internal/ai"
	"github.com/tradebridge/legalai/internal/assistant"
	"github.com/tradebridge/legalai/internal/config"
	"github.com/tradebridge/legalai/internal/db"
	"github.com/tradebridge/legalai/internal/httpapi"
	"github.com/tradebridge/legalai/internal/httpapi/handlers"
	"github.com/tradebridge/legalai/internal/legalchat"
	"github.com/tradebridge/legalai/internal/store/rabbitmq"
	"github.com/tradebridge/legalai/internal/store/redisstore"
)

var configPath = flag.String("config", "", "Path to config file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	rabbit, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue, logger)
	if err != nil {
		logger.Fatal("rabbit connect failed", zap.Error(err))
	}
	defer rabbit.Close()

	provider, err := ai.NewDefaultRegistry().Build(cfg.AIProvider, ai.Config{
		BaseURL: cfg.DeepSeekBaseURL,
		APIKey:  cfg.DeepSeekAPIKey,
		Model:   cfg.DeepSeekModel,
	}, logger)
	if err != nil {
		logger.Fatal("provider setup failed", zap.String("provider", cfg.AIProvider), zap.Error(err))
	}

	settings := assistant.NewStore(gdb, rds, logger)
	chatSvc := legalchat.NewService(legalchat.NewRepo(gdb), provider, settings, cfg.ChatHistoryWindow, logger)

	h := handlers.NewHandler(gdb, cfg, rds, rabbit, chatSvc, settings, logger)
	router := httpapi.NewRouter(h, cfg, logger)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}
