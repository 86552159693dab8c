package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ristorante/internal/config"
	"ristorante/internal/infrastructure/lock"
	"ristorante/internal/infrastructure/logger"
	"ristorante/internal/infrastructure/rabbitmq"
	"ristorante/internal/order"
	"ristorante/internal/product"
	"ristorante/internal/seed"
	"ristorante/internal/server"
	"ristorante/internal/storage"
	"ristorante/internal/table"
)

type ticketPublisher interface {
	Publish(ctx context.Context, queueName string, message []byte) error
	Ping() error
	Close() error
}

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	repos, err := storage.Open(startCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("opening storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	if cfg.Seed.OnStart {
		if err := seed.NewInitializer(repos.Tables, repos.Catalog, zapLogger).Run(startCtx); err != nil {
			zapLogger.Fatal("seeding storage", zap.Error(err))
		}
	}

	var publisher ticketPublisher = rabbitmq.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL)
		if err != nil {
			zapLogger.Fatal("connecting to rabbitmq", zap.Error(err))
		}
		publisher = p
		zapLogger.Info("rabbitmq connected")
	} else {
		zapLogger.Info("RABBITMQ_URL not set, kitchen tickets are disabled")
	}

	locker := lock.NewKeyed()

	router := server.NewRouter(server.Handlers{
		Tables:   table.NewModule(repos, locker, zapLogger),
		Products: product.NewModule(repos, zapLogger),
		Orders:   order.NewModule(repos, publisher, locker, zapLogger),
		Store:    repos,
		Broker:   publisher,
	}, cfg.Server.CORSAllowedOrigins, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		zapLogger.Error("closing rabbitmq", zap.Error(err))
	}
	if err := repos.Close(ctx); err != nil {
		zapLogger.Error("closing storage", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
