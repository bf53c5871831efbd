package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"storefront/cmd"
	api "storefront/internal/adapters/in/http"
	"storefront/internal/adapters/in/http/openapi"
	"storefront/internal/adapters/in/http/resource"
	"storefront/internal/adapters/out/kafka"
	"storefront/internal/adapters/out/memory"
	"storefront/internal/adapters/out/payments"
	"storefront/internal/adapters/out/postgres"
	"storefront/internal/adapters/out/redislock"
	"storefront/internal/core/domain/model/webhook"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/jobs"
	"storefront/internal/webhooks"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, configs, logger)
	stop()
	if err != nil {
		log.Fatalf("Error running storefront: %v", err)
	}
}

// storage is the store the app runs on: a factory for writes that
// publishes committed events and a unit of work for reads.
type storage struct {
	newFactory func(publisher ports.EventPublisher) ports.UnitOfWorkFactory
	reads      ports.UnitOfWork
	close      func()
}

func run(ctx context.Context, configs cmd.Config, logger *slog.Logger) error {
	store, err := openStorage(configs, logger)
	if err != nil {
		return err
	}
	defer store.close()

	locker, closeLocker, err := newLocker(ctx, configs, logger)
	if err != nil {
		return err
	}
	defer closeLocker()

	subscribers := store.reads.WebhookSubscriberRepository()
	dispatcher, err := webhooks.NewDispatcher(
		webhooks.Config{
			Workers:        configs.WebhookWorkers,
			QueueSize:      configs.WebhookQueueSize,
			MaxAttempts:    configs.WebhookMaxAttempts,
			AttemptTimeout: configs.WebhookAttemptTimeout,
		},
		webhooks.SubscriberSourceFunc(func(ctx context.Context) ([]*webhook.Subscriber, error) {
			return subscribers.ListActive(ctx)
		}),
		resource.EncodeEvent,
		webhooks.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create webhook dispatcher: %w", err)
	}
	defer dispatcher.Close()

	publisher := ports.FanOut{dispatcher}
	if configs.KafkaHost != "" {
		writer := kafka.NewWriter(strings.Split(configs.KafkaHost, ","), configs.KafkaOrderEventsTopic, logger)
		kafkaPublisher, err := kafka.NewPublisher(writer, resource.EncodeEvent, logger)
		if err != nil {
			return fmt.Errorf("create kafka publisher: %w", err)
		}
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Error("failed to close kafka publisher", "error", err)
			}
		}()
		publisher = append(publisher, kafkaPublisher)
	}

	promotions := services.NewStaticSources()
	if configs.PromotionSeedPath != "" {
		if err := seedPromotions(promotions, configs.PromotionSeedPath, logger); err != nil {
			return err
		}
	}

	app := cmd.NewCompositionRoot(
		store.newFactory(publisher),
		store.reads,
		locker,
		payments.NewManualGateway(logger),
		promotions,
	)

	if configs.VariantSeedPath != "" {
		if err := seedVariants(ctx, app, configs.VariantSeedPath, logger); err != nil {
			return err
		}
	}

	jobManager := jobs.NewJobManager(dispatcher, configs.WebhookRetrySchedule, logger)
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	return startWebServer(ctx, app, configs, logger)
}

func openStorage(configs cmd.Config, logger *slog.Logger) (storage, error) {
	if configs.StoreDriver == cmd.StoreDriverMemory {
		logger.Warn("Using the in-memory store, data is lost on restart")
		s := memory.NewStore()
		return storage{
			newFactory: func(publisher ports.EventPublisher) ports.UnitOfWorkFactory {
				return memory.NewUnitOfWorkFactory(s, publisher)
			},
			reads: memory.NewUnitOfWorkFactory(s, nil).Create(),
			close: func() {},
		}, nil
	}

	db, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		return storage{}, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := postgres.Migrate(db); err != nil {
		return storage{}, fmt.Errorf("migrate postgres: %w", err)
	}
	return storage{
		newFactory: func(publisher ports.EventPublisher) ports.UnitOfWorkFactory {
			return postgres.NewGormUnitOfWorkFactory(db, publisher)
		},
		reads: postgres.NewGormUnitOfWorkFactory(db, nil).Create(),
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}, nil
}

func newLocker(ctx context.Context, configs cmd.Config, logger *slog.Logger) (ports.OrderLocker, func(), error) {
	if configs.RedisAddr == "" {
		return memory.NewLocker(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: configs.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	locker, err := redislock.NewLocker(client, logger)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return locker, func() { _ = client.Close() }, nil
}

func seedVariants(ctx context.Context, app *cmd.CompositionRoot, path string, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open variant seed: %w", err)
	}
	defer f.Close()

	n, err := cmd.SeedVariants(ctx, app.CreateCreateVariantCommandHandler(), f)
	if err != nil {
		return fmt.Errorf("seed variants from %s: %w", path, err)
	}
	logger.Info("Variants seeded", "count", n, "path", path)
	return nil
}

func seedPromotions(sources *services.StaticSources, path string, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open promotion seed: %w", err)
	}
	defer f.Close()

	n, err := cmd.SeedPromotions(sources, f)
	if err != nil {
		return fmt.Errorf("seed promotions from %s: %w", path, err)
	}
	logger.Info("Promotions seeded", "count", n, "path", path)
	return nil
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) error {
	verifier, err := api.NewJWTVerifier(configs.JWTSecret)
	if err != nil {
		return err
	}
	doc, err := openapi.Load(ctx)
	if err != nil {
		return err
	}

	server := api.NewServer(app.HTTPCommands(), app.HTTPQueries(), configs.DefaultCurrency, logger)
	e, err := api.NewRouter(server, verifier, doc, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server started", "port", configs.HTTPPort)
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Shutting down HTTP server")
	return e.Shutdown(shutdownCtx)
}
