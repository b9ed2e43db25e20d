package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/bookkeeper/pkg/app"
	"github.com/ghuser/bookkeeper/pkg/cache"
	"github.com/ghuser/bookkeeper/pkg/config"
	"github.com/ghuser/bookkeeper/pkg/database"
	"github.com/ghuser/bookkeeper/pkg/events"
	"github.com/ghuser/bookkeeper/pkg/logger"
	"github.com/ghuser/bookkeeper/pkg/telemetry"
	appsvcs "github.com/ghuser/bookkeeper/services/items/application/services"
	itemdomain "github.com/ghuser/bookkeeper/services/items/domain"
	itemEvents "github.com/ghuser/bookkeeper/services/items/domain/events"
	"github.com/ghuser/bookkeeper/services/items/infrastructure/persistence/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	//temporalClient, err := workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, log)
	//if err != nil {
	//	log.Error("failed to initialize temporal client", "error", err)
	//	os.Exit(1) //nolint:gocritic
	//}
	//defer temporalClient.Close()

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
		//TemporalClient: temporalClient,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	itemCache := cache.NewItemCache(a.Redis)
	// Read-only: the worker never mutates items, so no event bus is wired.
	repo := postgres.NewItemRepository(a.Db, nil)

	subscriptions := []struct {
		topic   string
		handler func(context.Context, *message.Message) error
	}{
		{itemEvents.TopicItemCreated, handleItemSnapshot(a, repo, itemCache)},
		{itemEvents.TopicItemEdited, handleItemSnapshot(a, repo, itemCache)},
		{itemEvents.TopicItemDeleted, handleItemDeleted(a, itemCache)},
	}

	topics := make([]string, 0, len(subscriptions))
	for _, sub := range subscriptions {
		errCh, err := a.EventBus.Subscribe(ctx, sub.topic, sub.handler)
		if err != nil {
			return err
		}
		topics = append(topics, sub.topic)

		// Drain subscriber errors in background so the channel never blocks.
		topic := sub.topic
		go func() {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}()
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleItemSnapshot handles items.created and items.edited, which carry the
// same post-write snapshot payload. Handlers must be idempotent - the
// EventBus retries up to 3× on failure.
// Loads the current row from Postgres and warms the Redis read-model cache so
// subsequent GetByID calls are served from cache.
func handleItemSnapshot(a *app.Application, repo *postgres.ItemRepository, itemCache *cache.ItemCache) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt itemEvents.ItemCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		item, err := repo.GetByID(ctx, evt.TenantID, evt.ItemID)
		if errors.Is(err, itemdomain.ErrItemNotFound) {
			// Deleted between publish and delivery; nothing to warm.
			return nil
		}
		if err != nil {
			return err
		}

		if err := itemCache.Set(ctx, appsvcs.ToCachedItem(item)); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "cache warm failed",
				"item_id", evt.ItemID, "error", err)
		} else {
			a.Logger.InfoContext(ctx, "cache warmed",
				"item_id", evt.ItemID, "tenant_id", evt.TenantID)
		}

		return nil
	}
}

// handleItemDeleted evicts deleted items from the read-model cache.
func handleItemDeleted(a *app.Application, itemCache *cache.ItemCache) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt itemEvents.ItemDeletedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if err := itemCache.Delete(ctx, evt.TenantID, evt.ItemID); err != nil {
			a.Logger.WarnContext(ctx, "cache evict failed",
				"item_id", evt.ItemID, "error", err)
			return err
		}
		a.Logger.InfoContext(ctx, "cache evicted",
			"item_id", evt.ItemID, "tenant_id", evt.TenantID)
		return nil
	}
}
