package bootstrap

import (
	"context"
	"fmt"

	"notefiber-sync/internal/activity"
	"notefiber-sync/internal/config"
	"notefiber-sync/internal/repository/contract"
	"notefiber-sync/internal/identity"
	"notefiber-sync/internal/mapper"
	"notefiber-sync/internal/pkg/logger"
	"notefiber-sync/internal/repository/implementation"
	"notefiber-sync/internal/repository/memory"
	"notefiber-sync/internal/service"
	"notefiber-sync/internal/store"
	"notefiber-sync/internal/tracer"
	"notefiber-sync/pkg/database"

	pktNats "notefiber-sync/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	Config *config.Config
	Logger logger.ILogger

	Auth  service.IAuthService
	Notes service.INoteService
	Store *store.Store

	closers []func() error
}

func NewContainer(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	if sysLogger == nil {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	}
	c := &Container{Config: cfg, Logger: sysLogger}

	// 1. Tracing
	shutdown := tracer.InitTracer(cfg.Tracing, sysLogger)
	c.closers = append(c.closers, func() error { return shutdown(context.Background()) })

	// 2. Activity events
	var sink activity.EventSink
	if cfg.Events.NatsEnabled {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Publisher, activity events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			sink = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}
	publisher := activity.NewBusPublisher(sink, sysLogger)

	// 3. Document store
	repo, err := c.noteRepository(cfg.Documents)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	// 4. Identity
	provider, err := c.identityProvider(cfg)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	keeper := c.sessionKeeper(ctx, cfg.Session)

	// 5. Session bus
	bus := service.NewSessionBus(watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, bus.Close)

	// 6. Services and state container
	c.Auth = service.NewAuthService(provider, keeper, bus, publisher, sysLogger)
	c.Notes = service.NewNoteService(repo, mapper.NewNoteMapper(), publisher, sysLogger)
	c.Store = store.New(store.Deps{
		Auth:   c.Auth,
		Notes:  c.Notes,
		Logger: sysLogger,
	})

	return c, nil
}

func (c *Container) noteRepository(cfg config.DocumentConfig) (contract.NoteRepository, error) {
	switch cfg.Store {
	case "memory":
		c.Logger.Info("BOOTSTRAP", "Using in-memory document store", nil)
		return memory.NewNoteRepository(), nil
	case "postgres":
		db, err := database.NewGormDBFromDSN(cfg.Connection)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to document store: %w", err)
		}
		c.closers = append(c.closers, func() error { return database.Close(db) })
		c.Logger.Info("BOOTSTRAP", "Using postgres document store", nil)
		return implementation.NewNoteRepository(db), nil
	}
	return nil, fmt.Errorf("unknown document store %q", cfg.Store)
}

func (c *Container) identityProvider(cfg *config.Config) (identity.Provider, error) {
	switch cfg.Identity.Provider {
	case "memory":
		return identity.NewMemoryProvider(cfg.Identity.JWTSecret, identity.WithTokenTTL(cfg.Identity.TokenTTL)), nil
	case "http":
		return identity.NewHTTPProvider(cfg.Identity.BaseURL, cfg.App.HTTPTimeout), nil
	}
	return nil, fmt.Errorf("unknown identity provider %q", cfg.Identity.Provider)
}

func (c *Container) sessionKeeper(ctx context.Context, cfg config.SessionConfig) identity.SessionKeeper {
	if cfg.Store != "redis" {
		return identity.NewFileKeeper(cfg.FilePath)
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		c.Logger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		c.Logger.Warn("BOOTSTRAP", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
	}
	c.closers = append(c.closers, rdb.Close)
	return identity.NewRedisKeeper(rdb, cfg.DeviceID)
}

// Close releases every connection in reverse order of acquisition.
func (c *Container) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}
