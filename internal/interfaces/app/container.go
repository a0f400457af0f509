// Package app assembles repositories, infrastructure adapters and use cases
// for the command line entry points.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/cache"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/config"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/database"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/mq"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/pubsub"
	"github.com/guildkeeper/guildkeeper/internal/shared/biztime"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// Container owns every long-lived dependency of one process.
type Container struct {
	Config *config.Config
	Logger logger.Interface
	DB     *gorm.DB
	Redis  *redis.Client

	EventBus pubsub.TicketEventBus
	History  ticket.MessageHistory
	Sink     mq.Sink

	Repos    *Repositories
	UseCases *UseCases
}

// Bootstrap loads configuration, initializes logging and the business
// timezone, and opens the database. Redis is connected only when enabled.
func Bootstrap(ctx context.Context, configPath string) (*Container, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	// Initialize business timezone for date boundary calculations
	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database, log); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	c := &Container{
		Config:   cfg,
		Logger:   log,
		DB:       database.Get(),
		EventBus: pubsub.NoopTicketEventBus{},
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			c.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

		c.Redis = client
		c.EventBus = pubsub.NewRedisTicketEventBus(client, logger.WithComponent("pubsub.ticket"))
		c.History = cache.NewRedisMessageHistory(
			client,
			cfg.Tickets.MessageLogLimit,
			time.Duration(cfg.Tickets.MessageLogTTLHours)*time.Hour,
			logger.WithComponent("cache.messagehistory"),
		)
	} else {
		log.Infow("redis disabled; lifecycle events are dropped and deletes rely on saved transcripts")
	}

	sink, err := mq.NewSink(cfg.Analytics.Mirror, c.Redis, logger.WithComponent("mq.analytics"))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create analytics mirror: %w", err)
	}
	c.Sink = sink

	c.Repos = newRepositories(c.DB, log)
	c.UseCases = newUseCases(c.Repos, c, log)
	return c, nil
}

// PingDB checks the database connection.
func (c *Container) PingDB(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// PingRedis checks the Redis connection. It is nil when Redis is disabled.
func (c *Container) PingRedis() func(ctx context.Context) error {
	if c.Redis == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return c.Redis.Ping(ctx).Err()
	}
}

// Close releases everything Bootstrap opened.
func (c *Container) Close() {
	if c.Sink != nil {
		if err := c.Sink.Close(); err != nil {
			c.Logger.Warnw("failed to close analytics mirror", "error", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warnw("failed to close redis client", "error", err)
		}
	}
	if err := database.Close(); err != nil {
		c.Logger.Warnw("failed to close database", "error", err)
	}
}
