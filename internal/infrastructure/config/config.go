package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "github.com/guildkeeper/guildkeeper/internal/shared/config"
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	Tickets   sharedConfig.TicketConfig    `mapstructure:"tickets"`
	Analytics sharedConfig.AnalyticsConfig `mapstructure:"analytics"`
	Metrics   sharedConfig.MetricsConfig   `mapstructure:"metrics"`
}

const envPrefix = "GUILDKEEPER"

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configuration from path, or from config.yaml in the usual
// search paths when path is empty. A missing file is not an error; defaults
// and GUILDKEEPER_* environment variables are enough to run on SQLite.
func Load(path string) (*Config, error) {
	// A .env next to the binary is optional.
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q (want sqlite or mysql)", c.Database.Driver)
	}
	switch c.Analytics.Mirror.Type {
	case "", "noop", "redis", "kafka":
	default:
		return fmt.Errorf("unsupported analytics mirror %q (want noop, redis or kafka)", c.Analytics.Mirror.Type)
	}
	if c.Analytics.CleanupHour < 0 || c.Analytics.CleanupHour > 23 {
		return fmt.Errorf("analytics.cleanup_hour must be between 0 and 23, got %d", c.Analytics.CleanupHour)
	}
	return nil
}

// setDefaults sets default configuration values. Every key needs one so
// AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.timezone", "UTC")

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "guildkeeper.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "guildkeeper")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.max_size_mb", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age_days", 30)
	v.SetDefault("logger.compress", true)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Ticket defaults
	v.SetDefault("tickets.message_log_limit", constants.DefaultMessageLogLimit)
	v.SetDefault("tickets.message_log_ttl_hours", constants.DefaultMessageLogTTLHours)
	v.SetDefault("tickets.bulk_delete_concurrency", constants.DefaultBulkDeleteConcurrency)

	// Analytics defaults
	v.SetDefault("analytics.retention_days", constants.DefaultRetentionDays)
	v.SetDefault("analytics.health_interval_seconds", 300)
	v.SetDefault("analytics.cleanup_hour", 3)
	v.SetDefault("analytics.mirror.type", "noop")
	v.SetDefault("analytics.mirror.redis_stream", constants.AnalyticsEventStream)
	v.SetDefault("analytics.mirror.kafka_brokers", []string{})
	v.SetDefault("analytics.mirror.kafka_topic", "guildkeeper.analytics.events")

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")
}
