package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shopify/sarama"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment    DeploymentConfig    `mapstructure:"deployment" validate:"required"`
	Server        ServerConfig        `mapstructure:"server" validate:"required"`
	Logging       LoggingConfig       `mapstructure:"logging" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Commit        CommitConfig        `mapstructure:"commit"`
	Sentry        SentryConfig        `mapstructure:"sentry"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type DatabaseConfig struct {
	Driver          types.DatabaseDriver `mapstructure:"driver" validate:"required,oneof=postgres sqlite memory"`
	Host            string               `mapstructure:"host"`
	Port            int                  `mapstructure:"port"`
	User            string               `mapstructure:"user"`
	Password        string               `mapstructure:"password"`
	DBName          string               `mapstructure:"dbname"`
	SSLMode         string               `mapstructure:"sslmode"`
	SQLitePath      string               `mapstructure:"sqlite_path"`
	MaxOpenConns    int                  `mapstructure:"max_open_conns"`
	MaxIdleConns    int                  `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration        `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool                 `mapstructure:"auto_migrate"`
}

type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// CommitConfig bounds automatic retries of conflicting business events.
// MaxRetries of zero surfaces every conflict to the caller.
type CommitConfig struct {
	MaxRetries      int           `mapstructure:"max_retries" validate:"gte=0"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

type NotificationsConfig struct {
	Enabled         bool                     `mapstructure:"enabled"`
	Driver          types.NotificationDriver `mapstructure:"driver" validate:"omitempty,oneof=memory kafka"`
	Topic           string                   `mapstructure:"topic" validate:"required_if=Enabled true"`
	Journal         bool                     `mapstructure:"journal"`
	MaxRetries      int                      `mapstructure:"max_retries" validate:"gte=0"`
	InitialInterval time.Duration            `mapstructure:"initial_interval"`
	MaxInterval     time.Duration            `mapstructure:"max_interval"`
	Kafka           KafkaConfig              `mapstructure:"kafka"`
}

// KafkaConfig is used when notifications.driver is kafka
type KafkaConfig struct {
	Brokers       []string             `mapstructure:"brokers"`
	ClientID      string               `mapstructure:"client_id"`
	ConsumerGroup string               `mapstructure:"consumer_group"`
	TLS           bool                 `mapstructure:"tls"`
	UseSASL       bool                 `mapstructure:"use_sasl"`
	SASLMechanism sarama.SASLMechanism `mapstructure:"sasl_mechanism"`
	SASLUser      string               `mapstructure:"sasl_user"`
	SASLPassword  string               `mapstructure:"sasl_password"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dealerbook")

	setDefaults(v)

	v.SetEnvPrefix("DEALERBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	def := GetDefaultConfig()
	v.SetDefault("deployment.mode", def.Deployment.Mode)
	v.SetDefault("server.address", def.Server.Address)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("database.driver", def.Database.Driver)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlite_path", "dealerbook.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.ttl", def.Cache.TTL)
	v.SetDefault("cache.cleanup_interval", def.Cache.CleanupInterval)
	v.SetDefault("commit.max_retries", def.Commit.MaxRetries)
	v.SetDefault("commit.initial_interval", def.Commit.InitialInterval)
	v.SetDefault("commit.max_interval", def.Commit.MaxInterval)
	v.SetDefault("notifications.enabled", def.Notifications.Enabled)
	v.SetDefault("notifications.driver", def.Notifications.Driver)
	v.SetDefault("notifications.topic", def.Notifications.Topic)
	v.SetDefault("notifications.journal", def.Notifications.Journal)
	v.SetDefault("notifications.max_retries", def.Notifications.MaxRetries)
	v.SetDefault("notifications.initial_interval", def.Notifications.InitialInterval)
	v.SetDefault("notifications.max_interval", def.Notifications.MaxInterval)
	v.SetDefault("notifications.kafka.client_id", def.Notifications.Kafka.ClientID)
	v.SetDefault("notifications.kafka.consumer_group", def.Notifications.Kafka.ConsumerGroup)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts, tests or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Database: DatabaseConfig{
			Driver:     types.DatabaseDriverMemory,
			SQLitePath: "dealerbook.db",
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             30 * time.Second,
			CleanupInterval: time.Minute,
		},
		Commit: CommitConfig{
			MaxRetries:      0,
			InitialInterval: 50 * time.Millisecond,
			MaxInterval:     time.Second,
		},
		Notifications: NotificationsConfig{
			Enabled:         true,
			Driver:          types.NotificationDriverMemory,
			Topic:           "dealerbook.changes",
			Journal:         true,
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Kafka: KafkaConfig{
				ClientID:      "dealerbook",
				ConsumerGroup: "dealerbook-journal",
			},
		},
	}
}

func (c DatabaseConfig) GetDSN() string {
	if c.Driver == types.DatabaseDriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
