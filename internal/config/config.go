package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the runtime configuration of the API process.
type Config struct {
	Port       string
	LogLevel   string
	LogFormat  string
	Database   Database
	RabbitMQ   RabbitMQ
	TimeFeed   TimeFeed
	Pagination Pagination
}

// Database holds the connection settings of the relational store.
type Database struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RabbitMQ holds broker settings. An empty URL disables event publishing.
type RabbitMQ struct {
	URL      string
	Exchange string
	Queue    string
}

// Enabled reports whether a broker URL was configured.
func (r RabbitMQ) Enabled() bool {
	return r.URL != ""
}

// TimeFeed configures the server-sent current time stream.
type TimeFeed struct {
	Interval time.Duration
	Layout   string
}

// Pagination configures list endpoints.
type Pagination struct {
	Legacy bool
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:      strings.TrimPrefix(v.GetString("PORT"), ":"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
		Database: Database{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:             v.GetString("DATABASE_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		RabbitMQ: RabbitMQ{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
			Queue:    v.GetString("RABBITMQ_QUEUE"),
		},
		TimeFeed: TimeFeed{
			Interval: v.GetDuration("TIME_FEED_INTERVAL"),
			Layout:   v.GetString("TIME_FORMAT"),
		},
		Pagination: Pagination{
			Legacy: v.GetBool("PAGINATION_LEGACY"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "4000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=storefront port=5432 sslmode=disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "storefront.events")
	v.SetDefault("RABBITMQ_QUEUE", "storefront.events.log")
	v.SetDefault("TIME_FEED_INTERVAL", time.Second)
	v.SetDefault("TIME_FORMAT", "3:04:05 PM")
	v.SetDefault("PAGINATION_LEGACY", false)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres or sqlite)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("DATABASE_DSN is required")
	}
	if c.TimeFeed.Interval <= 0 {
		return fmt.Errorf("TIME_FEED_INTERVAL must be positive, got %s", c.TimeFeed.Interval)
	}
	return nil
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + c.Port
}
