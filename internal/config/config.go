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

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownStorageDriver        = errors.New("unknown storage driver")
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`              // current application environment (local, dev, production etc)
	TelegramAPIToken string    `mapstructure:"-"`                // Telegram API token loaded from environment, bot disabled when empty
	DefaultTimezone  string    `mapstructure:"default_timezone"` // zone for owners without saved settings
	Storage          Storage   `mapstructure:"storage"`
	DB               DB        `mapstructure:"database"`
	HTTP             HTTP      `mapstructure:"http"`
	Telegram         Telegram  `mapstructure:"telegram"`
	Reminders        Reminders `mapstructure:"reminders"`
}

// Storage selects the repository backend.
type Storage struct {
	Driver string `mapstructure:"driver"` // memory or postgres
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// HTTP configures the JSON API.
type HTTP struct {
	Enabled         bool          `mapstructure:"enabled"`
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

type Telegram struct {
	Debug bool `mapstructure:"debug"`
}

// Reminders configures the digest cron job.
type Reminders struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads an optional .env file, then configuration files and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("default_timezone", "UTC")
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("http.enabled", true)
	v.SetDefault("http.address", ":8080")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.cron", "0 * * * *")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	switch cfg.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DB.URL == "" {
			return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorageDriver, cfg.Storage.Driver)
	}

	if cfg.TelegramAPIToken == "" && !cfg.HTTP.Enabled {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN is required when the HTTP API is disabled", ErrMissingEnvironmentVariables)
	}

	return &cfg, nil
}
