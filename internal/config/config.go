package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig          `envconfig:"APP"`
	HTTP         HTTPConfig         `envconfig:"HTTP"`
	Postgres     PostgresConfig     `envconfig:"POSTGRES"`
	Redis        RedisConfig        `envconfig:"REDIS"`
	Logger       LoggerConfig       `envconfig:"LOG"`
	Directory    DirectoryConfig    `envconfig:"DIRECTORY"`
	Notification NotificationConfig `envconfig:"NOTIFY"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name    string `envconfig:"NAME" default:"school-directory"`
	Env     string `envconfig:"ENV" default:"development"`
	Host    string `envconfig:"HOST" default:"0.0.0.0"`
	Port    string `envconfig:"PORT" default:"8080"`
	Version string `envconfig:"VERSION" default:"dev"`
}

// HTTPConfig holds transport limits.
type HTTPConfig struct {
	RequestTimeoutSeconds int `envconfig:"REQUEST_TIMEOUT_SECONDS" default:"30"`
}

// PostgresConfig holds DB connection values. An empty DSN selects the in-memory store.
type PostgresConfig struct {
	DSN            string `envconfig:"DSN"`
	MaxConns       int32  `envconfig:"MAX_CONNS" default:"10"`
	MinConns       int32  `envconfig:"MIN_CONNS" default:"2"`
	RunMigrations  bool   `envconfig:"RUN_MIGRATIONS" default:"true"`
	ConnMaxIdleSec int32  `envconfig:"CONN_MAX_IDLE_SECONDS" default:"30"`
	ConnMaxLifeSec int32  `envconfig:"CONN_MAX_LIFE_SECONDS" default:"300"`
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr               string        `envconfig:"ADDR"`
	Password           string        `envconfig:"PASSWORD"`
	DB                 int           `envconfig:"DB" default:"0"`
	CodeReservationTTL time.Duration `envconfig:"CODE_RESERVATION_TTL" default:"1m"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
}

// DirectoryConfig bounds teacher listing pages.
type DirectoryConfig struct {
	DefaultPageSize int `envconfig:"DEFAULT_PAGE_SIZE" default:"10"`
	MaxPageSize     int `envconfig:"MAX_PAGE_SIZE" default:"100"`
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string `envconfig:"EMAIL_FROM" default:"noreply@example.com"`
	WebhookURL string `envconfig:"WEBHOOK_URL"`
}

// Load reads configuration from environment variables, applying defaults where possible.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Directory.DefaultPageSize <= 0 {
		return fmt.Errorf("invalid DIRECTORY_DEFAULT_PAGE_SIZE: %d", c.Directory.DefaultPageSize)
	}
	if c.Directory.MaxPageSize < c.Directory.DefaultPageSize {
		return fmt.Errorf("DIRECTORY_MAX_PAGE_SIZE (%d) below default page size (%d)",
			c.Directory.MaxPageSize, c.Directory.DefaultPageSize)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (h HTTPConfig) RequestTimeout() time.Duration {
	if h.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(h.RequestTimeoutSeconds) * time.Second
}
