package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session backends accepted by SESSION_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	Env       string `env:"JOBPORTAL_ENV, default=development"`
	LogLevel  string `env:"LOG_LEVEL,     default=info"`
	LogPretty bool   `env:"LOG_PRETTY,    default=false"`

	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Shell   ShellConfig
	Tracing TracingConfig
}

type APIConfig struct {
	BaseURL       string        `env:"API_BASE_URL,       default=http://localhost:5000"`
	Timeout       time.Duration `env:"API_TIMEOUT,        default=10s"`
	UploadTimeout time.Duration `env:"API_UPLOAD_TIMEOUT, default=60s"`
}

type SessionConfig struct {
	Backend string `env:"SESSION_BACKEND, default=sqlite"`
	// Path of the sqlite file. Empty resolves to ~/.jobportal/session.db.
	Path          string `env:"SESSION_PATH"`
	EncryptionKey string `env:"SESSION_ENCRYPTION_KEY"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Password string `env:"REDIS_PASSWORD"`
	Prefix   string `env:"REDIS_PREFIX,   default=jobportal:session"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=jobportal"`
}

type ShellConfig struct {
	Addr string `env:"SHELL_ADDR, default=127.0.0.1:8787"`
}

type TracingConfig struct {
	Enabled    bool    `env:"TRACING_ENABLED,             default=false"`
	Endpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT, default=localhost:4318"`
	SampleRate float64 `env:"TRACING_SAMPLE_RATE,         default=1"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would only fail later at dial time.
func (c *Config) Validate() error {
	var errs []error

	switch c.Session.Backend {
	case BackendSQLite, BackendRedis, BackendMongo, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("config: unknown SESSION_BACKEND %q", c.Session.Backend))
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		errs = append(errs, errors.New("config: API_BASE_URL is required"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("config: API_TIMEOUT must be positive"))
	}
	if c.API.UploadTimeout <= 0 {
		errs = append(errs, errors.New("config: API_UPLOAD_TIMEOUT must be positive"))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, errors.New("config: TRACING_SAMPLE_RATE must be within [0,1]"))
	}

	return errors.Join(errs...)
}

// SessionPath returns the sqlite path, defaulting under the user's home.
func (c *Config) SessionPath() (string, error) {
	if c.Session.Path != "" {
		return c.Session.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".jobportal", "session.db"), nil
}
