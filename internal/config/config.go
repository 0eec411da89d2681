package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
)

// ServerPort is the fixed port of the hello-world server. It has no
// environment override.
const ServerPort = 5000

// Config holds all configuration for rxplay
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// ServerURL is what the api demos call
	ServerURL string `env:"RXPLAY_SERVER_URL" envDefault:"http://localhost:5000/"`

	// Metrics server; 0 disables it
	MetricsPort int `env:"RXPLAY_METRICS_PORT" envDefault:"0"`

	// Redis configuration; an empty address keeps runs in memory
	Redis RedisConfig

	// Demo runs
	Runs RunConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// RunConfig holds demo run settings
type RunConfig struct {
	TTL     time.Duration `env:"RUN_TTL" envDefault:"24h"`
	Timeout time.Duration `env:"DEMO_TIMEOUT" envDefault:"30s"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout   time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"10s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", c.MetricsPort)
	}
	if c.MetricsPort == ServerPort {
		return fmt.Errorf("metrics port %d collides with the server port", c.MetricsPort)
	}

	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server URL: %q", c.ServerURL)
	}

	if c.Runs.Timeout <= 0 {
		return fmt.Errorf("demo timeout must be positive")
	}
	if c.Runs.TTL <= 0 {
		return fmt.Errorf("run TTL must be positive")
	}
	if c.Timeouts.HTTPClientTimeout <= 0 || c.Timeouts.ShutdownTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}

	if !ValidLogLevel(c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// ValidLogLevel reports whether level is one of debug, info, warn or error
func ValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// UseRedis reports whether runs should be stored in Redis
func (c *Config) UseRedis() bool {
	return c.Redis.Addr != ""
}

// GetServerAddr returns the hello-world server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort)
}

// GetMetricsAddr returns the metrics server address, empty when disabled
func (c *Config) GetMetricsAddr() string {
	if c.MetricsPort == 0 {
		return ""
	}
	return fmt.Sprintf(":%d", c.MetricsPort)
}
