package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/forestclient/internal/http/backend"
	"github.com/GriffinCanCode/forestclient/internal/logging"
)

// Config holds all client configuration.
type Config struct {
	Client  ClientConfig  `toml:"client" yaml:"client" json:"client"`
	Breaker BreakerConfig `toml:"breaker" yaml:"breaker" json:"breaker"`
	Logging LogConfig     `toml:"logging" yaml:"logging" json:"logging"`
}

// ClientConfig holds transport settings shared by every backend.
type ClientConfig struct {
	Backend         string   `envconfig:"FOREST_BACKEND" toml:"backend" yaml:"backend" json:"backend"`
	Timeout         Duration `envconfig:"FOREST_TIMEOUT" toml:"timeout" yaml:"timeout" json:"timeout"`
	MaxRetries      int      `envconfig:"FOREST_MAX_RETRIES" toml:"max_retries" yaml:"max_retries" json:"max_retries"`
	RetryWaitMin    Duration `envconfig:"FOREST_RETRY_WAIT_MIN" toml:"retry_wait_min" yaml:"retry_wait_min" json:"retry_wait_min"`
	RetryWaitMax    Duration `envconfig:"FOREST_RETRY_WAIT_MAX" toml:"retry_wait_max" yaml:"retry_wait_max" json:"retry_wait_max"`
	RateLimitRPS    float64  `envconfig:"FOREST_RATE_LIMIT_RPS" toml:"rate_limit_rps" yaml:"rate_limit_rps" json:"rate_limit_rps"`
	UserAgent       string   `envconfig:"FOREST_USER_AGENT" toml:"user_agent" yaml:"user_agent" json:"user_agent"`
	StreamThreshold int64    `envconfig:"FOREST_STREAM_THRESHOLD" toml:"stream_threshold" yaml:"stream_threshold" json:"stream_threshold"`
}

// BreakerConfig holds circuit breaker thresholds.
type BreakerConfig struct {
	Enabled             bool     `envconfig:"FOREST_BREAKER_ENABLED" toml:"enabled" yaml:"enabled" json:"enabled"`
	MaxRequests         uint32   `envconfig:"FOREST_BREAKER_MAX_REQUESTS" toml:"max_requests" yaml:"max_requests" json:"max_requests"`
	Interval            Duration `envconfig:"FOREST_BREAKER_INTERVAL" toml:"interval" yaml:"interval" json:"interval"`
	Timeout             Duration `envconfig:"FOREST_BREAKER_TIMEOUT" toml:"timeout" yaml:"timeout" json:"timeout"`
	ConsecutiveFailures uint32   `envconfig:"FOREST_BREAKER_CONSECUTIVE_FAILURES" toml:"consecutive_failures" yaml:"consecutive_failures" json:"consecutive_failures"`
	MinRequests         uint32   `envconfig:"FOREST_BREAKER_MIN_REQUESTS" toml:"min_requests" yaml:"min_requests" json:"min_requests"`
	FailureRatio        float64  `envconfig:"FOREST_BREAKER_FAILURE_RATIO" toml:"failure_ratio" yaml:"failure_ratio" json:"failure_ratio"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"FOREST_LOG_LEVEL" toml:"level" yaml:"level" json:"level"`
	Development bool   `envconfig:"FOREST_LOG_DEV" toml:"development" yaml:"development" json:"development"`
}

// Duration reads "30s" style values from files and the environment.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Load reads configuration from environment variables over Default().
func Load() (*Config, error) {
	return apply(Default())
}

// LoadFile reads a .toml, .yaml/.yml or .json file over Default();
// environment variables then override the file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".json":
		err = sonic.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return apply(cfg)
}

func apply(cfg *Config) (*Config, error) {
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	transport := backend.DefaultConfig()
	return &Config{
		Client: ClientConfig{
			Backend:         backend.NetHTTP,
			Timeout:         Duration{transport.Timeout},
			MaxRetries:      transport.MaxRetries,
			RetryWaitMin:    Duration{transport.RetryWaitMin},
			RetryWaitMax:    Duration{transport.RetryWaitMax},
			UserAgent:       transport.UserAgent,
			StreamThreshold: transport.StreamThreshold,
		},
		Breaker: BreakerConfig{
			Enabled:             true,
			MaxRequests:         5,
			Interval:            Duration{60 * time.Second},
			Timeout:             Duration{30 * time.Second},
			ConsecutiveFailures: 10,
			MinRequests:         20,
			FailureRatio:        0.7,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Transport converts the client section into backend settings.
func (c ClientConfig) Transport() backend.Config {
	return backend.Config{
		Timeout:         c.Timeout.Duration,
		MaxRetries:      c.MaxRetries,
		RetryWaitMin:    c.RetryWaitMin.Duration,
		RetryWaitMax:    c.RetryWaitMax.Duration,
		UserAgent:       c.UserAgent,
		StreamThreshold: c.StreamThreshold,
	}
}

// Logger converts the logging section into logger settings.
func (c LogConfig) Logger() logging.Config {
	if c.Development {
		cfg := logging.DevelopmentConfig()
		if c.Level != "" {
			cfg.Level = c.Level
		}
		return cfg
	}
	cfg := logging.DefaultConfig()
	if c.Level != "" {
		cfg.Level = c.Level
	}
	return cfg
}
