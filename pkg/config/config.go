// Package config loads the service configuration from YAML and environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	RateLimit  RateLimitConfig  `yaml:"ratelimit"`
	MarketData MarketDataConfig `yaml:"market_data"`
	Breaker    BreakerConfig    `yaml:"breaker"`
	Store      StoreConfig      `yaml:"store"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Engine     EngineConfig     `yaml:"engine"`
}

type AppConfig struct {
	Name        string `yaml:"name" default:"assemblief"`
	Environment string `yaml:"environment" default:"development"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"json"`
	Output string `yaml:"output"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" default:"true"`
	RPS     float64 `yaml:"rps" default:"5"`
	Burst   int     `yaml:"burst" default:"20"`
}

type MarketDataConfig struct {
	BinanceURL      string        `yaml:"binance_url" default:"https://api.binance.com"`
	YahooURL        string        `yaml:"yahoo_url" default:"https://query1.finance.yahoo.com"`
	RequestTimeout  time.Duration `yaml:"request_timeout" default:"20s"`
	PacingRPS       float64       `yaml:"pacing_rps" default:"8"`
	PacingBurst     int           `yaml:"pacing_burst" default:"4"`
	DefaultLimit    int           `yaml:"default_limit" default:"300"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" default:"15s"`
	Workers         int           `yaml:"workers" default:"4"`
	CrossAssets     []string      `yaml:"cross_assets"`
	CrossTimeframes []string      `yaml:"cross_timeframes"`
}

type BreakerConfig struct {
	ConsecutiveFailures uint32        `yaml:"consecutive_failures" default:"3"`
	MinRequests         uint32        `yaml:"min_requests" default:"20"`
	FailureRatio        float64       `yaml:"failure_ratio" default:"0.05"`
	Interval            time.Duration `yaml:"interval" default:"60s"`
	Timeout             time.Duration `yaml:"timeout" default:"60s"`
}

type StoreConfig struct {
	// Type is one of none, sqlite, clickhouse.
	Type   string        `yaml:"type" default:"sqlite"`
	Path   string        `yaml:"path" default:"data/market_cache.db"`
	MaxAge time.Duration `yaml:"max_age" default:"15m"`
}

type ClickHouseConfig struct {
	Host             string        `yaml:"host" default:"localhost"`
	Port             int           `yaml:"port" default:"9000"`
	Database         string        `yaml:"database" default:"assemblief"`
	User             string        `yaml:"user" default:"default"`
	Password         string        `yaml:"password"`
	UseHTTP          bool          `yaml:"use_http"`
	DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr" default:"localhost:6379"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix" default:"assemblief"`
	TTL      time.Duration `yaml:"ttl" default:"60s"`
	L1TTL    time.Duration `yaml:"l1_ttl" default:"10s"`
}

type KafkaConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic" default:"assemblief.evaluations"`
	RequiredAcks int           `yaml:"required_acks" default:"-1"`
	Compression  string        `yaml:"compression" default:"gzip"`
	MaxAttempts  int           `yaml:"max_attempts" default:"3"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	Async        bool          `yaml:"async"`
	BatchSize    int           `yaml:"batch_size" default:"100"`
	BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
	BatchTimeout time.Duration `yaml:"batch_timeout" default:"50ms"`
}

type EngineConfig struct {
	TransactionCost float64 `yaml:"transaction_cost" default:"0.0005"`
	Slippage        float64 `yaml:"slippage" default:"0.0008"`
	Simulations     int     `yaml:"simulations" default:"200"`
	// Seed fixes the Monte Carlo stream when set.
	Seed *uint64 `yaml:"seed"`
}

// Default returns a configuration populated from struct defaults only.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads a YAML file over the defaults and validates the result. An
// empty path yields the defaults.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("APP_NAME"); v != "" {
		c.App.Name = v
	}
	if v := os.Getenv("APP_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("APP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("APP_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("STORE_TYPE"); v != "" {
		c.Store.Type = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	switch c.Store.Type {
	case "none", "sqlite", "clickhouse":
	default:
		return fmt.Errorf("store.type must be 'none', 'sqlite' or 'clickhouse', got '%s'", c.Store.Type)
	}
	if c.Store.Type == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("store.path is required for sqlite")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.MarketData.DefaultLimit <= 0 {
		return fmt.Errorf("market_data.default_limit must be positive")
	}
	if c.Engine.TransactionCost < 0 || c.Engine.Slippage < 0 {
		return fmt.Errorf("engine costs cannot be negative")
	}
	if c.Engine.Simulations < 0 {
		return fmt.Errorf("engine.simulations cannot be negative")
	}
	return nil
}
