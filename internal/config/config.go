package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Engine drivers.
const (
	DriverSolr  = "solr"
	DriverBleve = "bleve"
)

// Term catalog sources.
const (
	TermSourceFile  = "file"
	TermSourceRedis = "redis"
)

// Config holds the recdex configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Engine  EngineConfig  `yaml:"engine"`
	Terms   TermsConfig   `yaml:"terms"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Auth    AuthConfig    `yaml:"auth"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"` // empty = CORS disabled
}

// EngineConfig selects and configures the search engine.
type EngineConfig struct {
	Driver string      `yaml:"driver"` // solr, bleve (default: solr)
	Solr   SolrConfig  `yaml:"solr"`
	Bleve  BleveConfig `yaml:"bleve"`
}

// SolrConfig holds Solr core settings.
type SolrConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// BleveConfig holds embedded index settings.
type BleveConfig struct {
	Path string `yaml:"path"` // empty = in-memory
}

// TermsConfig selects the term catalog source.
type TermsConfig struct {
	Source      string           `yaml:"source"` // file, redis (default: file)
	File        string           `yaml:"file"`
	Watch       bool             `yaml:"watch"`         // reload file on change
	CacheSize   int              `yaml:"cache_size"`    // redis lookups LRU size; <0 disables
	CacheTTLSec int              `yaml:"cache_ttl_sec"` // how long a cached definition is served
	Redis       TermsRedisConfig `yaml:"redis"`
}

// TermsRedisConfig holds Redis catalog connection settings.
type TermsRedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// KafkaConfig holds index event consumer settings.
type KafkaConfig struct {
	Enabled         bool     `yaml:"enabled"`
	Brokers         []string `yaml:"brokers"`
	Topic           string   `yaml:"topic"`
	GroupID         string   `yaml:"group_id"`
	BatchSize       int      `yaml:"batch_size"` // must not exceed batch.max_size
	FlushIntervalMs int      `yaml:"flush_interval_ms"`
	RetryBackoffMs  int      `yaml:"retry_backoff_ms"`
}

// BatchConfig holds bulk indexing limits.
type BatchConfig struct {
	MaxSize int `yaml:"max_size"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse expands env variables, decodes, defaults and validates a config.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Engine.Driver == "" {
		c.Engine.Driver = DriverSolr
	}
	if c.Engine.Solr.TimeoutSec <= 0 {
		c.Engine.Solr.TimeoutSec = 30
	}
	if c.Terms.Source == "" {
		c.Terms.Source = TermSourceFile
	}
	if c.Terms.CacheSize == 0 {
		c.Terms.CacheSize = 1024
	}
	if c.Terms.CacheTTLSec <= 0 {
		c.Terms.CacheTTLSec = 60
	}
	if c.Terms.Redis.KeyPrefix == "" {
		c.Terms.Redis.KeyPrefix = "recdex:"
	}
	if c.Terms.Redis.ReadinessTimeout <= 0 {
		c.Terms.Redis.ReadinessTimeout = 10
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "recdex"
	}
	if c.Kafka.BatchSize <= 0 {
		c.Kafka.BatchSize = 100
	}
	if c.Kafka.FlushIntervalMs <= 0 {
		c.Kafka.FlushIntervalMs = 1000
	}
	if c.Kafka.RetryBackoffMs <= 0 {
		c.Kafka.RetryBackoffMs = 1000
	}
	if c.Batch.MaxSize <= 0 {
		c.Batch.MaxSize = 500
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Engine.Driver {
	case DriverSolr:
		u, err := url.Parse(c.Engine.Solr.BaseURL)
		if c.Engine.Solr.BaseURL == "" || err != nil || u.Host == "" {
			return fmt.Errorf("engine.solr.base_url must be an absolute URL, got %q", c.Engine.Solr.BaseURL)
		}
	case DriverBleve:
	default:
		return fmt.Errorf("engine.driver must be %q or %q, got %q", DriverSolr, DriverBleve, c.Engine.Driver)
	}

	switch c.Terms.Source {
	case TermSourceFile:
		if c.Terms.File == "" {
			return fmt.Errorf("terms.file is required for source %q", TermSourceFile)
		}
	case TermSourceRedis:
		if len(c.Terms.Redis.Addrs) == 0 {
			return fmt.Errorf("terms.redis.addrs is required for source %q", TermSourceRedis)
		}
	default:
		return fmt.Errorf("terms.source must be %q or %q, got %q", TermSourceFile, TermSourceRedis, c.Terms.Source)
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers is required when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when kafka is enabled")
		}
		if c.Kafka.BatchSize > c.Batch.MaxSize {
			return fmt.Errorf("kafka.batch_size (%d) must not exceed batch.max_size (%d)",
				c.Kafka.BatchSize, c.Batch.MaxSize)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
