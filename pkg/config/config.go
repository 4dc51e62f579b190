package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cameron-headspace/graphql-inspector/pkg/compatibility"
	"github.com/cameron-headspace/graphql-inspector/pkg/observability"
)

// EnvPrefix prefixes every environment variable read by this package
const EnvPrefix = "INSPECTOR_"

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Diff defaults shared by the CLI and the API
	Diff DiffConfig `yaml:"diff"`

	// Observability configuration
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes caps a diff request body
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
	// CacheSize is the number of parsed schemas kept in memory
	CacheSize int `yaml:"cache_size"`
	// AllowedInterceptors lists the interceptor URLs a request body may name.
	// Empty means requests can only use diff.interceptor_url.
	AllowedInterceptors []string `yaml:"allowed_interceptors"`
}

// DiffConfig holds diff defaults
type DiffConfig struct {
	InterceptorURL     string        `yaml:"interceptor_url"`
	InterceptorTimeout time.Duration `yaml:"interceptor_timeout"`
	FailOnDangerous    bool          `yaml:"fail_on_dangerous"`
	Rules              []string      `yaml:"rules"`
	Concurrency        int           `yaml:"concurrency"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel string `yaml:"log_level"`

	// Metrics
	MetricsEnabled bool `yaml:"metrics_enabled"`

	// OpenTelemetry
	OTelEnabled        bool   `yaml:"otel_enabled"`
	OTelEndpoint       string `yaml:"otel_endpoint"`
	OTelServiceName    string `yaml:"otel_service_name"`
	OTelServiceVersion string `yaml:"otel_service_version"`
	OTelInsecure       bool   `yaml:"otel_insecure"` // Use insecure gRPC connection
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    10 << 20,
			CacheSize:       128,
		},
		Diff: DiffConfig{
			InterceptorTimeout: 10 * time.Second,
		},
		Observability: ObservabilityConfig{
			LogLevel:           "info",
			MetricsEnabled:     true,
			OTelEndpoint:       "localhost:4317",
			OTelServiceName:    "graphql-inspector",
			OTelServiceVersion: "dev",
			OTelInsecure:       true,
		},
	}
}

// LoadConfig builds configuration from defaults, the optional YAML file at
// path, and finally INSPECTOR_* environment variables
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides cfg with any INSPECTOR_* variables that are set
func applyEnv(cfg *Config) {
	s := &cfg.Server
	s.Addr = getEnv(EnvPrefix+"ADDR", s.Addr)
	s.ReadTimeout = getEnvDuration(EnvPrefix+"READ_TIMEOUT", s.ReadTimeout)
	s.WriteTimeout = getEnvDuration(EnvPrefix+"WRITE_TIMEOUT", s.WriteTimeout)
	s.IdleTimeout = getEnvDuration(EnvPrefix+"IDLE_TIMEOUT", s.IdleTimeout)
	s.ShutdownTimeout = getEnvDuration(EnvPrefix+"SHUTDOWN_TIMEOUT", s.ShutdownTimeout)
	s.MaxBodyBytes = getEnvInt64(EnvPrefix+"MAX_BODY_BYTES", s.MaxBodyBytes)
	s.CacheSize = getEnvInt(EnvPrefix+"CACHE_SIZE", s.CacheSize)
	s.AllowedInterceptors = getEnvList(EnvPrefix+"ALLOWED_INTERCEPTORS", s.AllowedInterceptors)

	d := &cfg.Diff
	d.InterceptorURL = getEnv(EnvPrefix+"INTERCEPTOR_URL", d.InterceptorURL)
	d.InterceptorTimeout = getEnvDuration(EnvPrefix+"INTERCEPTOR_TIMEOUT", d.InterceptorTimeout)
	d.FailOnDangerous = getEnvBool(EnvPrefix+"FAIL_ON_DANGEROUS", d.FailOnDangerous)
	d.Rules = getEnvList(EnvPrefix+"RULES", d.Rules)
	d.Concurrency = getEnvInt(EnvPrefix+"CONCURRENCY", d.Concurrency)

	o := &cfg.Observability
	o.LogLevel = getEnv(EnvPrefix+"LOG_LEVEL", o.LogLevel)
	o.MetricsEnabled = getEnvBool(EnvPrefix+"METRICS_ENABLED", o.MetricsEnabled)
	o.OTelEnabled = getEnvBool(EnvPrefix+"OTEL_ENABLED", o.OTelEnabled)
	o.OTelEndpoint = getEnv(EnvPrefix+"OTEL_ENDPOINT", o.OTelEndpoint)
	o.OTelServiceName = getEnv(EnvPrefix+"OTEL_SERVICE_NAME", o.OTelServiceName)
	o.OTelServiceVersion = getEnv(EnvPrefix+"OTEL_SERVICE_VERSION", o.OTelServiceVersion)
	o.OTelInsecure = getEnvBool(EnvPrefix+"OTEL_INSECURE", o.OTelInsecure)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}
	if c.Server.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive")
	}

	for _, allowed := range c.Server.AllowedInterceptors {
		if err := ValidateInterceptorURL(allowed); err != nil {
			return fmt.Errorf("allowed interceptors: %w", err)
		}
	}

	// Validate diff config
	if c.Diff.InterceptorURL != "" {
		if err := ValidateInterceptorURL(c.Diff.InterceptorURL); err != nil {
			return err
		}
	}
	if c.Diff.InterceptorTimeout <= 0 {
		return fmt.Errorf("interceptor timeout must be positive")
	}
	if c.Diff.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	registry := compatibility.NewRuleRegistry()
	for _, name := range c.Diff.Rules {
		if _, ok := registry.GetRule(name); !ok {
			return fmt.Errorf("unknown rule: %s", name)
		}
	}

	// Validate OpenTelemetry config
	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// ValidateInterceptorURL accepts absolute http and https URLs
func ValidateInterceptorURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid interceptor URL: %q", raw)
	}
	return nil
}

// InterceptorAllowed reports whether a request may name raw as its interceptor.
// The configured default interceptor is always allowed.
func (c *Config) InterceptorAllowed(raw string) bool {
	if raw == c.Diff.InterceptorURL {
		return true
	}
	for _, allowed := range c.Server.AllowedInterceptors {
		if raw == allowed {
			return true
		}
	}
	return false
}

// OTel converts the observability settings for observability.InitOTel
func (c *Config) OTel() observability.OTelConfig {
	return observability.OTelConfig{
		Enabled:        c.Observability.OTelEnabled,
		Endpoint:       c.Observability.OTelEndpoint,
		ServiceName:    c.Observability.OTelServiceName,
		ServiceVersion: c.Observability.OTelServiceVersion,
		Insecure:       c.Observability.OTelInsecure,
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns a comma separated environment variable or a default
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
