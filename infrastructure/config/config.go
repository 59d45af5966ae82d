package config

import (
	"fmt"
	"os"
	"strconv"

	domainconfig "github.com/imprakashraghu/way-engine/domain/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration
type Config struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	// History and editing
	MaxHistory       int     `yaml:"max_history"`
	DuplicateOffsetX float64 `yaml:"duplicate_offset_x"`
	DuplicateOffsetY float64 `yaml:"duplicate_offset_y"`

	// Feature flags
	EnableMetrics    bool   `yaml:"enable_metrics"`
	EnableTracing    bool   `yaml:"enable_tracing"`
	MetricsNamespace string `yaml:"metrics_namespace"`

	// StorePath is the BadgerDB directory used by the graph store commands
	StorePath string `yaml:"store_path"`

	// ConfigFile is the YAML overlay this config was read from, if any
	ConfigFile string `yaml:"-"`
}

// LoadConfig builds the configuration in three layers: domain defaults for
// the environment, then the YAML file named by WAY_CONFIG_FILE, then
// individual environment variables. A .env file in the working directory,
// if present, fills in variables that are not already set.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return LoadConfigFile(getEnv("WAY_CONFIG_FILE", ""))
}

// LoadConfigFile is LoadConfig with an explicit overlay path; an empty path
// skips the file layer.
func LoadConfigFile(path string) (*Config, error) {
	_ = godotenv.Load()
	env := getEnv("WAY_ENVIRONMENT", "development")
	cfg := defaults(env)

	if path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}
	cfg.overlayEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults(env string) *Config {
	domain := domainconfig.LoadDomainConfig(env)
	return &Config{
		Environment:      env,
		LogLevel:         "info",
		MaxHistory:       domain.MaxHistory,
		DuplicateOffsetX: domain.DuplicateOffsetX,
		DuplicateOffsetY: domain.DuplicateOffsetY,
		MetricsNamespace: "way",
		StorePath:        ".way/store",
	}
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) overlayEnv() {
	c.Environment = getEnv("WAY_ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("WAY_LOG_LEVEL", c.LogLevel)
	c.MaxHistory = getEnvInt("WAY_MAX_HISTORY", c.MaxHistory)
	c.DuplicateOffsetX = getEnvFloat("WAY_DUPLICATE_OFFSET_X", c.DuplicateOffsetX)
	c.DuplicateOffsetY = getEnvFloat("WAY_DUPLICATE_OFFSET_Y", c.DuplicateOffsetY)
	c.EnableMetrics = getEnvBool("WAY_ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("WAY_ENABLE_TRACING", c.EnableTracing)
	c.MetricsNamespace = getEnv("WAY_METRICS_NAMESPACE", c.MetricsNamespace)
	c.StorePath = getEnv("WAY_STORE_PATH", c.StorePath)
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	switch c.Environment {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return c.Domain().Validate()
}

// Domain returns the editing rules derived from this configuration
func (c *Config) Domain() *domainconfig.DomainConfig {
	domain := domainconfig.LoadDomainConfig(c.Environment)
	domain.MaxHistory = c.MaxHistory
	domain.DuplicateOffsetX = c.DuplicateOffsetX
	domain.DuplicateOffsetY = c.DuplicateOffsetY
	return domain
}

// Level returns the zap level for LogLevel, info when unparsable
func (c *Config) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
