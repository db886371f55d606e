package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Session store kinds
const (
	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
)

// Config structure represents the portal configuration
type Config struct {
	Server struct {
		Port      string `yaml:"port" env:"SERVER_PORT" validate:"required"`
		Mode      string `yaml:"mode" env:"SERVER_MODE" validate:"oneof=development production test"`
		StaticDir string `yaml:"static_dir" env:"SERVER_STATIC_DIR"`
	} `yaml:"server"`

	API struct {
		BaseURL string `yaml:"base_url" env:"API_BASE_URL" validate:"required,url"`
		Timeout string `yaml:"timeout" env:"API_TIMEOUT"`
	} `yaml:"api"`

	Session struct {
		Store      string `yaml:"store" env:"SESSION_STORE" validate:"oneof=memory redis postgres"`
		CookieName string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" validate:"required"`
		TTL        string `yaml:"ttl" env:"SESSION_TTL"`
		Secure     bool   `yaml:"secure" env:"SESSION_SECURE"`
	} `yaml:"session"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Cache struct {
		TTL string `yaml:"ttl" env:"CACHE_TTL"`
	} `yaml:"cache"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT" validate:"oneof=json text"`
	} `yaml:"logging"`

	// EnvOverrides names the environment variables that replaced file or
	// default values
	EnvOverrides []string `yaml:"-"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// A missing file is fine, defaults and env still apply
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	overrides, err := envOverrides(config)
	if err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}
	config.EnvOverrides = overrides

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StaticDir = "web/static"

	config.API.BaseURL = "http://localhost:3000/api"
	config.API.Timeout = "15s"

	config.Session.Store = SessionStoreMemory
	config.Session.CookieName = "portal_session"
	config.Session.TTL = "168h"

	config.Redis.Addr = "localhost:6379"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "schoolportal"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.Cache.TTL = "30s"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

var validate = validator.New()

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return err
	}

	durations := map[string]string{
		"api timeout": config.API.Timeout,
		"session ttl": config.Session.TTL,
		"cache ttl":   config.Cache.TTL,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.Session.Store == SessionStoreRedis && config.Redis.Addr == "" {
		return fmt.Errorf("redis address is required for the redis session store")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// IsProduction reports whether the portal runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}
