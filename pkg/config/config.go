// Package config loads settings from an optional YAML file and then applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`

	Server     ServerConfig     `yaml:"server"`
	Storefront StorefrontConfig `yaml:"storefront"`
}

type ServerConfig struct {
	HTTPPort        int           `yaml:"http_port"`
	StoreDriver     string        `yaml:"store_driver"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StorefrontConfig struct {
	APIBaseURL string `yaml:"api_base_url"`
	// RequestTimeout of zero keeps the HTTP client default.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Cache          CacheConfig   `yaml:"cache"`
}

type CacheConfig struct {
	Driver    string        `yaml:"driver"`
	Path      string        `yaml:"path"`
	RedisURL  string        `yaml:"redis_url"`
	Namespace string        `yaml:"namespace"`
	TTL       time.Duration `yaml:"ttl"`
}

func Default() Config {
	return Config{
		AppEnv:   "dev",
		LogLevel: "info",
		Server: ServerConfig{
			HTTPPort:        8080,
			StoreDriver:     "postgres",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Storefront: StorefrontConfig{
			APIBaseURL: "http://localhost:8080",
			Cache: CacheConfig{
				Driver:    "file",
				Path:      defaultCachePath(),
				Namespace: "storefront",
			},
		},
	}
}

// Load reads path (or $CONFIG_FILE when path is empty) over the defaults and
// then applies environment overrides. With neither set only defaults and
// environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Server.HTTPPort = getEnvInt("HTTP_PORT", cfg.Server.HTTPPort)
	cfg.Server.StoreDriver = getEnv("STORE_DRIVER", cfg.Server.StoreDriver)
	cfg.Storefront.APIBaseURL = getEnv("STOREFRONT_API_URL", cfg.Storefront.APIBaseURL)
	cfg.Storefront.RequestTimeout = getEnvDuration("STOREFRONT_TIMEOUT", cfg.Storefront.RequestTimeout)
	cfg.Storefront.Cache.Driver = getEnv("STOREFRONT_CACHE", cfg.Storefront.Cache.Driver)
	cfg.Storefront.Cache.Path = getEnv("STOREFRONT_CACHE_PATH", cfg.Storefront.Cache.Path)
	cfg.Storefront.Cache.RedisURL = getEnv("REDIS_URL", cfg.Storefront.Cache.RedisURL)

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Server.StoreDriver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: unknown store_driver %q", c.Server.StoreDriver)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("config: invalid http_port %d", c.Server.HTTPPort)
	}
	if c.Storefront.RequestTimeout < 0 {
		return errors.New("config: request_timeout must not be negative")
	}
	return nil
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "storefront", "state.json")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
