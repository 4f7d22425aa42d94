package cache

import (
	"context"
	"fmt"
	"time"
)

type Config struct {
	Driver    string        `yaml:"driver"`
	Path      string        `yaml:"path"`
	RedisURL  string        `yaml:"redis_url"`
	Namespace string        `yaml:"namespace"`
	TTL       time.Duration `yaml:"ttl"`
}

// Open builds the store named by cfg.Driver: "memory", "file" or "redis".
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.Path)
	case "redis":
		return NewRedisStore(ctx, RedisOptions{
			RedisURL:  cfg.RedisURL,
			Namespace: cfg.Namespace,
			TTL:       cfg.TTL,
		})
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}
