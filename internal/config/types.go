package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Config holds every server-level option for the catalog service.
type Config struct {
	Server ServerConfig `koanf:"server"`
}

// ServerConfig collects the bootstrap knobs for the daemon.
type ServerConfig struct {
	Listen   ListenConfig   `koanf:"listen"`
	Logging  LoggingConfig  `koanf:"logging"`
	Cache    CacheConfig    `koanf:"cache"`
	Upstream UpstreamConfig `koanf:"upstream"`
}

// ListenConfig instructs the HTTP listener about bind address and port.
type ListenConfig struct {
	Address string `koanf:"address"`
	Port    int    `koanf:"port"`
}

// LoggingConfig expresses log level and output format.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// CacheConfig selects the cache backend and its expiry tunables. Epoch is an
// operator-controlled namespace generation: bumping it retires every existing
// entry without deleting anything.
type CacheConfig struct {
	Backend    string           `koanf:"backend"`
	TTLSeconds int              `koanf:"ttlSeconds"`
	Epoch      int              `koanf:"epoch"`
	Redis      RedisCacheConfig `koanf:"redis"`
}

type RedisCacheConfig struct {
	Address  string              `koanf:"address"`
	Username string              `koanf:"username"`
	Password string              `koanf:"password"`
	DB       int                 `koanf:"db"`
	TLS      RedisTLSCacheConfig `koanf:"tls"`
}

type RedisTLSCacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	CAFile  string `koanf:"caFile"`
}

// UpstreamConfig points the adapter at the provider API.
type UpstreamConfig struct {
	BaseURL        string `koanf:"baseUrl"`
	TimeoutSeconds int    `koanf:"timeoutSeconds"`
}

// DefaultConfig is the baseline every other configuration source overlays.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Listen: ListenConfig{
				Address: "0.0.0.0",
				Port:    8080,
			},
			Logging: LoggingConfig{
				Level:  "info",
				Format: "json",
			},
			Cache: CacheConfig{
				Backend:    "memory",
				TTLSeconds: 3600,
			},
			Upstream: UpstreamConfig{
				TimeoutSeconds: 5,
			},
		},
	}
}

// Validate rejects configurations the daemon cannot start with.
func (c Config) Validate() error {
	if c.Server.Listen.Port < 0 || c.Server.Listen.Port > 65535 {
		return fmt.Errorf("config: listen port %d out of range", c.Server.Listen.Port)
	}
	if c.Server.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("config: cache ttlSeconds must be positive, got %d", c.Server.Cache.TTLSeconds)
	}
	if c.Server.Cache.Epoch < 0 {
		return fmt.Errorf("config: cache epoch must not be negative, got %d", c.Server.Cache.Epoch)
	}
	switch strings.ToLower(strings.TrimSpace(c.Server.Cache.Backend)) {
	case "", "memory":
	case "redis":
		if strings.TrimSpace(c.Server.Cache.Redis.Address) == "" {
			return errors.New("config: redis backend requires an address")
		}
	default:
		return fmt.Errorf("config: unsupported cache backend %q", c.Server.Cache.Backend)
	}
	base := strings.TrimSpace(c.Server.Upstream.BaseURL)
	if base == "" {
		return errors.New("config: upstream baseUrl required")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("config: upstream baseUrl: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: upstream baseUrl %q missing scheme or host", base)
	}
	if c.Server.Upstream.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: upstream timeoutSeconds must be positive, got %d", c.Server.Upstream.TimeoutSeconds)
	}
	return nil
}
