package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	libconfig "chargesol/backend/libs/config"
)

// Config represents registry-service configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"REGISTRY_HTTP_PORT" default:"8085"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"REGISTRY_POSTGRES_DSN"`
		// Migrate applies the embedded schema on startup.
		Migrate bool `yaml:"migrate" env:"REGISTRY_POSTGRES_MIGRATE" default:"true"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REGISTRY_REDIS_ADDR"`
		Password string `yaml:"password" env:"REGISTRY_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REGISTRY_REDIS_DB"`
	} `yaml:"redis"`
	Drafts struct {
		TTL     time.Duration `yaml:"ttl" env:"REGISTRY_DRAFT_TTL" default:"1800"`
		Guarded bool          `yaml:"guarded" env:"REGISTRY_GUARDED_STEPS" default:"true"`
	} `yaml:"drafts"`
	JWT struct {
		Secret string `yaml:"secret" env:"REGISTRY_JWT_SECRET"`
	} `yaml:"jwt"`
	Geocoder struct {
		URL     string        `yaml:"url" env:"REGISTRY_GEOCODER_URL"`
		Timeout time.Duration `yaml:"timeout" env:"REGISTRY_GEOCODER_TIMEOUT" default:"5"`
	} `yaml:"geocoder"`
	Feed struct {
		PingInterval time.Duration `yaml:"pingInterval" env:"REGISTRY_FEED_PING_INTERVAL" default:"30"`
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"REGISTRY_FEED_WRITE_TIMEOUT" default:"10"`
	} `yaml:"feed"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	return load(nil)
}

func load(lookup libconfig.LookupFunc) (*Config, error) {
	cfg := &Config{}
	if err := libconfig.LoadConfigFrom(cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("config: database DSN is required")
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("config: jwt secret is required")
	}
	if c.Drafts.TTL <= 0 {
		return errors.New("config: draft ttl must be positive")
	}
	if raw := strings.TrimSpace(c.Geocoder.URL); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: invalid geocoder url %q", raw)
		}
	}
	return nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8085"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// UseRedis reports whether drafts go to redis rather than process memory.
func (c *Config) UseRedis() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}

// GeocoderEnabled reports whether submitted addresses are geocoded.
func (c *Config) GeocoderEnabled() bool {
	return strings.TrimSpace(c.Geocoder.URL) != ""
}
