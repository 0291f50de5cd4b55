package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs to start. Values come from three
// layers, later layers winning: built-in defaults, an optional YAML file,
// and environment variables.
type Config struct {
	Port          string        `yaml:"port"`
	DatabaseURL   string        `yaml:"database_url"`
	RedisAddr     string        `yaml:"redis_addr"`
	AMQPURL       string        `yaml:"amqp_url"`
	AttachmentDir string        `yaml:"attachment_dir"`
	SeedPath      string        `yaml:"seed_path"`
	StatusTTL     time.Duration `yaml:"status_cache_ttl"`
}

func defaults() *Config {
	return &Config{
		Port:          "8080",
		DatabaseURL:   "postgres://localhost:5432/freight?sslmode=disable",
		AttachmentDir: "data/attachments",
		SeedPath:      "data/seeds/freight.json",
		StatusTTL:     5 * time.Minute,
	}
}

// Load builds the effective configuration. A missing file is not an error;
// the defaults plus environment apply.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env
		case err != nil:
			return nil, fmt.Errorf("load config: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("load config: parse %q: %w", path, err)
			}
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.AMQPURL = getEnv("AMQP_URL", cfg.AMQPURL)
	cfg.AttachmentDir = getEnv("ATTACHMENT_DIR", cfg.AttachmentDir)
	cfg.SeedPath = getEnv("SEED_PATH", cfg.SeedPath)

	if raw := os.Getenv("STATUS_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("load config: parse STATUS_CACHE_TTL %q: %w", raw, err)
		}
		cfg.StatusTTL = ttl
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
