package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	SMS   SMSConfig
	Seed  SeedConfig

	ReportCacheTTL time.Duration `env:"REPORT_CACHE_TTL, default=60s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=stb_billing"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMSConfig struct {
	Timeout time.Duration `env:"SMS_TIMEOUT, default=10s"`
	Workers int           `env:"SMS_WORKERS, default=4"`
}

// SeedConfig bootstraps the first ADMIN account on an empty database.
type SeedConfig struct {
	AdminName     string `env:"SEED_ADMIN_NAME,     default=Admin"`
	AdminEmail    string `env:"SEED_ADMIN_EMAIL,    default=admin@example.com"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD, default=admin123"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
