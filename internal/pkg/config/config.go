package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	Seed  SeedConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// SeedConfig configures the root account installed on first start.
type SeedConfig struct {
	RootUsername string `env:"SEED_ROOT_USERNAME, default=root"`
	RootPassword string `env:"SEED_ROOT_PASSWORD, default=change-me"`
	RootEmail    string `env:"SEED_ROOT_EMAIL,    default=root@localhost"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_manager"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
