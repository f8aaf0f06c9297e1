package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/eyeclinic/clinic-system/internal/core/service"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Port string `env:"PORT, default=8080"`
	Env  string `env:"ENV, default=development"`

	Log   LogConfig
	Auth  AuthConfig
	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
	HTTP  HTTPConfig

	AssignmentStrategy string `env:"ASSIGNMENT_STRATEGY, default=first_active"`
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL, default=info"`
	Pretty     bool   `env:"LOG_PRETTY, default=false"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB, default=100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS, default=5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS, default=30"`
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET, required"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL, default=15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=24h"`
}

type StoreConfig struct {
	Driver      string `env:"STORE_DRIVER, default=mongo"`
	PostgresDSN string `env:"POSTGRES_DSN, default=host=localhost user=postgres dbname=eye_clinic sslmode=disable"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB, default=eye_clinic"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type HTTPConfig struct {
	CORSOrigins  []string `env:"CORS_ORIGINS, default=http://localhost:3000"`
	CookieSecure bool     `env:"COOKIE_SECURE, default=false"`
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom resolves configuration through l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values envconfig cannot check on its own.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverPostgres:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if !service.IsStrategy(c.AssignmentStrategy) {
		return fmt.Errorf("config: unknown ASSIGNMENT_STRATEGY %q", c.AssignmentStrategy)
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("config: token TTLs must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }
