package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/eyeclinic/clinic-system/internal/core/service"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Store.Driver != DriverMongo || cfg.Mongo.Database != "eye_clinic" {
		t.Fatalf("unexpected store defaults: %+v %+v", cfg.Store, cfg.Mongo)
	}
	if cfg.Auth.AccessTokenTTL != 15*time.Minute || cfg.Auth.RefreshTokenTTL != 24*time.Hour {
		t.Fatalf("unexpected token TTLs: %+v", cfg.Auth)
	}
	if cfg.AssignmentStrategy != service.StrategyFirstActive {
		t.Fatalf("expected first_active, got %q", cfg.AssignmentStrategy)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.Password != "" || cfg.Redis.PoolSize != 10 {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if len(cfg.HTTP.CORSOrigins) != 1 || cfg.HTTP.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected CORS origins %v", cfg.HTTP.CORSOrigins)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":          "s3cret",
		"STORE_DRIVER":        "postgres",
		"ASSIGNMENT_STRATEGY": "least_loaded",
		"ACCESS_TOKEN_TTL":    "5m",
		"CORS_ORIGINS":        "https://a.example,https://b.example",
		"LOG_FILE":            "/var/log/clinic.log",
		"REDIS_PASSWORD":      "hunter2",
		"REDIS_POOL_SIZE":     "32",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Driver != DriverPostgres {
		t.Fatalf("expected postgres, got %q", cfg.Store.Driver)
	}
	if cfg.Auth.AccessTokenTTL != 5*time.Minute {
		t.Fatalf("expected 5m, got %v", cfg.Auth.AccessTokenTTL)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.HTTP.CORSOrigins)
	}
	if cfg.Log.File != "/var/log/clinic.log" {
		t.Fatalf("unexpected log file %q", cfg.Log.File)
	}
	if cfg.Redis.Password != "hunter2" || cfg.Redis.PoolSize != 32 {
		t.Fatalf("unexpected redis settings: %+v", cfg.Redis)
	}
}

func TestLoadFrom_AcceptsEveryAssignmentStrategy(t *testing.T) {
	for _, name := range service.Strategies {
		cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
			"JWT_SECRET":          "s3cret",
			"ASSIGNMENT_STRATEGY": name,
		}))
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", name, err)
		}
		if cfg.AssignmentStrategy != name {
			t.Fatalf("expected %s, got %q", name, cfg.AssignmentStrategy)
		}
	}
}

func TestLoadFrom_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":   {},
		"unknown driver":   {"JWT_SECRET": "s", "STORE_DRIVER": "sqlite"},
		"unknown strategy": {"JWT_SECRET": "s", "ASSIGNMENT_STRATEGY": "random"},
		"zero ttl":         {"JWT_SECRET": "s", "REFRESH_TOKEN_TTL": "0s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
