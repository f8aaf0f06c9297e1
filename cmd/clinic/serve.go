package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eyeclinic/clinic-system/internal/api"
	"github.com/eyeclinic/clinic-system/internal/api/handler"
	"github.com/eyeclinic/clinic-system/internal/core/service"
	"github.com/eyeclinic/clinic-system/internal/infrastructure/db/redis"
	"github.com/eyeclinic/clinic-system/internal/infrastructure/http/handlers"
	"github.com/eyeclinic/clinic-system/pkg/logger"
)

func newServeCommand() *cobra.Command {
	var (
		shutdownTimeout time.Duration
		migrate         bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.Init(logger.Options{
				Level:  cfg.Log.Level,
				Pretty: cfg.Log.Pretty,
				File: logger.FileOptions{
					Path:       cfg.Log.File,
					MaxSizeMB:  cfg.Log.MaxSizeMB,
					MaxBackups: cfg.Log.MaxBackups,
					MaxAgeDays: cfg.Log.MaxAgeDays,
				},
			})
			defer logger.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			be, err := openBackend(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer be.close(context.Background())

			if migrate {
				if err := be.migrate(ctx); err != nil {
					return err
				}
				log.Info().Msg("schema up to date")
			}

			rdb, err := redis.Connect(ctx, redis.Config{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
				PoolSize: cfg.Redis.PoolSize,
			})
			if err != nil {
				return err
			}
			defer rdb.Close()

			gate, err := service.NewAccessGate(service.DefaultPolicies, log)
			if err != nil {
				return err
			}
			strategy, err := service.NewAssignmentStrategy(cfg.AssignmentStrategy, redis.NewCounter(rdb), be.stores.Examinations)
			if err != nil {
				return err
			}
			authService := service.NewAuthService(be.stores.Actors, redis.NewSessionStore(rdb), service.TokenConfig{
				Secret:     cfg.Auth.JWTSecret,
				AccessTTL:  cfg.Auth.AccessTokenTTL,
				RefreshTTL: cfg.Auth.RefreshTokenTTL,
			}, log)

			e := api.NewRouter(api.Deps{
				Logger:        log,
				Auth:          authService,
				Authenticator: authService,
				Examinations:  service.NewExaminationService(be.stores, gate, strategy, log),
				Directory:     service.NewDirectoryService(be.stores.Actors),
				Gate:          gate,
				Health: []handlers.Dependency{
					be.health,
					{Name: "redis", Ping: func(ctx context.Context) error { return redis.Ping(ctx, rdb) }},
				},
				CORSOrigins: cfg.HTTP.CORSOrigins,
				Cookie:      handler.CookieConfig{Secure: cfg.HTTP.CookieSecure || cfg.IsProduction()},
			})

			errCh := make(chan error, 1)
			go func() {
				log.Info().
					Str("port", cfg.Port).
					Str("env", cfg.Env).
					Str("store", cfg.Store.Driver).
					Str("assignment", strategy.Name()).
					Msg("http server listening")
				if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 15*time.Second, "Maximum time to wait for graceful shutdown")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Create indexes or tables before serving")

	return cmd
}
