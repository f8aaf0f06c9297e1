package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/eyeclinic/clinic-system/pkg/logger"
)

func newMigrateCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create MongoDB collections and indexes, or run the PostgreSQL auto-migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.Init(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			be, err := openBackend(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer be.close(context.Background())

			if err := be.migrate(ctx); err != nil {
				return err
			}
			log.Info().Str("driver", cfg.Store.Driver).Msg("migration complete")
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Migration timeout")
	return cmd
}
