package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
	"github.com/eyeclinic/clinic-system/internal/core/service"
	"github.com/eyeclinic/clinic-system/pkg/logger"
)

// newCreateStaffCommand creates doctor and optometrist accounts out of band.
// Doctors have no public registration.
func newCreateStaffCommand() *cobra.Command {
	var in ports.RegisterInput
	var role string

	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Create a doctor or optometrist account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Role = domain.Role(role)
			if in.Role != domain.RoleDoctor && in.Role != domain.RoleOptometrist {
				return fmt.Errorf("--role must be %s or %s", domain.RoleDoctor, domain.RoleOptometrist)
			}
			in.IsStaff = true

			log := logger.Init(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			be, err := openBackend(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer be.close(context.Background())

			// Registration never touches sessions.
			auth := service.NewAuthService(be.stores.Actors, nil, service.TokenConfig{Secret: cfg.Auth.JWTSecret}, log)
			actor, err := auth.Register(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %d (%s)\n", actor.Role, actor.ID, actor.PhoneNumber)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", string(domain.RoleDoctor), "doctor or optometrist")
	cmd.Flags().StringVar(&in.PhoneNumber, "phone", "", "Phone number (login)")
	cmd.Flags().StringVar(&in.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&in.Password, "password", "", "Initial password")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
