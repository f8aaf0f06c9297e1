// Command clinic runs the eye clinic API and its maintenance tasks.
//
//go:generate swag init -g main.go -d ./,../../internal/api/handler -o ../../docs
//
// @title                       Eye Clinic API
// @version                     1.0
// @description                 Intake, consultation and patient history for an eye clinic.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eyeclinic/clinic-system/internal/infrastructure/config"
)

// cfg is resolved once by the root command before any subcommand runs.
var cfg *config.Config

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "clinic",
		Short:         "Eye clinic intake and consultation service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newCreateStaffCommand())
	return root
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
