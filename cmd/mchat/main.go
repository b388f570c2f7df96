package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/matheus3301/mchat/internal/app"
	"github.com/matheus3301/mchat/internal/lock"
	"github.com/matheus3301/mchat/internal/profile"

	// Zone data for hosts without a system tz database.
	_ "time/tzdata"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		profileFlag string
		debug       bool
	)

	cmd := &cobra.Command{
		Use:           "mchat",
		Short:         "Terminal client for clinic internal messaging",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			name, p, err := profile.Load(profileFlag)
			if err != nil {
				return fmt.Errorf("%w (run `mchatctl config init` to create a profile)", err)
			}

			fxApp := fx.New(app.Options(app.Params{
				ProfileName: name,
				Profile:     p,
				Debug:       debug,
			})...)
			if err := fxApp.Err(); err != nil {
				var held *lock.HeldError
				if errors.As(err, &held) {
					return held
				}
				return err
			}
			fxApp.Run()
			return nil
		},
	}

	cmd.Flags().StringVar(&profileFlag, "profile", "", "profile name (overrides config default)")
	cmd.Flags().BoolVar(&debug, "debug", false, "write debug entries to the profile log")
	return cmd
}
