package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/matheus3301/mchat/internal/config"
	"github.com/matheus3301/mchat/internal/profile"
)

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ~/.mchat/config.toml",
	}
	cmd.AddCommand(c.configInitCmd())
	return cmd
}

func (c *cli) configInitCmd() *cobra.Command {
	var (
		p          config.Profile
		setDefault bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or replace a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name := profile.Resolve(c.profileFlag)
			if err := profile.ValidateName(name); err != nil {
				return err
			}
			if p.ServerURL == "" {
				return errors.New("--server is required")
			}
			if p.UserID <= 0 {
				return errors.New("--user-id is required")
			}

			path := profile.ConfigPath()
			cfg, err := config.Load(path)
			if errors.Is(err, fs.ErrNotExist) {
				cfg, err = &config.Config{}, nil
			}
			if err != nil {
				return fmt.Errorf("load config %s: %w", path, err)
			}
			cfg.SetProfile(name, p)
			if setDefault || cfg.DefaultProfile == "" {
				cfg.DefaultProfile = name
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			if err := profile.EnsureDir(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile %q written to %s\n", name, path)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.ServerURL, "server", "", "backend base URL, e.g. http://clinic.local:5000")
	f.Int64Var(&p.UserID, "user-id", 0, "your user id on the backend")
	f.StringVar(&p.SessionCookie, "cookie", "", "session cookie (or set MCHAT_SESSION_COOKIE)")
	f.StringVar(&p.Timezone, "timezone", "", "display timezone override")
	f.StringVar(&p.MetricsAddr, "metrics-addr", "", "serve /metrics on this address while the TUI runs")
	f.BoolVar(&setDefault, "default", false, "make this the default profile")
	return cmd
}
