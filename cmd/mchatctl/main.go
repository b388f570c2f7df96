package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/config"
	"github.com/matheus3301/mchat/internal/logging"
	"github.com/matheus3301/mchat/internal/profile"

	_ "time/tzdata"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cli holds the resolved persistent flags shared by every command.
type cli struct {
	profileFlag string
	jsonOut     bool

	name    string
	profile config.Profile
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "mchatctl",
		Short:         "Scriptable access to clinic internal messaging",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.profileFlag, "profile", "", "profile name (overrides config default)")
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "output in JSON format")

	root.AddCommand(
		c.conversationsCmd(),
		c.usersCmd(),
		c.historyCmd(),
		c.sendCmd(),
		c.unreadCmd(),
		c.markReadCmd(),
		c.timezoneCmd(),
		c.watchCmd(),
		c.configCmd(),
	)
	return root
}

// load resolves the profile and opens the command logger. Warnings and
// errors also go to stderr.
func (c *cli) load() error {
	if c.logger != nil {
		return nil
	}
	name, p, err := profile.Load(c.profileFlag)
	if err != nil {
		return err
	}
	logger, err := logging.New(profile.LogPath(name), name, logging.Options{
		Stderr:      true,
		StderrLevel: zapcore.WarnLevel,
		Level:       zapcore.InfoLevel,
	})
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	c.name, c.profile, c.logger = name, p, logger.Named("ctl")
	return nil
}

func (c *cli) client() (*api.Client, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	return api.New(api.Options{
		BaseURL:       c.profile.ServerURL,
		SessionCookie: c.profile.SessionCookie,
		Timeout:       c.profile.RequestTimeout.Duration,
	}, c.logger.Named("api")), nil
}

func (c *cli) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), c.profile.RequestTimeout.Duration+time.Second)
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}
