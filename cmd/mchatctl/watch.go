package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matheus3301/mchat/internal/bus"
	"github.com/matheus3301/mchat/internal/realtime"
)

// watchLine is one streamed event.
type watchLine struct {
	Event string    `json:"event"`
	Time  time.Time `json:"time"`
	Data  any       `json:"data,omitempty"`
}

func (c *cli) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream realtime events as JSON lines until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.load(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			b := bus.New()
			events, unsub := b.Subscribe(bus.NamespaceRealtime, 256)
			defer unsub()

			m := realtime.NewManager(realtime.Options{
				ServerURL:      c.profile.ServerURL,
				SessionCookie:  c.profile.SessionCookie,
				ReconnectDelay: c.profile.ReconnectDelay.Duration,
			}, b, c.logger.Named("realtime"))
			if err := m.Start(ctx); err != nil {
				return err
			}
			defer m.Stop()

			enc := json.NewEncoder(cmd.OutOrStdout())
			for {
				select {
				case evt := <-events:
					if err := enc.Encode(toWatchLine(evt)); err != nil {
						return err
					}
				case <-ctx.Done():
					if dropped := b.Dropped(); dropped > 0 {
						c.logger.Warn("events dropped", zap.Uint64("count", dropped))
					}
					return nil
				}
			}
		},
	}
}

func toWatchLine(evt bus.Event) watchLine {
	return watchLine{
		Event: strings.TrimPrefix(evt.Kind, bus.NamespaceRealtime),
		Time:  evt.Timestamp.UTC(),
		Data:  evt.Payload,
	}
}
