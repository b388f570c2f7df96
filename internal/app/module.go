// Package app composes the chat client from its parts and ties their
// lifetimes to one fx application.
package app

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/bus"
	"github.com/matheus3301/mchat/internal/chat"
	"github.com/matheus3301/mchat/internal/config"
	"github.com/matheus3301/mchat/internal/lock"
	"github.com/matheus3301/mchat/internal/logging"
	"github.com/matheus3301/mchat/internal/metrics"
	"github.com/matheus3301/mchat/internal/prefs"
	"github.com/matheus3301/mchat/internal/profile"
	"github.com/matheus3301/mchat/internal/realtime"
	"github.com/matheus3301/mchat/internal/store"
	"github.com/matheus3301/mchat/internal/tui"
)

const shutdownTimeout = 5 * time.Second

// Params holds the resolved profile passed to the fx module.
type Params struct {
	ProfileName string
	Profile     config.Profile
	Debug       bool
}

// Module returns the fx module for the TUI client.
func Module(p Params) fx.Option {
	return fx.Module("mchat",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideLock,
			provideStore,
			provideDurable,
			provideBus,
			provideClient,
			provideManager,
			provideTyping,
			provideApp,
			provideSystem,
		),
		fx.Invoke(registerLifecycle),
	)
}

// Logger routes fx's own events to the profile log.
func Logger() fx.Option {
	return fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: l.Named("fx")}
	})
}

func provideLogger(p Params) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if p.Debug {
		level = zapcore.DebugLevel
	}
	return logging.New(profile.LogPath(p.ProfileName), p.ProfileName, logging.Options{Level: level})
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.ProfileName); err != nil {
		return nil, err
	}
	l, err := lock.Acquire(profile.Dir(p.ProfileName), p.ProfileName)
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

// The lock parameter orders the store after the lock.
func provideStore(p Params, _ *lock.Lock, logger *zap.Logger) (*store.DB, error) {
	path := profile.PrefsDBPath(p.ProfileName)
	db, result, err := store.OpenMigrated(path)
	if err != nil {
		return nil, err
	}
	logger.Info("store initialized",
		zap.String("path", path),
		zap.Uint("version", result.Version),
		zap.Bool("migrated", result.Changed),
	)
	return db, nil
}

func provideDurable(db *store.DB) *prefs.Durable {
	return prefs.NewDurable(db)
}

func provideBus() *bus.Bus {
	b := bus.New()
	b.OnDrop(metrics.RecordDrop)
	return b
}

func provideClient(p Params, logger *zap.Logger) *api.Client {
	return api.New(api.Options{
		BaseURL:       p.Profile.ServerURL,
		SessionCookie: p.Profile.SessionCookie,
		Timeout:       p.Profile.RequestTimeout.Duration,
	}, logger.Named("api"))
}

func provideManager(p Params, b *bus.Bus, logger *zap.Logger) *realtime.Manager {
	return realtime.NewManager(realtime.Options{
		ServerURL:      p.Profile.ServerURL,
		SessionCookie:  p.Profile.SessionCookie,
		ReconnectDelay: p.Profile.ReconnectDelay.Duration,
	}, b, logger.Named("realtime"))
}

func provideTyping(m *realtime.Manager, logger *zap.Logger) *realtime.Typing {
	return realtime.NewTyping(m, realtime.TypingTimeout, logger.Named("typing"))
}

func provideApp(p Params, logger *zap.Logger) *tui.App {
	return tui.NewApp(tui.Options{Profile: p.ProfileName}, logger.Named("tui"))
}

func provideSystem(p Params, client *api.Client, typing *realtime.Typing, view *tui.App, b *bus.Bus, durable *prefs.Durable, logger *zap.Logger) *chat.System {
	sys := chat.NewSystem(chat.Options{
		CurrentUserID: p.Profile.UserID,
		LocalTimezone: p.Profile.Timezone,
		Durable:       durable,
	}, client, typing, view, b, logger.Named("chat"))
	view.Bind(sys)
	return sys
}

func registerLifecycle(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	p Params,
	view *tui.App,
	sys *chat.System,
	manager *realtime.Manager,
	db *store.DB,
	lk *lock.Lock,
	logger *zap.Logger,
) {
	var srv *metrics.Server

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if addr := p.Profile.MetricsAddr; addr != "" {
				s, err := metrics.Listen(addr, logger.Named("metrics"))
				if err != nil {
					return err
				}
				srv = s
				go srv.Serve()
			}

			// The chat system subscribes before the manager can publish.
			sys.Start(context.Background())
			if err := manager.Start(context.Background()); err != nil {
				return err
			}

			go func() {
				code := 0
				if err := view.Run(); err != nil {
					logger.Error("tui exited", zap.Error(err))
					code = 1
				}
				_ = shutdowner.Shutdown(fx.ExitCode(code))
			}()
			logger.Info("client started", zap.String("server", p.Profile.ServerURL))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			view.Stop()
			sys.Stop()
			manager.Stop()
			if srv != nil {
				if err := srv.Shutdown(ctx); err != nil {
					logger.Warn("metrics shutdown", zap.Error(err))
				}
			}
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			_ = logger.Sync()
			return nil
		},
	})
}

// Options returns every fx option needed to run the client.
func Options(p Params) []fx.Option {
	return []fx.Option{
		Module(p),
		Logger(),
		fx.StopTimeout(shutdownTimeout),
	}
}
