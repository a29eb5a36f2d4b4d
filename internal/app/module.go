package app

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dkoval/chatik/internal/bus"
	"github.com/dkoval/chatik/internal/config"
	"github.com/dkoval/chatik/internal/home"
	"github.com/dkoval/chatik/internal/logging"
	"github.com/dkoval/chatik/internal/remote"
	"github.com/dkoval/chatik/internal/session"
	"github.com/dkoval/chatik/internal/store"
	"github.com/dkoval/chatik/internal/tui"
)

// Params holds flag overrides passed to the fx module.
type Params struct {
	ConfigPath string // optional override; empty = ~/.chatik/config.toml
}

// Module composes the client: config, logging, store, session, remote
// clients and the TUI shell.
func Module(p Params) fx.Option {
	return fx.Module("chatik",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideStore,
			provideSessionManager,
			provideStateMachine,
			provideRemote,
			provideApp,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	path := p.ConfigPath
	if path == "" {
		path = home.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	// First run: write a config pointing at a locally running stub so
	// the client works out of the box.
	cfg = &config.Config{
		AuthURL:     "http://127.0.0.1:8787/auth",
		MessagesURL: "http://127.0.0.1:8787/messages",
		SearchURL:   "http://127.0.0.1:8787/search",
	}
	if err := config.Save(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func provideLogger() (*zap.Logger, error) {
	if err := home.EnsureDirs(); err != nil {
		return nil, err
	}
	// The TUI owns the terminal, so logs go to the file only.
	return logging.NewFileOnly(home.LogPath(), "chatik")
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStore(logger *zap.Logger) (*store.DB, error) {
	db, err := store.Open(home.DBPath())
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	}
	return db, nil
}

func provideSessionManager(db *store.DB, b *bus.Bus, logger *zap.Logger) *session.Manager {
	return session.NewManager(db, b, logger)
}

func provideStateMachine(b *bus.Bus) *session.Machine {
	return session.NewMachine(b)
}

func provideRemote(cfg *config.Config, logger *zap.Logger) *remote.Client {
	return remote.New(cfg, logger)
}

func provideApp(client *remote.Client, sessions *session.Manager, machine *session.Machine, b *bus.Bus, db *store.DB, cfg *config.Config, logger *zap.Logger) *tui.App {
	return tui.NewApp(client, sessions, machine, b, db, cfg, logger)
}

func registerLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, app *tui.App, db *store.DB, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := app.Run(); err != nil {
					logger.Error("tui exited with error", zap.Error(err))
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			app.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("closing store failed", zap.Error(err))
			}
			logger.Info("client stopped")
			return nil
		},
	})
}
