package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/ProperAttorney/avrae/internal/boot"
	"github.com/ProperAttorney/avrae/internal/config"
	"github.com/ProperAttorney/avrae/internal/dice"
	"github.com/ProperAttorney/avrae/internal/discord"
	"github.com/ProperAttorney/avrae/internal/inline"
	"github.com/ProperAttorney/avrae/internal/logger"
	"github.com/ProperAttorney/avrae/internal/rolls"
	"github.com/ProperAttorney/avrae/internal/server"
	"github.com/ProperAttorney/avrae/internal/store"
	"github.com/ProperAttorney/avrae/internal/version"
)

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideStore(lc fx.Lifecycle, runtimeConfig *boot.RuntimeConfig) (*store.Store, error) {
	st, err := store.Open(runtimeConfig.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return st.Close()
		},
	})
	return st, nil
}

func provideRollService(log *slog.Logger, cfg config.Config, st *store.Store) *rolls.Service {
	return rolls.NewService(log, dice.NewRoller(), st, inlineWindow(cfg.Inline))
}

func provideBot(lc fx.Lifecycle, log *slog.Logger, runtimeConfig *boot.RuntimeConfig, cfg config.Config, svc *rolls.Service, st *store.Store) (*discord.Bot, error) {
	bot, err := discord.NewBot(log, runtimeConfig.DiscordToken, runtimeConfig.CommandPrefix, cfg.Inline, svc, st)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return bot.Open()
		},
		OnStop: func(ctx context.Context) error {
			return bot.Close()
		},
	})
	return bot, nil
}

func provideServer(log *slog.Logger, runtimeConfig *boot.RuntimeConfig, st *store.Store) *server.Server {
	return server.NewServer(log, runtimeConfig.ServerAddr, server.NewStatusHandler(st))
}

func startSweeper(lc fx.Lifecycle, log *slog.Logger, st *store.Store) error {
	sweeper, err := store.NewSweeper(log, st)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
	return nil
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting Avrae %s\n", version.GetInfo())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil { // block until server is stopped
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}

func inlineWindow(cfg config.InlineConfig) inline.Config {
	w := inline.DefaultConfig()
	if cfg.BeforeWords > 0 {
		w.BeforeWords = cfg.BeforeWords
	}
	if cfg.AfterWords > 0 {
		w.AfterWords = cfg.AfterWords
	}
	if cfg.MaxContextLen > 0 {
		w.MaxContextLen = cfg.MaxContextLen
	}
	return w
}

func main() {
	fx.New(
		fx.Provide(
			provideConfig,
			boot.ProvideRuntimeConfig,
			provideLogger,

			provideStore,
			provideRollService,
			provideBot,
			provideServer,
		),
		fx.Invoke(
			startSweeper,
			func(*discord.Bot) {},
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}
