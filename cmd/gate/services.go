package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/cmdgate/internal/config"
	"github.com/sandevgo/cmdgate/internal/core"
	"github.com/sandevgo/cmdgate/internal/service/decorate"
	"github.com/sandevgo/cmdgate/internal/service/dispatch"
	"github.com/sandevgo/cmdgate/internal/transport/cli"
	"github.com/sandevgo/cmdgate/internal/transport/telegram"
	"github.com/sandevgo/cmdgate/pkg/log"
	"github.com/sandevgo/cmdgate/pkg/srv"
)

func NewServices(ctx context.Context, shutdown context.CancelFunc) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// 1. Configuration
	loadEnv(ctx)
	appCfg := config.NewAppConfig(ctx)

	// 2. Dispatcher with the built-in commands
	d := newDispatcher(ctx, shutdown)
	services = append(services, srv.NewCleanup(func() error {
		// pending confirmations live in memory only
		if n := d.PendingCount(); n > 0 {
			logger.Info().Int("pending", n).Msg("dropping unconfirmed commands")
		}
		return nil
	}))
	services = append(services, d)

	// 3. Transports
	transports, err := initTransports(ctx, appCfg, d)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	if len(transports) == 0 {
		logger.Fatal().Msg("no transport enabled, set ENABLE_CLI or ENABLE_TELEGRAM")
	}
	services = append(services, transports...)

	return services
}

// newDispatcher builds the dispatcher and registers the built-in commands.
// A conflicting definition aborts startup.
func newDispatcher(ctx context.Context, shutdown func()) *dispatch.Dispatcher {
	logger := log.FromCtx(ctx)
	cfg := config.NewDispatchConfig(ctx)

	var prefix decorate.Prefixer
	if cfg.MessagePrefix != "" {
		prefix = decorate.PrefixWith(cfg.MessagePrefix)
	}

	d, err := dispatch.New(dispatch.Config{
		Prefix:         prefix,
		CacheCapacity:  cfg.ConfirmCapacity,
		CacheTTL:       cfg.ConfirmTTL,
		HelpCommand:    cfg.HelpCommand,
		ConfirmCommand: cfg.ConfirmCommand,
		Workers:        cfg.Workers,
		GracePeriod:    cfg.GracePeriod,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create dispatcher")
	}

	for _, def := range builtinCommands(shutdown) {
		if err := d.Register(def); err != nil {
			var dup *core.DuplicateDefinitionError
			if errors.As(err, &dup) {
				logger.Fatal().Str("syntax", dup.Syntax).Msg("conflicting command definitions")
			}
			logger.Fatal().Err(err).Msg("failed to register command")
		}
	}
	return d
}

func initTransports(ctx context.Context, cfg *config.AppConfig, d core.Dispatcher) ([]srv.Service, error) {
	var services []srv.Service

	// Telegram Bot
	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, d)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	// Local console
	if cfg.EnableCLI {
		rl, err := cli.NewReadLine(d, cfg)
		if err != nil {
			return nil, err
		}
		services = append(services, rl)
	}

	return services, nil
}

func loadEnv(ctx context.Context) {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to init env")
	}
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
