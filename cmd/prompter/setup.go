package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sandevgo/prompter/internal/app"
	"github.com/sandevgo/prompter/internal/config"
	"github.com/sandevgo/prompter/internal/storage/sqlite"
	"github.com/sandevgo/prompter/internal/transport/cli"
	"github.com/sandevgo/prompter/internal/transport/telegram"
	"github.com/sandevgo/prompter/pkg/log"
	"github.com/sandevgo/prompter/pkg/srv"
)

// NewServices builds every service in start order. stop ends the process,
// the console calls it on exit.
func NewServices(ctx context.Context, stop context.CancelFunc) []srv.Service {
	logger := log.FromCtx(ctx)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	prompterCfg := config.NewPrompterConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	// 3. Prompt engine
	a, err := app.New(ctx, appCfg, prompterCfg, db)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize prompter")
	}
	services := a.Services()

	// 4. Transports
	transports, err := initTransports(ctx, appCfg, a, stop)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	if len(transports) == 0 {
		logger.Warn().Msg("no transport enabled, set ENABLE_CONSOLE or ENABLE_TELEGRAM")
	}

	return append(services, transports...)
}

func initTransports(ctx context.Context, cfg *config.AppConfig, a *app.App, stop context.CancelFunc) ([]srv.Service, error) {
	var services []srv.Service

	// Telegram Bot
	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.Pipeline(), a.Manager())
		if err != nil {
			return nil, err
		}
		a.AddOperator(telegram.SessionID(tgCfg.OwnerID))
		services = append(services, bot)
	}

	// Local console
	if cfg.EnableConsole {
		rl, err := cli.NewReadLine(ctx, a.Pipeline(), a.Manager(), cfg)
		if err != nil {
			return nil, err
		}
		a.AddOperator(cli.SessionID)
		services = append(services, &console{ReadLine: rl, stop: stop})
	}

	return services, nil
}

// console ends the process when the operator leaves the console.
type console struct {
	*cli.ReadLine
	stop context.CancelFunc
}

func (c *console) Start(ctx context.Context) error {
	defer c.stop()
	return c.ReadLine.Start(ctx)
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := (&config.AppConfig{RuntimePath: runtimePath}).GetEnvPath()

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
