package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/chatrelay/internal/config"
	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/sandevgo/chatrelay/internal/providers/llm"
	"github.com/sandevgo/chatrelay/internal/service/auth"
	"github.com/sandevgo/chatrelay/internal/service/budget"
	"github.com/sandevgo/chatrelay/internal/service/command"
	"github.com/sandevgo/chatrelay/internal/service/memory"
	"github.com/sandevgo/chatrelay/internal/service/relay"
	"github.com/sandevgo/chatrelay/internal/service/retention"
	"github.com/sandevgo/chatrelay/internal/storage"
	"github.com/sandevgo/chatrelay/internal/transport/telegram"
	"github.com/sandevgo/chatrelay/pkg/log"
	"github.com/sandevgo/chatrelay/pkg/retry"
	"github.com/sandevgo/chatrelay/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	tgCfg := config.NewTelegramConfig(ctx)

	// 2. Storage
	store, err := storage.Open(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(store.Close))

	// 3. Completion provider
	completer, err := llm.NewCompleter(ctx, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	counter, err := budget.NewTiktokenCounter(llmCfg.Model)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize token counter")
	}

	// 4. Relay
	mem := memory.NewMemory(store, memory.NewSysPrompt(appCfg), appCfg.HistoryLimit)

	retryCfg := retry.NewOnceConfig()
	retryCfg.MaxRetries = appCfg.MaxRetries

	rl := relay.NewRelay(mem, store, completer, counter, relay.Options{
		Params:      llmCfg.Params(),
		TokenBudget: appCfg.TokenBudget,
		Workers:     appCfg.Workers,
		Retrier:     retry.NewRetrier(retryCfg),
	})

	// 5. Retention
	if appCfg.RetentionDays > 0 {
		services = append(services, retention.New(store, appCfg.GetRetention(), appCfg.RetentionSchedule))
	}

	// 6. Transport
	router := command.NewRouter(tgCfg.Greeting, mem, store)
	acl := auth.New(tgCfg.AllowedUsers, tgCfg.AllowedIDs)
	if acl.Open() {
		logger.Warn().Msg("no allowed users configured, the bot answers everyone")
	}

	bot, err := telegram.NewBot(ctx, tgCfg, rl, router, acl)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}
	services = append(services, bot)

	return services
}

// openStore loads the runtime configuration and opens the history store for
// the maintenance subcommands.
func openStore(ctx context.Context) (core.Store, error) {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, err
	}
	appCfg, err := config.ParseAppConfig()
	if err != nil {
		return nil, err
	}
	return storage.Open(ctx, appCfg)
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
