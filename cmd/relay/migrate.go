package main

import (
	"fmt"

	"github.com/sandevgo/chatrelay/internal/config"
	"github.com/sandevgo/chatrelay/internal/storage/sqlite"
	"github.com/sandevgo/chatrelay/pkg/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Apply pending SQLite migrations",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}
		appCfg, err := config.ParseAppConfig()
		if err != nil {
			return err
		}
		if appCfg.StoreDriver != config.StoreSQLite {
			logger.Info().Str("driver", appCfg.StoreDriver).Msg("store has no migrations")
			return nil
		}

		// NewDB migrates on open
		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()

		version, err := sqlite.Version(ctx, db)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		logger.Info().
			Str("path", appCfg.GetDatabasePath()).
			Int64("version", version).
			Msg("database is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
