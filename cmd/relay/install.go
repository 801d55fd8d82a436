package main

import (
	"github.com/sandevgo/chatrelay/internal/config"
	"github.com/sandevgo/chatrelay/internal/service/installer"
	"github.com/sandevgo/chatrelay/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:          "install",
	Short:        "Create the runtime directory and .env interactively",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		state, err := installer.RunWizard()
		if err != nil {
			return err
		}

		logger.Info().Str("path", state.RuntimePath).Msg("initialized runtime directory")
		logger.Info().Str("env", config.GetEnvPath()).Msg("installation complete, run 'relay start'")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
