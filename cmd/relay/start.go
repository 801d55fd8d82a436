package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/sandevgo/chatrelay/pkg/log"
	"github.com/sandevgo/chatrelay/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the relay",
	Long:  `Connects to Telegram and relays every allowed text message to the completion API until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Str("version", core.RelayVersion).Msg("starting chatrelay")

		services := NewServices(ctx)

		if err := srv.Run(ctx, services); err != nil {
			logger.Error().Err(err).Msg("relay stopped with error")
			return err
		}

		logger.Info().Msg("chatrelay has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
