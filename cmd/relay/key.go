package main

import (
	"fmt"
	"strconv"

	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/sandevgo/chatrelay/internal/service/command"
	"github.com/sandevgo/chatrelay/pkg/log"
	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage per-chat API keys",
}

var keySetCmd = &cobra.Command{
	Use:          "set <telegram-chat-id> <api-key>",
	Short:        "Use a separate API key for one chat",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		chatID, err := parseChatID(args[0])
		if err != nil {
			return err
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SetCredential(ctx, chatID, args[1]); err != nil {
			return err
		}
		log.FromCtx(ctx).Info().Str("chat_id", chatID).Str("key", command.Mask(args[1])).Msg("api key stored")
		return nil
	},
}

var keyRmCmd = &cobra.Command{
	Use:          "rm <telegram-chat-id>",
	Short:        "Return a chat to the default API key",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		chatID, err := parseChatID(args[0])
		if err != nil {
			return err
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteCredential(ctx, chatID); err != nil {
			return err
		}
		log.FromCtx(ctx).Info().Str("chat_id", chatID).Msg("api key removed")
		return nil
	},
}

func parseChatID(s string) (string, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid telegram chat id %q: %w", s, err)
	}
	return core.ChatID("telegram", id), nil
}

func init() {
	keyCmd.AddCommand(keySetCmd, keyRmCmd)
	rootCmd.AddCommand(keyCmd)
}
