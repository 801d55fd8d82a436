package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:          "history <telegram-chat-id>",
	Short:        "Print the stored history of a chat as JSON",
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

		turns, err := store.Load(ctx, chatID, historyLimit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(turns)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "number of newest turns to print, 0 for all")
	rootCmd.AddCommand(historyCmd)
}
