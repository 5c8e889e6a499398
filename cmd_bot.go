package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"receitas/bot"

	"github.com/spf13/cobra"
)

var botDemo bool

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, cleanup, err := openStore(ctx, botDemo)
		if err != nil {
			return err
		}
		defer cleanup()

		b, err := bot.New(cfg.Telegram, store, logger, pageOptions()...)
		if err != nil {
			return err
		}
		b.Start(ctx)
		return nil
	},
}

func init() {
	botCmd.Flags().BoolVar(&botDemo, "demo", false, "Use the in-memory demo recipes instead of BACKEND")
}
