package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"receitas/web"

	"github.com/spf13/cobra"
)

var (
	serveDemo bool
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog page and JSON API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, cleanup, err := openStore(ctx, serveDemo)
		if err != nil {
			return err
		}
		defer cleanup()

		addr := cfg.HTTP.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		return web.New(store, cfg.HTTP, logger, pageOptions()...).Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveDemo, "demo", false, "Use the in-memory demo recipes instead of BACKEND")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default HTTP_ADDR)")
}
