package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"digitsort/internal/logging"
	"digitsort/internal/server"

	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the sorter over HTTP",
	Long: `Starts the HTTP API:

  POST /v1/sort        {"values":[...], "trace":false}
  POST /v1/sort/batch  {"inputs":[[...], ...]}
  GET  /healthz

Stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, logging.Get(logging.CategoryServer)).Run(ctx)
}
