package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/dermflow/pkg/log"
	"github.com/sandevgo/dermflow/pkg/srv"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interview API server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting dermflow")

		services := NewServices(ctx)

		srv.StartServices(ctx, services)
		srv.ShutdownServices(ctx, services)

		logger.Info().Msg("dermflow has been shut down gracefully")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
