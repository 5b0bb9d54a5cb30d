package main

import (
	"context"
	"os"

	"github.com/sandevgo/dermflow/internal/config"
	"github.com/sandevgo/dermflow/pkg/log"
	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "dermflow",
	Short: "Dermflow — AI skincare consultation service",
	Long:  `Dermflow runs multi-turn skincare intake interviews and synthesizes structured skin profiles.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
