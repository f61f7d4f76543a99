package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/cmdgate/pkg/log"
	"github.com/sandevgo/cmdgate/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:          "start",
	Short:        "Start the dispatcher and its transports",
	Long:         `Registers the built-in commands and serves them over the configured transports (console, Telegram).`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		// the stop command cancels this context
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting gate")

		services := NewServices(ctx, cancel)

		if err := srv.Run(ctx, services); err != nil {
			return err
		}

		logger.Info().Msg("gate has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
