package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/marino/internal/server"
)

func newServeCmd(logger *slog.Logger, flags *rootFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chat HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := wireApp(flags, logger)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Build the intent index before the first message arrives.
			go func() {
				if err := a.semantic.Warmup(ctx); err != nil {
					logger.Warn("semantic matcher unavailable, using regex fallback", "error", err)
				}
			}()

			srv, err := server.New(ctx, server.Options{
				Port:     a.cfg.Server.Port,
				Version:  version,
				Bot:      a.bot,
				Store:    a.store,
				Notifier: a.notifier,
				Gatherer: a.registry,
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "HTTP server port (overrides server.port)")
	return cmd
}
