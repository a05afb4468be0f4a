package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/marino/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// logLevel is shared by the process logger so --debug can lower it after
// flags are parsed.
var logLevel slog.LevelVar

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevel}))

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("marino failed", "error", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	debug      bool
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "marino",
		Short:         "Don Mariño, a Spanish reminder assistant",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.debug {
				logLevel.Set(slog.LevelDebug)
			}
			config.LoadEnvFiles()
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", config.DefaultPath, "path to marino.yaml")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newChatCmd(logger, flags),
		newServeCmd(logger, flags),
		newSelftestCmd(logger, flags),
		newRemindersCmd(logger, flags),
		newInitCmd(flags),
		newCompletionCmd(),
	)
	return root
}
