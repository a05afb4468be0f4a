package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/marino/internal/dialogue"
	"github.com/shahar-caura/marino/internal/outbox"
)

func newRemindersCmd(logger *slog.Logger, flags *rootFlags) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List reminders captured from chats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(flags)
			if err != nil {
				return err
			}
			reminders, err := store.List(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if reminders == nil {
					reminders = []*outbox.Reminder{}
				}
				return json.NewEncoder(out).Encode(reminders)
			}
			if len(reminders) == 0 {
				fmt.Fprintln(out, "No hay recordatorios.")
				return nil
			}

			fmt.Fprintf(out, "%-36s  %-10s  %-6s  %-13s  %s\n", "ID", "FECHA", "PRIO", "ESTADO", "TÍTULO")
			for _, r := range reminders {
				fmt.Fprintf(out, "%-36s  %-10s  %-6s  %-13s  %s\n",
					r.ID,
					dialogue.FormatDate(r.Date),
					r.Priority,
					r.Status,
					r.Title,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	cmd.AddCommand(newRemindersShowCmd(flags), newRemindersPruneCmd(logger, flags))
	return cmd
}

func newRemindersShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one reminder as JSON",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return completeReminderIDs(flags, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(flags)
			if err != nil {
				return err
			}
			r, err := store.Load(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		},
	}
}

func newRemindersPruneCmd(logger *slog.Logger, flags *rootFlags) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete delivered reminders older than --older-than",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(flags)
			if err != nil {
				return err
			}
			deleted, err := store.Cleanup(olderThan)
			if err != nil {
				return err
			}
			logger.Info("pruned reminders", "deleted", deleted, "dir", store.Dir())
			fmt.Fprintf(cmd.OutOrStdout(), "%d recordatorio(s) eliminado(s)\n", deleted)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 7*24*time.Hour, "retention for delivered reminders")
	return cmd
}

func openStore(flags *rootFlags) (*outbox.Store, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	return outbox.NewStore(cfg.Outbox.Dir), nil
}
