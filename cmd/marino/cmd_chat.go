package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/marino/internal/dialogue"
	"github.com/shahar-caura/marino/internal/outbox"
	"github.com/shahar-caura/marino/internal/server"
)

var exitWords = map[string]bool{"salir": true, "exit": true, "quit": true}

func newChatCmd(logger *slog.Logger, flags *rootFlags) *cobra.Command {
	var asJSON, save bool

	cmd := &cobra.Command{
		Use:   "chat [mensaje...]",
		Short: "Talk to Don Mariño (interactive when no message is given)",
		Example: `  marino chat "Recuérdame comprar leche mañana"
  marino chat --json Hola
  marino chat            # type "salir" to quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := wireApp(flags, logger)
			if err != nil {
				return err
			}
			c := &chatSession{app: a, out: cmd.OutOrStdout(), asJSON: asJSON, save: save, logger: logger}

			if len(args) > 0 {
				return c.handle(cmd.Context(), strings.Join(args, " "))
			}
			return c.repl(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print replies as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "store emitted reminders in the outbox")
	return cmd
}

type chatSession struct {
	app    *app
	out    io.Writer
	asJSON bool
	save   bool
	logger *slog.Logger
}

func (c *chatSession) repl(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	if !c.asJSON {
		fmt.Fprint(c.out, "> ")
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if exitWords[strings.ToLower(line)] {
			break
		}
		if line != "" {
			if err := c.handle(ctx, line); err != nil {
				return err
			}
		}
		if !c.asJSON {
			fmt.Fprint(c.out, "> ")
		}
	}
	return scanner.Err()
}

func (c *chatSession) handle(ctx context.Context, message string) error {
	resp := server.ChatResponse{Reply: c.app.bot.HandleMessage(ctx, message)}
	if resp.Reminder != nil && c.save {
		id, err := c.store(ctx, *resp.Reminder, message)
		if err != nil {
			return err
		}
		resp.ReminderID = id
	}

	if c.asJSON {
		return json.NewEncoder(c.out).Encode(resp)
	}
	fmt.Fprintln(c.out, resp.Text)
	if resp.ReminderID != "" {
		fmt.Fprintf(c.out, "(recordatorio guardado: %s)\n", resp.ReminderID)
	}
	return nil
}

func (c *chatSession) store(ctx context.Context, req dialogue.ReminderRequest, message string) (string, error) {
	rem, err := c.app.store.Capture(ctx, req, message, c.app.notifier)
	if rem == nil {
		return "", err
	}
	if err != nil {
		c.logger.Error("saving reminder status", "id", rem.ID, "error", err)
	}
	if rem.Status == outbox.StatusNotifyFailed {
		c.logger.Warn("notifying reminder", "id", rem.ID, "error", rem.NotifyError)
	}
	c.logger.Info("reminder captured", "id", rem.ID, "dir", c.app.store.Dir(), "status", string(rem.Status))
	return rem.ID, nil
}
