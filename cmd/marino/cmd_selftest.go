package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSelftestCmd(logger *slog.Logger, flags *rootFlags) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Check that every catalog intent is reachable by the semantic matcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := wireApp(flags, logger)
			if err != nil {
				return err
			}

			results, err := a.semantic.SelfTest(cmd.Context())
			if err != nil {
				return fmt.Errorf("self-test: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INTENT\tGOT\tSCORE\tOK\tEXAMPLE")
			failed := 0
			for _, r := range results {
				if r.Representative && !r.Pass {
					failed++
				}
				if !all && !r.Representative {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%.3f\t%s\t%s\n", r.Label, r.Got, r.Confidence, mark(r.Pass), r.Example)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nengine %s, threshold %.2f\n", a.engine.Name(), a.semantic.Threshold())
			if failed > 0 {
				return fmt.Errorf("%d intent(s) not reachable", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "show every catalog example, not only representatives")
	return cmd
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "NO"
}
