package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func runsCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded demo runs",
		Long:  "Inspect recorded demo runs. Runs outlive the process only when REDIS_ADDR is set.",
	}

	c.AddCommand(runsListCmd(opts), runsShowCmd(opts))
	return c
}

func runsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			runs, err := a.runner.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no runs recorded)")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDEMO\tSTATUS\tSTARTED\tDURATION")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Demo, r.Status,
					r.StartedAt.Format(time.RFC3339),
					r.Duration().Round(time.Millisecond))
			}
			return w.Flush()
		},
	}
}

func runsShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recorded run with its output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			run, err := a.runner.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(run); err != nil {
				return fmt.Errorf("failed to encode run: %w", err)
			}
			return enc.Close()
		},
	}
}
