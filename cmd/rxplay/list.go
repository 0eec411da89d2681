package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aescanero/rxplay/internal/application/demos"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func listCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available demos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := demos.Builtin().List()

			switch output {
			case "text":
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, d := range list {
					fmt.Fprintf(w, "%s\t%s\n", d.Name, d.Description)
				}
				return w.Flush()

			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(list); err != nil {
					return fmt.Errorf("failed to encode demos: %w", err)
				}
				return enc.Close()

			default:
				return fmt.Errorf("unknown output format %q (must be text or yaml)", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or yaml")
	return cmd
}
