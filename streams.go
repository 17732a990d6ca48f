package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/notion-go/internal/extract"
)

// newStreamsCmd builds the streams subcommand, which lists the available
// streams and their replication behavior.
func newStreamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "streams",
		Short: "List available streams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STREAM\tREPLICATION\tKEY")

			for _, name := range extract.StreamNames() {
				if key, ok := extract.IncrementalStreams[name]; ok {
					fmt.Fprintf(w, "%s\tincremental\t%s\n", name, key)
				} else {
					fmt.Fprintf(w, "%s\tfull\t\n", name)
				}
			}

			return w.Flush()
		},
	}
}
