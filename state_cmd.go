package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/notion-go/internal/config"
	"github.com/tonimelisma/notion-go/internal/extract"
)

// newStateCmd builds the state subcommand group for inspecting and
// resetting persisted bookmarks.
func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset persisted sync state",
	}

	cmd.AddCommand(newStateShowCmd())
	cmd.AddCommand(newStateClearCmd())

	return cmd
}

// openStore resolves config and opens the state database for a state
// subcommand.
func openStore() (*extract.SQLiteStore, *config.Config, error) {
	cfg, err := resolveConfig(config.CLIOverrides{})
	if err != nil {
		return nil, nil, err
	}

	store, err := extract.NewStore(cfg.State.Path, buildLogger(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("opening state database: %w", err)
	}

	return store, cfg, nil
}

func newStateShowCmd() *cobra.Command {
	var flagRuns int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show bookmarks and recent run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cfg, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "State database: %s\n\n", cfg.State.Path)

			bookmarks, err := store.ListBookmarks(ctx)
			if err != nil {
				return fmt.Errorf("listing bookmarks: %w", err)
			}

			if len(bookmarks) == 0 {
				fmt.Fprintln(out, "No bookmarks. The next extract will be a full sync.")
			} else {
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "STREAM\tSCOPE\tPOSITION\tUPDATED")

				for _, b := range bookmarks {
					scope := b.Scope
					if scope == "" {
						scope = "-"
					}

					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						b.Stream, scope,
						b.Position.Format(time.RFC3339),
						b.UpdatedAt.Format(time.RFC3339))
				}

				if err := w.Flush(); err != nil {
					return err
				}
			}

			runs, err := store.ListRuns(ctx, flagRuns)
			if err != nil {
				return fmt.Errorf("listing runs: %w", err)
			}

			if len(runs) == 0 {
				return nil
			}

			fmt.Fprintln(out)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tSTARTED\tSTATUS\tRECORDS\tERROR")

			for _, r := range runs {
				status := r.Status
				if r.FinishedAt.IsZero() {
					status = "running"
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					r.ID, r.StartedAt.Format(time.RFC3339), status, r.Records, r.Error)
			}

			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&flagRuns, "runs", 10, "number of recent runs to show")

	return cmd
}

func newStateClearCmd() *cobra.Command {
	var flagStream string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete bookmarks so the next extract starts over",
		Long: "Delete persisted bookmarks. With --stream, only that stream's " +
			"bookmarks are removed; otherwise all bookmarks are deleted and the " +
			"next extract performs a full sync.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flagStream != "" {
				if err := validateStreams([]string{flagStream}); err != nil {
					return err
				}
			}

			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.ClearBookmarks(cmd.Context(), flagStream)
			if err != nil {
				return fmt.Errorf("clearing bookmarks: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d bookmark(s)\n", n)

			return nil
		},
	}

	cmd.Flags().StringVar(&flagStream, "stream", "", "clear only this stream's bookmarks")

	return cmd
}
