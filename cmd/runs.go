package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/locality-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored pipeline runs",
	Long:  "Commands for listing stored runs and the locality boundaries they produced.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("store"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.ListRuns(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(cmd.OutOrStdout(), runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run and its locality boundaries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("store"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}
		bounds, err := st.ListBoundaries(ctx, run.ID)
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		formatRun(cmd.OutOrStdout(), *run, bounds)
		return nil
	},
}

func init() {
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []store.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tINPUT\tEPS\tMIN_SAMPLES\tLOCALITIES\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t-----\t---\t-----------\t----------\t-------")

	for _, r := range runs {
		input := filepath.Base(r.Input)
		if len(input) > 30 {
			input = input[:27] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%g\t%d\t%d\t%s\n",
			truncateID(r.ID),
			input,
			r.Eps,
			r.MinSamples,
			r.Localities,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// formatRun writes run details followed by one row per boundary.
func formatRun(out io.Writer, r store.Run, bounds []store.Boundary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Run:\t%s\n", r.ID)
	_, _ = fmt.Fprintf(w, "Input:\t%s\n", r.Input)
	_, _ = fmt.Fprintf(w, "CRS:\t%s\n", r.CRS)
	_, _ = fmt.Fprintf(w, "Params:\teps=%g min_samples=%d min_records=%d\n", r.Eps, r.MinSamples, r.MinRecords)
	_, _ = fmt.Fprintf(w, "Localities:\t%d seen, %d written\n", r.Localities, len(bounds))
	_, _ = fmt.Fprintf(w, "Created:\t%s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "LOCALITY\tCLUSTERS\tMEMBERS")
	for _, b := range bounds {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\n", b.Locality, b.Clusters, b.Members)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
