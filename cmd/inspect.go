package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/locality-cli/internal/locality"
	"github.com/sells-group/locality-cli/internal/model"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <input>",
	Short: "List the localities of an input and their record counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("inspect"); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if dump, _ := cmd.Flags().GetBool("config"); dump {
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "%s\n", data)
		}

		ds, err := loadDataset(ctx, cfg, args[0])
		if err != nil {
			return err
		}

		th := locality.Threshold{MinRecords: cfg.Cluster.MinRecords}
		formatPartition(out, ds, locality.Partition(ds.Records), th)
		return nil
	},
}

func init() {
	inspectCmd.Flags().Bool("config", false, "print the effective configuration first")
	rootCmd.AddCommand(inspectCmd)
}

// formatPartition writes one row per locality group to out.
func formatPartition(out io.Writer, ds *model.Dataset, groups []model.LocalityGroup, th locality.Threshold) {
	_, _ = fmt.Fprintf(out, "Total records: %d (CRS %s)\n", len(ds.Records), ds.CRS)
	_, _ = fmt.Fprintf(out, "Localities: %d\n\n", len(groups))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "LOCALITY\tRECORDS\tCLUSTERED")
	for _, g := range groups {
		clustered := "no"
		if th.Proceed(g) {
			clustered = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", g.Locality, g.Len(), clustered)
	}
	_ = w.Flush()
}
