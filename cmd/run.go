package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/locality-cli/internal/export"
	"github.com/sells-group/locality-cli/internal/locality"
	"github.com/sells-group/locality-cli/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run <input> <output>",
	Short: "Build locality boundaries and write them as GeoJSON",
	Long: "Reads a GeoJSON file, shapefile, or ZIP archive of either, clusters each locality's " +
		"records, and writes one multi-polygon feature per locality to the output GeoJSON file.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := applyRunFlags(cmd); err != nil {
			return err
		}
		if err := cfg.Validate("run"); err != nil {
			return err
		}

		persist, _ := cmd.Flags().GetBool("store")
		return runLocalities(ctx, cmd.OutOrStdout(), args[0], args[1], persist)
	},
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("eps", locality.DefaultEps, "neighbourhood radius in working CRS units")
	f.Int("min-samples", locality.DefaultMinSamples, "points within eps needed for a core point")
	f.Int("min-records", locality.DefaultMinRecords, "localities with fewer records are skipped")
	f.String("attribute", "", "input attribute naming the locality (default from config)")
	f.Int("concurrency", 1, "localities processed in parallel")
	f.Bool("store", false, "persist the run to the configured store")
}

// applyRunFlags overrides config values with explicitly set flags.
func applyRunFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	var err error
	if f.Changed("eps") {
		if cfg.Cluster.Eps, err = f.GetFloat64("eps"); err != nil {
			return err
		}
	}
	if f.Changed("min-samples") {
		if cfg.Cluster.MinSamples, err = f.GetInt("min-samples"); err != nil {
			return err
		}
	}
	if f.Changed("min-records") {
		if cfg.Cluster.MinRecords, err = f.GetInt("min-records"); err != nil {
			return err
		}
	}
	if f.Changed("attribute") {
		if cfg.Locality.Attribute, err = f.GetString("attribute"); err != nil {
			return err
		}
	}
	if f.Changed("concurrency") {
		if cfg.Pipeline.Concurrency, err = f.GetInt("concurrency"); err != nil {
			return err
		}
	}
	return nil
}

// runLocalities loads input, runs the pipeline, and writes output. Global
// emptiness is reported on out and is not an error.
func runLocalities(ctx context.Context, out io.Writer, input, output string, persist bool) error {
	log := zap.L().With(zap.String("component", "run"))

	ds, err := loadDataset(ctx, cfg, input)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Total records: %d\n", len(ds.Records))

	reporter := consoleReporter{w: out, minRecords: cfg.Cluster.MinRecords}
	res, err := locality.New(pipelineConfig(cfg), locality.WithReporter(reporter)).Run(ctx, ds)
	if eris.Is(err, locality.ErrNoResults) {
		_, _ = fmt.Fprintln(out, "no locality qualified, nothing to write")
		return nil
	}
	if err != nil {
		return eris.Wrap(err, "run pipeline")
	}

	if err := export.WriteGeoJSON(output, res.Output.Results, cfg.Locality.OutputAttribute); err != nil {
		return eris.Wrap(err, "write output")
	}
	_, _ = fmt.Fprintf(out, "Wrote %d localities to %s\n", len(res.Output.Results), output)

	if !persist {
		return nil
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck
	if err := st.Migrate(ctx); err != nil {
		return eris.Wrap(err, "migrate store")
	}

	run := store.NewRun(input, res.Output.CRS)
	run.Eps = cfg.Cluster.Eps
	run.MinSamples = cfg.Cluster.MinSamples
	run.MinRecords = cfg.Cluster.MinRecords
	run.Localities = res.Summary.Localities
	if err := st.SaveRun(ctx, run, res.Output.Results); err != nil {
		return eris.Wrap(err, "save run")
	}

	log.Info("run stored", zap.String("run_id", run.ID))
	_, _ = fmt.Fprintf(out, "Run %s stored\n", run.ID)
	return nil
}
