package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/locality-cli/internal/config"
	"github.com/sells-group/locality-cli/internal/ingest"
	"github.com/sells-group/locality-cli/internal/locality"
	"github.com/sells-group/locality-cli/internal/model"
	"github.com/sells-group/locality-cli/internal/store"
)

// pipelineConfig maps application config onto the pipeline driver.
func pipelineConfig(c *config.Config) locality.Config {
	return locality.Config{
		Params: locality.ClusterParams{
			Eps:        c.Cluster.Eps,
			MinSamples: c.Cluster.MinSamples,
		},
		MinRecords:  c.Cluster.MinRecords,
		WorkingCRS:  c.CRS.Working,
		TargetCRS:   c.CRS.Target,
		Concurrency: c.Pipeline.Concurrency,
	}
}

func ingestOptions(c *config.Config) ingest.Options {
	return ingest.Options{
		Attribute: c.Locality.Attribute,
		CRS:       c.CRS.Source,
		Normalize: c.Locality.Normalize,
		TempDir:   c.Ingest.TempDir,
	}
}

func loadDataset(ctx context.Context, c *config.Config, path string) (*model.Dataset, error) {
	ds, err := ingest.Load(ctx, path, ingestOptions(c))
	if err != nil {
		return nil, eris.Wrapf(err, "load %s", path)
	}
	return ds, nil
}

// initStore opens the configured result store.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "localities.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %q", cfg.Store.Driver)
	}
}
