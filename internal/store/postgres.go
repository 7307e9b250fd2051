package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/locality-cli/internal/crs"
	"github.com/sells-group/locality-cli/internal/db"
	"github.com/sells-group/locality-cli/internal/model"
	"github.com/sells-group/locality-cli/internal/resilience"
)

// PostgresStore implements Store on PostGIS.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("postgres ping")
	if err := resilience.Do(ctx, retry, pool.Ping); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Close does not close it.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE EXTENSION IF NOT EXISTS postgis;

CREATE TABLE IF NOT EXISTS locality_runs (
	id          TEXT PRIMARY KEY,
	input       TEXT NOT NULL,
	crs         TEXT NOT NULL,
	eps         DOUBLE PRECISION NOT NULL,
	min_samples INTEGER NOT NULL,
	min_records INTEGER NOT NULL,
	localities  INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS locality_boundaries (
	run_id   TEXT NOT NULL REFERENCES locality_runs(id) ON DELETE CASCADE,
	locality TEXT NOT NULL,
	position INTEGER NOT NULL,
	clusters INTEGER NOT NULL,
	members  INTEGER NOT NULL,
	geom     geometry(MultiPolygon) NOT NULL,
	PRIMARY KEY (run_id, locality)
);

CREATE INDEX IF NOT EXISTS idx_locality_runs_created_at ON locality_runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_locality_boundaries_geom ON locality_boundaries USING GIST (geom);
`

var boundaryColumns = []string{"run_id", "locality", "position", "clusters", "members", "geom"}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, run Run, results []model.LocalityResult) error {
	bs, err := boundaries(run, results)
	if err != nil {
		return err
	}
	srid, err := crs.SRID(run.CRS)
	if err != nil {
		return eris.Wrap(err, "postgres: boundary srid")
	}

	rows := make([][]any, len(bs))
	for i, b := range bs {
		wkb, err := encodeEWKB(b.Geometry, srid)
		if err != nil {
			return eris.Wrapf(err, "postgres: locality %q", b.Locality)
		}
		rows[i] = []any{b.RunID, b.Locality, i, b.Clusters, b.Members, wkb}
	}

	err = db.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO locality_runs (id, input, crs, eps, min_samples, min_records, localities, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (id) DO UPDATE SET localities = EXCLUDED.localities`,
			run.ID, run.Input, run.CRS, run.Eps, run.MinSamples, run.MinRecords, run.Localities, run.CreatedAt,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert run %s", run.ID)
		}

		_, err = db.Upsert(ctx, tx, db.UpsertConfig{
			Table:        "locality_boundaries",
			Columns:      boundaryColumns,
			ConflictKeys: []string{"run_id", "locality"},
		}, rows)
		return err
	})
	if err != nil {
		return err
	}

	zap.L().Info("run saved",
		zap.String("component", "store.postgres"),
		zap.String("run_id", run.ID),
		zap.Int("boundaries", len(rows)),
	)
	return nil
}

const runColumns = `id, input, crs, eps, min_samples, min_records, localities, created_at`

func (s *PostgresStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM locality_runs WHERE id = $1`, id)
	r, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: run %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", id)
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+runColumns+` FROM locality_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) ListBoundaries(ctx context.Context, runID string) ([]Boundary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT run_id, locality, clusters, members, ST_AsEWKB(geom)
		 FROM locality_boundaries WHERE run_id = $1 ORDER BY position`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list boundaries for %s", runID)
	}
	defer rows.Close()

	var out []Boundary
	for rows.Next() {
		var b Boundary
		var wkb []byte
		if err := rows.Scan(&b.RunID, &b.Locality, &b.Clusters, &b.Members, &wkb); err != nil {
			return nil, eris.Wrap(err, "postgres: scan boundary")
		}
		if b.Geometry, err = decodeEWKB(wkb); err != nil {
			return nil, eris.Wrapf(err, "postgres: boundary %q", b.Locality)
		}
		out = append(out, b)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list boundaries iterate")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*Run, error) {
	var r Run
	if err := row.Scan(&r.ID, &r.Input, &r.CRS, &r.Eps, &r.MinSamples, &r.MinRecords, &r.Localities, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
