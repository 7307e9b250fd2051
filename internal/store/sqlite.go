package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	_ "modernc.org/sqlite"

	"github.com/sells-group/locality-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Boundaries are kept
// as GeoJSON text with their bounding box in separate columns.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS locality_runs (
	id          TEXT PRIMARY KEY,
	input       TEXT NOT NULL,
	crs         TEXT NOT NULL,
	eps         REAL NOT NULL,
	min_samples INTEGER NOT NULL,
	min_records INTEGER NOT NULL,
	localities  INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS locality_boundaries (
	run_id   TEXT NOT NULL REFERENCES locality_runs(id) ON DELETE CASCADE,
	locality TEXT NOT NULL,
	position INTEGER NOT NULL,
	clusters INTEGER NOT NULL,
	members  INTEGER NOT NULL,
	geojson  TEXT NOT NULL,
	min_x    REAL NOT NULL,
	min_y    REAL NOT NULL,
	max_x    REAL NOT NULL,
	max_y    REAL NOT NULL,
	PRIMARY KEY (run_id, locality)
);

CREATE INDEX IF NOT EXISTS idx_locality_runs_created_at ON locality_runs(created_at);
CREATE INDEX IF NOT EXISTS idx_locality_boundaries_bbox ON locality_boundaries(min_x, max_x, min_y, max_y);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run, results []model.LocalityResult) error {
	bs, err := boundaries(run, results)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO locality_runs (id, input, crs, eps, min_samples, min_records, localities, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET localities = excluded.localities`,
		run.ID, run.Input, run.CRS, run.Eps, run.MinSamples, run.MinRecords, run.Localities, run.CreatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert run %s", run.ID)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO locality_boundaries (run_id, locality, position, clusters, members, geojson, min_x, min_y, max_x, max_y)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (run_id, locality) DO UPDATE SET
		   position = excluded.position, clusters = excluded.clusters, members = excluded.members,
		   geojson = excluded.geojson, min_x = excluded.min_x, min_y = excluded.min_y,
		   max_x = excluded.max_x, max_y = excluded.max_y`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare boundary insert")
	}
	defer stmt.Close() //nolint:errcheck

	for i, b := range bs {
		data, err := geojson.Marshal(b.Geometry)
		if err != nil {
			return eris.Wrapf(err, "sqlite: encode boundary %q", b.Locality)
		}
		bounds := b.Geometry.Bounds()
		if _, err := stmt.ExecContext(ctx,
			b.RunID, b.Locality, i, b.Clusters, b.Members, string(data),
			bounds.Min(0), bounds.Min(1), bounds.Max(0), bounds.Max(1),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert boundary %q", b.Locality)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

const sqliteRunQuery = `SELECT id, input, crs, eps, min_samples, min_records, localities, created_at FROM locality_runs`

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, sqliteRunQuery+` WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: run %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", id)
	}
	return r, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, sqliteRunQuery+` ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) ListBoundaries(ctx context.Context, runID string) ([]Boundary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, locality, clusters, members, geojson
		 FROM locality_boundaries WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list boundaries for %s", runID)
	}
	defer rows.Close() //nolint:errcheck

	var out []Boundary
	for rows.Next() {
		var b Boundary
		var data string
		if err := rows.Scan(&b.RunID, &b.Locality, &b.Clusters, &b.Members, &data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan boundary")
		}
		var g geom.T
		if err := geojson.Unmarshal([]byte(data), &g); err != nil {
			return nil, eris.Wrapf(err, "sqlite: decode boundary %q", b.Locality)
		}
		mp, ok := g.(*geom.MultiPolygon)
		if !ok {
			return nil, eris.Errorf("sqlite: boundary %q is %T, not MultiPolygon", b.Locality, g)
		}
		b.Geometry = mp
		out = append(out, b)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list boundaries iterate")
}
