package locality

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/locality-cli/internal/crs"
	"github.com/sells-group/locality-cli/internal/dbscan"
	"github.com/sells-group/locality-cli/internal/geometry"
	"github.com/sells-group/locality-cli/internal/model"
)

// Config configures a pipeline run.
type Config struct {
	Params      ClusterParams
	MinRecords  int    // groups smaller than this are skipped before clustering
	WorkingCRS  string // planar CRS used for centroids, clustering, and hulls
	TargetCRS   string // CRS of the output dataset
	Concurrency int    // localities processed in parallel
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Params:      ClusterParams{Eps: DefaultEps, MinSamples: DefaultMinSamples},
		MinRecords:  DefaultMinRecords,
		WorkingCRS:  crs.WebMercator,
		TargetCRS:   crs.WGS84,
		Concurrency: 1,
	}
}

// Pipeline sequences partitioning, thresholding, clustering, hull reduction,
// and assembly over every locality of a dataset.
type Pipeline struct {
	cfg       Config
	threshold Threshold
	clusterer Clusterer
	geo       Geometry
	reporter  Reporter
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithClusterer replaces the DBSCAN clusterer.
func WithClusterer(c Clusterer) Option {
	return func(p *Pipeline) { p.clusterer = c }
}

// WithGeometry replaces the go-geom geometry primitives.
func WithGeometry(g Geometry) Option {
	return func(p *Pipeline) { p.geo = g }
}

// WithReporter adds a diagnostics reporter alongside the zap reporter.
func WithReporter(r Reporter) Option {
	return func(p *Pipeline) { p.reporter = multiReporter{p.reporter, r} }
}

// New creates a Pipeline.
func New(cfg Config, opts ...Option) *Pipeline {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	p := &Pipeline{
		cfg:       cfg,
		threshold: Threshold{MinRecords: cfg.MinRecords},
		clusterer: dbscan.NewClusterer(),
		geo:       geometry.Engine{},
		reporter:  NewZapReporter(nil),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Result is the outcome of a run.
type Result struct {
	Output      *model.OutputDataset // nil when no locality qualified
	Diagnostics []Diagnostic         // one per locality, in partition order
	Summary     Summary
}

type outcome struct {
	diag   Diagnostic
	result *model.LocalityResult
}

// Run processes every locality of ds. Per-locality faults become diagnostics;
// only CRS configuration errors and context cancellation abort the run. When
// no locality qualifies, Run returns the populated Result and ErrNoResults.
func (p *Pipeline) Run(ctx context.Context, ds *model.Dataset) (*Result, error) {
	toPlanar, err := crs.NewTransformer(ds.CRS, p.cfg.WorkingCRS)
	if err != nil {
		return nil, eris.Wrap(err, "locality: working crs")
	}
	toTarget, err := crs.NewTransformer(p.cfg.WorkingCRS, p.cfg.TargetCRS)
	if err != nil {
		return nil, eris.Wrap(err, "locality: target crs")
	}

	groups := Partition(ds.Records)
	outcomes := make([]outcome, len(groups))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for i, grp := range groups {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			outcomes[i] = p.process(toPlanar, grp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "locality: run")
	}

	res := &Result{Diagnostics: make([]Diagnostic, 0, len(outcomes))}
	var planar []model.LocalityResult
	for _, o := range outcomes {
		res.Diagnostics = append(res.Diagnostics, o.diag)
		p.reporter.Locality(o.diag)
		if o.result != nil {
			planar = append(planar, *o.result)
		}
	}

	res.Summary.Localities = len(groups)
	out, err := Assemble(planar, toTarget)
	if err != nil {
		if eris.Is(err, ErrNoResults) {
			res.Summary.Empty = true
			p.reporter.Summary(res.Summary)
		}
		return res, err
	}

	res.Output = out
	res.Summary.Written = out.Localities()
	p.reporter.Summary(res.Summary)
	return res, nil
}

// process runs one locality from threshold to hulls. It never returns an
// error: every fault is folded into the diagnostic.
func (p *Pipeline) process(toPlanar *crs.Transformer, g model.LocalityGroup) (out outcome) {
	d := Diagnostic{Locality: g.Locality, Records: g.Len()}
	fail := func(err error) outcome {
		d.Outcome = OutcomeFailed
		d.Err = err
		return outcome{diag: d}
	}
	defer func() {
		if r := recover(); r != nil {
			out = fail(eris.Errorf("locality: panic processing %q: %v", g.Locality, r))
		}
	}()

	zap.L().Debug("processing locality", zap.String("locality", g.Locality), zap.Int("records", g.Len()))

	if !p.threshold.Proceed(g) {
		d.Outcome = OutcomeInsufficient
		return outcome{diag: d}
	}

	planar, err := reprojectGroup(toPlanar, g)
	if err != nil {
		return fail(err)
	}

	samples, err := Centroids(p.geo, planar)
	if err != nil {
		return fail(err)
	}

	a, err := Assign(p.clusterer, samples, p.cfg.Params)
	if eris.Is(err, ErrNoCluster) {
		d.Outcome = OutcomeNoCluster
		d.Noise = a.Noise
		return outcome{diag: d}
	}
	if err != nil {
		return fail(err)
	}

	hulls, err := Hulls(p.geo, planar, a)
	if err != nil {
		return fail(err)
	}

	d.Outcome = OutcomeProcessed
	d.Clusters = len(hulls)
	d.Noise = a.Noise
	return outcome{
		diag:   d,
		result: &model.LocalityResult{Locality: g.Locality, Hulls: hulls},
	}
}

// reprojectGroup returns a copy of g with geometries in the working CRS.
func reprojectGroup(tr *crs.Transformer, g model.LocalityGroup) (model.LocalityGroup, error) {
	out := model.LocalityGroup{Locality: g.Locality, Records: make([]model.Record, len(g.Records))}
	for i, r := range g.Records {
		pg, err := tr.Transform(r.Geometry)
		if err != nil {
			return model.LocalityGroup{}, eris.Wrapf(err, "locality: reproject record %d", r.Index)
		}
		r.Geometry = pg
		out.Records[i] = r
	}
	return out, nil
}
