package locality

import (
	"sync"

	"go.uber.org/zap"
)

// Outcome classifies what happened to a locality.
type Outcome string

const (
	OutcomeProcessed    Outcome = "processed"
	OutcomeInsufficient Outcome = "insufficient_points"
	OutcomeNoCluster    Outcome = "no_valid_cluster"
	OutcomeFailed       Outcome = "failed"
)

// Diagnostic records the outcome for one locality.
type Diagnostic struct {
	Locality string
	Outcome  Outcome
	Records  int
	Clusters int
	Noise    int
	Err      error
}

// Summary closes a run.
type Summary struct {
	Localities int      // localities seen
	Written    []string // localities in the output, in order
	Empty      bool     // no locality qualified
}

// Reporter receives per-locality diagnostics and the run summary.
type Reporter interface {
	Locality(d Diagnostic)
	Summary(s Summary)
}

// ZapReporter logs diagnostics through zap.
type ZapReporter struct {
	log *zap.Logger
}

// NewZapReporter returns a reporter writing to log, or the global logger if nil.
func NewZapReporter(log *zap.Logger) *ZapReporter {
	if log == nil {
		log = zap.L()
	}
	return &ZapReporter{log: log.With(zap.String("component", "locality"))}
}

// Locality implements Reporter.
func (r *ZapReporter) Locality(d Diagnostic) {
	fields := []zap.Field{
		zap.String("locality", d.Locality),
		zap.String("outcome", string(d.Outcome)),
		zap.Int("records", d.Records),
	}

	switch d.Outcome {
	case OutcomeProcessed:
		r.log.Info("locality processed", append(fields,
			zap.Int("clusters", d.Clusters),
			zap.Int("noise", d.Noise),
		)...)
	case OutcomeInsufficient:
		r.log.Info("locality skipped: not enough points", fields...)
	case OutcomeNoCluster:
		r.log.Info("locality skipped: no valid cluster", append(fields, zap.Int("noise", d.Noise))...)
	case OutcomeFailed:
		r.log.Warn("locality failed", append(fields, zap.Error(d.Err))...)
	}
}

// Summary implements Reporter.
func (r *ZapReporter) Summary(s Summary) {
	if s.Empty {
		r.log.Warn("no locality produced a boundary", zap.Int("localities", s.Localities))
		return
	}
	r.log.Info("localities written",
		zap.Int("localities", s.Localities),
		zap.Int("written", len(s.Written)),
		zap.Strings("names", s.Written),
	)
}

// Recorder keeps every diagnostic in memory.
type Recorder struct {
	mu          sync.Mutex
	Diagnostics []Diagnostic
	Summaries   []Summary
}

// Locality implements Reporter.
func (r *Recorder) Locality(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Diagnostics = append(r.Diagnostics, d)
}

// Summary implements Reporter.
func (r *Recorder) Summary(s Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Summaries = append(r.Summaries, s)
}

// multiReporter fans out to several reporters.
type multiReporter []Reporter

func (m multiReporter) Locality(d Diagnostic) {
	for _, r := range m {
		r.Locality(d)
	}
}

func (m multiReporter) Summary(s Summary) {
	for _, r := range m {
		r.Summary(s)
	}
}
