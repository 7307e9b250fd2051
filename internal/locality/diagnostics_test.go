package locality

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapReporter_Outcomes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := NewZapReporter(zap.New(core))

	r.Locality(Diagnostic{Locality: "Centro", Outcome: OutcomeProcessed, Records: 12, Clusters: 1})
	r.Locality(Diagnostic{Locality: "Vila", Outcome: OutcomeInsufficient, Records: 3})
	r.Locality(Diagnostic{Locality: "Rural", Outcome: OutcomeNoCluster, Records: 12, Noise: 12})
	r.Locality(Diagnostic{Locality: "Quebrado", Outcome: OutcomeFailed, Err: eris.New("boom")})

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "locality processed", entries[0].Message)
	assert.Equal(t, "locality skipped: not enough points", entries[1].Message)
	assert.Equal(t, "locality skipped: no valid cluster", entries[2].Message)
	assert.Equal(t, zap.WarnLevel, entries[3].Level)

	fields := entries[2].ContextMap()
	assert.Equal(t, "Rural", fields["locality"])
	assert.Equal(t, "locality", fields["component"])
	assert.EqualValues(t, 12, fields["noise"])
}

func TestZapReporter_Summary(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := NewZapReporter(zap.New(core))

	r.Summary(Summary{Localities: 3, Written: []string{"Centro"}})
	r.Summary(Summary{Localities: 2, Empty: true})

	require.Equal(t, 1, logs.FilterMessage("localities written").Len())
	require.Equal(t, 1, logs.FilterMessage("no locality produced a boundary").Len())
}

func TestMultiReporter_FansOut(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	m := multiReporter{a, b}

	m.Locality(Diagnostic{Locality: "Centro"})
	m.Summary(Summary{Localities: 1})

	assert.Len(t, a.Diagnostics, 1)
	assert.Len(t, b.Summaries, 1)
}
