package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelFromRaw(t *testing.T) {
	l, err := LabelFromRaw(-1)
	require.NoError(t, err)
	assert.True(t, l.IsNoise())
	_, ok := l.ID()
	assert.False(t, ok)

	l, err = LabelFromRaw(0)
	require.NoError(t, err)
	assert.False(t, l.IsNoise())
	id, ok := l.ID()
	assert.True(t, ok)
	assert.Equal(t, 0, id)

	_, err = LabelFromRaw(-7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cluster label")
}

func TestClusterLabel_ZeroValueIsNoise(t *testing.T) {
	var l ClusterLabel
	assert.True(t, l.IsNoise())
	assert.Equal(t, Noise(), l)
	assert.NotEqual(t, Member(0), l)
}

func TestClusterLabel_String(t *testing.T) {
	assert.Equal(t, "noise", Noise().String())
	assert.Equal(t, "cluster(3)", Member(3).String())
}

func TestOutputDataset_Localities(t *testing.T) {
	d := &OutputDataset{Results: []LocalityResult{{Locality: "Centro"}, {Locality: "Jardim"}}}
	assert.Equal(t, []string{"Centro", "Jardim"}, d.Localities())

	assert.Empty(t, (&OutputDataset{}).Localities())
}
