package model

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// NoiseLabel is the raw label value clustering primitives use for noise.
const NoiseLabel = -1

// ClusterLabel is the cluster assignment of a single point sample. The zero
// value is noise; members carry the cluster id reported by the primitive.
type ClusterLabel struct {
	id     int
	member bool
}

// Noise returns the label for a point outside every cluster.
func Noise() ClusterLabel { return ClusterLabel{} }

// Member returns the label for a point in cluster id.
func Member(id int) ClusterLabel { return ClusterLabel{id: id, member: true} }

// LabelFromRaw converts a primitive's integer label, where -1 means noise.
// Any other negative value is rejected.
func LabelFromRaw(raw int) (ClusterLabel, error) {
	switch {
	case raw == NoiseLabel:
		return Noise(), nil
	case raw < 0:
		return ClusterLabel{}, eris.Errorf("model: invalid cluster label %d", raw)
	default:
		return Member(raw), nil
	}
}

// IsNoise reports whether the label marks noise.
func (l ClusterLabel) IsNoise() bool { return !l.member }

// ID returns the cluster id and true, or 0 and false for noise.
func (l ClusterLabel) ID() (int, bool) { return l.id, l.member }

func (l ClusterLabel) String() string {
	if !l.member {
		return "noise"
	}
	return fmt.Sprintf("cluster(%d)", l.id)
}
