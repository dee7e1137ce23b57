package dock

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

//poseAt builds a single-heavy-atom pose, enough to exercise clustering.
func poseAt(e, x float64) *Result {
	return &Result{E: e, Heavy: []r3.Vec{{X: x}}}
}

func TestDistSqr(t *testing.T) {
	a := []r3.Vec{{X: 1}, {Y: 2}}
	b := []r3.Vec{{X: 0}, {Y: 0}}
	require.InDelta(t, 1.0+4.0, DistSqr(a, b), 1e-14)
	require.Panics(t, func() { DistSqr(a, b[:1]) })
}

func TestResultSetOrdering(t *testing.T) {
	s := NewResultSet(5)
	//far-apart poses so each founds its own cluster
	s.Insert(poseAt(3, 0), 1)
	s.Insert(poseAt(1, 10), 1)
	s.Insert(poseAt(2, 20), 1)
	require.Equal(t, 3, s.Len())
	rs := s.Results()
	require.Equal(t, 1.0, rs[0].E)
	require.Equal(t, 2.0, rs[1].E)
	require.Equal(t, 3.0, rs[2].E)
	require.Equal(t, rs[0], s.Best())
}

func TestResultSetClustering(t *testing.T) {
	s := NewResultSet(5)
	s.Insert(poseAt(2, 0), 1)
	//same cluster, worse energy: rejected
	s.Insert(poseAt(3, 0.1), 1)
	require.Equal(t, 1, s.Len())
	require.Equal(t, 2.0, s.Best().E)
	//same cluster, better energy: replaces
	s.Insert(poseAt(1, 0.2), 1)
	require.Equal(t, 1, s.Len())
	require.Equal(t, 1.0, s.Best().E)
	require.Equal(t, 0.2, s.Best().Heavy[0].X)
}

func TestResultSetCapacity(t *testing.T) {
	s := NewResultSet(2)
	s.Insert(poseAt(1, 0), 1)
	s.Insert(poseAt(2, 10), 1)
	//full and worse than the current worst: rejected
	s.Insert(poseAt(5, 20), 1)
	require.Equal(t, 2, s.Len())
	require.Equal(t, 2.0, s.Results()[1].E)
	//full but better than the worst: replaces it
	s.Insert(poseAt(1.5, 30), 1)
	require.Equal(t, 2, s.Len())
	require.Equal(t, 1.0, s.Results()[0].E)
	require.Equal(t, 1.5, s.Results()[1].E)
	require.Panics(t, func() { NewResultSet(0) })
}

func TestResultSetClustersBeforeCapacity(t *testing.T) {
	//a pose near an existing cluster never displaces an unrelated pose,
	//even when the set is full
	s := NewResultSet(2)
	s.Insert(poseAt(1, 0), 1)
	s.Insert(poseAt(2, 10), 1)
	s.Insert(poseAt(3, 0.1), 1) //clusters with the best, worse energy
	require.Equal(t, 2, s.Len())
	require.Equal(t, 2.0, s.Results()[1].E)
}
