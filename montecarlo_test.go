package dock

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

//bowlEvaluator is a smooth quadratic energy over position and one
//torsion, with a known minimum. The orientation is inert. It stands in
//for the docking energy model wherever the tests need guaranteed
//convergence.
type bowlEvaluator struct {
	min  r3.Vec
	tmin float64

	mu        sync.Mutex
	inserted  []float64
	unitDrift float64
}

func (b *bowlEvaluator) NumActiveTorsions() int { return 1 }
func (b *bowlEvaluator) NumHeavyAtoms() int     { return 2 }

func (b *bowlEvaluator) Evaluate(c *Conformation, bound float64) (e, f float64, g Change, ok bool) {
	d := r3.Sub(c.Position, b.min)
	dt := c.Torsions[0] - b.tmin
	e = r3.Norm2(d) + dt*dt
	if e >= bound {
		return e, e, nil, false
	}
	g = NewChange(1)
	g[0], g[1], g[2] = 2*d.X, 2*d.Y, 2*d.Z
	g[6] = 2 * dt
	return e, e, g, true
}

func (b *bowlEvaluator) ComposeResult(e, f float64, c *Conformation) *Result {
	b.mu.Lock()
	b.inserted = append(b.inserted, e)
	if drift := math.Abs(quat.Abs(c.Orientation) - 1); drift > b.unitDrift {
		b.unitDrift = drift
	}
	b.mu.Unlock()
	return &Result{E: e, F: f, Heavy: []r3.Vec{
		c.Position,
		r3.Add(c.Position, r3.Vec{X: 1}),
	}}
}

func bowlBox(t *testing.T) *Box {
	t.Helper()
	b, err := NewBox(r3.Vec{}, r3.Vec{X: 4, Y: 4, Z: 4}, 3)
	require.NoError(t, err)
	return b
}

func TestBFGSBowl(t *testing.T) {
	ev := &bowlEvaluator{min: r3.Vec{X: 1, Y: 2, Z: -1}, tmin: 0.5}
	c := NewConformation(1)
	c.Position = r3.Vec{X: -2, Y: 0, Z: 3}
	c.Torsions[0] = -0.7
	e, f, g, ok := ev.Evaluate(c, math.Inf(1))
	require.True(t, ok)
	c, e, f = bfgs(ev, c, e, f, g)
	//a quadratic bowl is minimized to rounding error
	require.Less(t, e, 1e-12)
	require.Equal(t, e, f)
	require.InDelta(t, 1.0, c.Position.X, 1e-6)
	require.InDelta(t, 2.0, c.Position.Y, 1e-6)
	require.InDelta(t, -1.0, c.Position.Z, 1e-6)
	require.InDelta(t, 0.5, c.Torsions[0], 1e-6)
}

//wallEvaluator rejects every conformation, so no step can satisfy the
//sufficient-decrease rule.
type wallEvaluator struct {
	calls int
}

func (w *wallEvaluator) NumActiveTorsions() int { return 0 }
func (w *wallEvaluator) NumHeavyAtoms() int     { return 1 }

func (w *wallEvaluator) Evaluate(c *Conformation, bound float64) (e, f float64, g Change, ok bool) {
	w.calls++
	return 1e6, 1e6, nil, false
}

func (w *wallEvaluator) ComposeResult(e, f float64, c *Conformation) *Result {
	return &Result{E: e, F: f, Heavy: []r3.Vec{c.Position}}
}

func TestLineSearchTermination(t *testing.T) {
	ev := &wallEvaluator{}
	c := NewConformation(0)
	g := NewChange(0)
	g[0] = 1
	rc, re, rf := bfgs(ev, c, 2.0, 1.5, g)
	//every step size is tried once, then the incumbent comes back
	require.Equal(t, numAlphaTrials, ev.calls)
	require.Equal(t, c, rc)
	require.Equal(t, 2.0, re)
	require.Equal(t, 1.5, rf)
}

func TestRandomConformation(t *testing.T) {
	b := bowlBox(t)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		c := randomConformation(rng, b, 3)
		require.Len(t, c.Torsions, 3)
		require.InDelta(t, 1.0, quat.Abs(c.Orientation), 1e-12)
		//the position stays within one span of the center
		require.LessOrEqual(t, math.Abs(c.Position.X), b.Span.X)
		require.LessOrEqual(t, math.Abs(c.Position.Y), b.Span.Y)
		require.LessOrEqual(t, math.Abs(c.Position.Z), b.Span.Z)
		for _, tor := range c.Torsions {
			require.LessOrEqual(t, math.Abs(tor), 1.0)
		}
	}
}

func TestMonteCarloBowl(t *testing.T) {
	ev := &bowlEvaluator{min: r3.Vec{X: 1, Y: 2, Z: -1}, tmin: 0.5}
	rs := NewResultSet(10)
	MonteCarlo(rs, ev, bowlBox(t), 42)
	require.Greater(t, rs.Len(), 0)
	require.Less(t, rs.Best().E, 1e-3)
	//only strict improvements are accepted, so the inserted energies
	//decrease after the unbounded seed pose
	for i := 1; i < len(ev.inserted); i++ {
		require.Less(t, ev.inserted[i], ev.inserted[i-1])
	}
	//orientation renormalization keeps the drift negligible
	require.Less(t, ev.unitDrift, 1e-5)
}
