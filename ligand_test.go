package dock

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func testLigand(t *testing.T) *Ligand {
	t.Helper()
	l, err := ReadLigand("test/ligand.pdbqt")
	require.NoError(t, err)
	return l
}

func TestReadLigand(t *testing.T) {
	l := testLigand(t)
	require.Equal(t, 4, l.NumHeavyAtoms())
	require.Len(t, l.Hydrogens, 1)
	require.Len(t, l.Frames, 2)
	require.Equal(t, 1, l.NumActiveTorsions())
	require.Equal(t, 1, l.TorsDof)
	require.InDelta(t, 1+flexWeight, l.flexPenalty, 1e-12)
	//frame geometry: the branch origin is the O3 atom, the axis points
	//from C2 to O3
	fr := &l.Frames[1]
	require.Equal(t, 0, fr.parent)
	require.Equal(t, 1, fr.rotorX)
	require.Equal(t, 2, fr.rotorY)
	require.True(t, fr.active)
	require.InDelta(t, 3.0, fr.yy.X, 1e-12)
	require.InDelta(t, 1.0, fr.axis.X, 1e-12)
	//all heavy pairs here are in the same frame or across one rotor
	require.Empty(t, l.pairs)
}

func TestLigandTyping(t *testing.T) {
	l := testLigand(t)
	//C1 keeps its hydrophobic character
	require.Equal(t, XSCarbonHydrophobic, l.HeavyAtoms[0].XS)
	//C2 is bonded to the branch oxygen across the rotatable bond
	require.Equal(t, XSCarbonPolar, l.HeavyAtoms[1].XS)
	//O3 accepts, and donates through its polar hydrogen
	require.Equal(t, XSOxygenDonorAcceptor, l.HeavyAtoms[2].XS)
	//C4 is bonded to O3 within the branch
	require.Equal(t, XSCarbonPolar, l.HeavyAtoms[3].XS)
}

func TestLigandKinematicsIdentity(t *testing.T) {
	l := testLigand(t)
	ev := &gridEvaluator{lig: l}
	c := NewConformation(l.NumActiveTorsions())
	r := ev.ComposeResult(0, 0, c)
	//the identity conformation reproduces the file coordinates
	want := []r3.Vec{{}, {X: 1.5}, {X: 3}, {X: 3.6, Y: 1.3}}
	for i, w := range want {
		require.InDelta(t, w.X, r.Heavy[i].X, 1e-12)
		require.InDelta(t, w.Y, r.Heavy[i].Y, 1e-12)
		require.InDelta(t, w.Z, r.Heavy[i].Z, 1e-12)
	}
	require.InDelta(t, 3.5, r.Hydrogens[0].X, 1e-12)
	require.InDelta(t, -0.8, r.Hydrogens[0].Y, 1e-12)
}

func TestLigandKinematicsTorsion(t *testing.T) {
	l := testLigand(t)
	ev := &gridEvaluator{lig: l}
	c := NewConformation(1)
	c.Torsions[0] = math.Pi //half turn around the C2->O3 axis
	r := ev.ComposeResult(0, 0, c)
	//the root frame does not move
	require.InDelta(t, 1.5, r.Heavy[1].X, 1e-12)
	//O3 sits on the axis, C4 and H5 flip across it
	require.InDelta(t, 3.0, r.Heavy[2].X, 1e-12)
	require.InDelta(t, 0.0, r.Heavy[2].Y, 1e-12)
	require.InDelta(t, 3.6, r.Heavy[3].X, 1e-12)
	require.InDelta(t, -1.3, r.Heavy[3].Y, 1e-12)
	require.InDelta(t, 0.8, r.Hydrogens[0].Y, 1e-12)
}

func TestLigandKinematicsTranslation(t *testing.T) {
	l := testLigand(t)
	ev := &gridEvaluator{lig: l}
	c := NewConformation(1)
	c.Position = r3.Vec{X: 1, Y: 2, Z: 3}
	r := ev.ComposeResult(0, 0, c)
	require.InDelta(t, 1.0, r.Heavy[0].X, 1e-12)
	require.InDelta(t, 2.0, r.Heavy[0].Y, 1e-12)
	require.InDelta(t, 3.0, r.Heavy[0].Z, 1e-12)
	require.InDelta(t, 4.6, r.Heavy[3].X, 1e-12)
	require.InDelta(t, 3.3, r.Heavy[3].Y, 1e-12)
}

func TestReadLigandGzip(t *testing.T) {
	l, err := ReadLigand("test/ligand.pdbqt.gz")
	require.NoError(t, err)
	require.Equal(t, 4, l.NumHeavyAtoms())
	require.Equal(t, 1, l.NumActiveTorsions())
}

//rigidAtomEvaluator builds a one-atom ligand against a one-atom receptor
//so the gradient can be checked against the table derivative directly.
func rigidAtomEvaluator(t *testing.T, sf *ScoringFunction) (*gridEvaluator, int) {
	t.Helper()
	b, err := NewBox(r3.Vec{X: 1.25}, r3.Vec{X: 6, Y: 6, Z: 6}, 3)
	require.NoError(t, err)
	lig := &Ligand{
		Frames:      []frame{{parent: -1, rotorY: 0, tor: -1}},
		HeavyAtoms:  []Atom{{Serial: 1, Name: "C1", AD: adC, XS: XSCarbonHydrophobic}},
		heavyFrame:  []int{0},
		flexPenalty: 1,
	}
	rec := &Receptor{
		Atoms: []Atom{{Serial: 1, Name: "C", AD: adC, XS: XSCarbonHydrophobic,
			Coord: r3.Vec{X: 2.5}}},
		Box: b,
	}
	rec.buildPartition()
	tpi := TypePairIndex(XSCarbonHydrophobic, XSCarbonHydrophobic)
	return &gridEvaluator{lig: lig, sf: sf, rec: rec}, tpi
}

func TestEvaluateGradient(t *testing.T) {
	sf := testScoringFunction(t)
	ev, tpi := rigidAtomEvaluator(t, sf)
	c := NewConformation(0)
	e, f, g, ok := ev.Evaluate(c, math.Inf(1))
	require.True(t, ok)
	require.Equal(t, e, f)
	require.Len(t, g, 6)
	wantE, dor := sf.Evaluate(tpi, 6.25)
	require.InDelta(t, wantE, e, 1e-12)
	//force = dor * (ligand - receptor); the atom sits on the frame
	//origin, so the torque is zero
	require.InDelta(t, dor*-2.5, g[0], 1e-12)
	for i := 1; i < 6; i++ {
		require.InDelta(t, 0.0, g[i], 1e-12)
	}
}

func TestEvaluateBound(t *testing.T) {
	sf := testScoringFunction(t)
	ev, _ := rigidAtomEvaluator(t, sf)
	c := NewConformation(0)
	e, _, g, ok := ev.Evaluate(c, math.Inf(1))
	require.True(t, ok)
	//an unreachable bound stops the evaluation after the energy
	e2, _, g2, ok2 := ev.Evaluate(c, e-1)
	require.False(t, ok2)
	require.Equal(t, e, e2)
	require.Nil(t, g2)
	require.NotNil(t, g)
}

func TestReadLigandErrors(t *testing.T) {
	_, err := ReadLigand("test/nonexistent.pdbqt")
	require.Error(t, err)
	_, err = ReadLigand("test/receptor.pdbqt") //atoms outside ROOT
	require.Error(t, err)
}
