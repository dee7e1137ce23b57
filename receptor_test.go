package dock

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func testBox(t *testing.T) *Box {
	t.Helper()
	b, err := NewBox(r3.Vec{X: 2, Y: 2, Z: 0}, r3.Vec{X: 8, Y: 8, Z: 8}, 3)
	require.NoError(t, err)
	return b
}

func TestReadReceptor(t *testing.T) {
	rec, err := ReadReceptor("test/receptor.pdbqt", testBox(t))
	require.NoError(t, err)
	//the Si record is unknown and the non-polar hydrogen is dropped
	require.Len(t, rec.Atoms, 7)
	names := make([]string, len(rec.Atoms))
	for i := range rec.Atoms {
		names[i] = rec.Atoms[i].Name
	}
	require.Equal(t, []string{"N", "C", "HD1", "OG", "CB", "CD", "CF"}, names)
	//the polar hydrogen promoted its bonded nitrogen to a donor
	require.Equal(t, XSNitrogenDonor, rec.Atoms[0].XS)
	//the backbone carbon is bonded to the nitrogen, so it is not hydrophobic
	require.Equal(t, XSCarbonPolar, rec.Atoms[1].XS)
	require.Equal(t, -1, rec.Atoms[2].XS)
	require.Equal(t, XSOxygenAcceptor, rec.Atoms[3].XS)
	require.Equal(t, XSCarbonPolar, rec.Atoms[4].XS)
	//CD sits alone, nothing strips its hydrophobic character
	require.Equal(t, XSCarbonHydrophobic, rec.Atoms[5].XS)
	require.Equal(t, XSCarbonHydrophobic, rec.Atoms[6].XS)
}

func TestReceptorPartition(t *testing.T) {
	b := testBox(t)
	rec, err := ReadReceptor("test/receptor.pdbqt", b)
	require.NoError(t, err)
	inSomeCell := make(map[int]bool)
	for x := 0; x < b.NCells[0]; x++ {
		for y := 0; y < b.NCells[1]; y++ {
			for z := 0; z < b.NCells[2]; z++ {
				for _, i := range rec.cells[rec.cellOffset(x, y, z)] {
					inSomeCell[i] = true
				}
			}
		}
	}
	//hydrogens never score and the far carbon is out of reach of the box
	require.False(t, inSomeCell[2])
	require.False(t, inSomeCell[6])
	//every heavy atom within the cutoff of a probe point must be among
	//the candidates of the probe's cell
	for px := -3.9; px <= 6; px += 1.7 {
		for py := -3.9; py <= 6; py += 1.7 {
			for pz := -3.9; pz <= 4; pz += 1.7 {
				p := r3.Vec{X: px, Y: py, Z: pz}
				if !b.Contains(p) {
					continue
				}
				near := make(map[int]bool)
				for _, i := range rec.Near(p) {
					near[i] = true
				}
				for i := range rec.Atoms {
					if rec.Atoms[i].IsHydrogen() {
						continue
					}
					if r3.Norm(r3.Sub(p, rec.Atoms[i].Coord)) < Cutoff {
						require.True(t, near[i], "atom %d missing near %v", i, p)
					}
				}
			}
		}
	}
}

func TestReadReceptorErrors(t *testing.T) {
	_, err := ReadReceptor("test/nonexistent.pdbqt", testBox(t))
	require.Error(t, err)
}
