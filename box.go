/*
 * box.go, part of godock.
 *
 * Copyright 2023 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package dock

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

//DefaultGranularity is the default edge length, in Angstrom, of the
//cells the search box is partitioned into.
const DefaultGranularity = 3.0

//Box is the axis-aligned search box, together with the geometry of its
//partition into a uniform grid of cells. It is built once and read-only
//afterwards.
type Box struct {
	Center  r3.Vec
	Span    r3.Vec //full edge lengths
	Corner0 r3.Vec //lowest corner
	Corner1 r3.Vec //highest corner
	//number of cells along each axis, and their size
	NCells   [3]int
	CellSize r3.Vec
	cellInv  r3.Vec
}

//NewBox returns a box centered at center with edge lengths size,
//partitioned into cells of roughly the given granularity.
func NewBox(center, size r3.Vec, granularity float64) (*Box, error) {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, fmt.Errorf("NewBox: non-positive box size %v", size)
	}
	if granularity <= 0 {
		return nil, fmt.Errorf("NewBox: non-positive granularity %f", granularity)
	}
	b := &Box{Center: center, Span: size}
	half := r3.Scale(0.5, size)
	b.Corner0 = r3.Sub(center, half)
	b.Corner1 = r3.Add(center, half)
	span := [3]float64{size.X, size.Y, size.Z}
	var cs [3]float64
	for i := 0; i < 3; i++ {
		n := int(span[i] / granularity)
		if n < 1 {
			n = 1
		}
		b.NCells[i] = n
		cs[i] = span[i] / float64(n)
	}
	b.CellSize = r3.Vec{X: cs[0], Y: cs[1], Z: cs[2]}
	b.cellInv = r3.Vec{X: 1 / cs[0], Y: 1 / cs[1], Z: 1 / cs[2]}
	return b, nil
}

//Contains tells whether p lies inside the box.
func (b *Box) Contains(p r3.Vec) bool {
	return p.X >= b.Corner0.X && p.X <= b.Corner1.X &&
		p.Y >= b.Corner0.Y && p.Y <= b.Corner1.Y &&
		p.Z >= b.Corner0.Z && p.Z <= b.Corner1.Z
}

//axisDist returns the distance from x to the interval [lo,hi], zero if
//x is inside it.
func axisDist(x, lo, hi float64) float64 {
	if x < lo {
		return lo - x
	}
	if x > hi {
		return x - hi
	}
	return 0
}

//projectDistSqr returns the squared distance from p to the axis-aligned
//region between corners c0 and c1, zero if p is inside.
func projectDistSqr(c0, c1, p r3.Vec) float64 {
	dx := axisDist(p.X, c0.X, c1.X)
	dy := axisDist(p.Y, c0.Y, c1.Y)
	dz := axisDist(p.Z, c0.Z, c1.Z)
	return dx*dx + dy*dy + dz*dz
}

//ProjectDistSqr returns the squared distance from p to the box.
func (b *Box) ProjectDistSqr(p r3.Vec) float64 {
	return projectDistSqr(b.Corner0, b.Corner1, p)
}

//CellCorner0 returns the lowest corner of the cell with the given
//indices. Indices one past the end give the opposite corner of the
//last cell, which the partition builder uses.
func (b *Box) CellCorner0(ix, iy, iz int) r3.Vec {
	return r3.Vec{
		X: b.Corner0.X + float64(ix)*b.CellSize.X,
		Y: b.Corner0.Y + float64(iy)*b.CellSize.Y,
		Z: b.Corner0.Z + float64(iz)*b.CellSize.Z,
	}
}

//clampCell clamps a raw cell coordinate to [0,n).
func clampCell(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

//CellIndex maps a point to the indices of its containing cell. Points
//outside the box are clamped to the nearest cell, so a query never
//fails; the per-cell candidate lists were built with the interaction
//cutoff, which keeps the clamped answer meaningful near the edges.
func (b *Box) CellIndex(p r3.Vec) (ix, iy, iz int) {
	d := r3.Sub(p, b.Corner0)
	ix = clampCell(int(d.X*b.cellInv.X), b.NCells[0])
	iy = clampCell(int(d.Y*b.cellInv.Y), b.NCells[1])
	iz = clampCell(int(d.Z*b.cellInv.Z), b.NCells[2])
	return ix, iy, iz
}
