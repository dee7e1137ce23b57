/*
 * conformation.go, part of godock.
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
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

//unitTol is how far from 1 the norm of an orientation quaternion may
//drift before consumption points treat it as a programming error.
const unitTol = 1e-3

//Conformation is a complete pose of the ligand: the position of its
//root frame, its rigid-body orientation, and one angle per active
//torsion.
type Conformation struct {
	Position    r3.Vec
	Orientation quat.Number
	Torsions    []float64
}

//NewConformation returns a conformation at the origin with identity
//orientation and the given number of zeroed torsions.
func NewConformation(numActiveTorsions int) *Conformation {
	return &Conformation{
		Orientation: quat.Number{Real: 1},
		Torsions:    make([]float64, numActiveTorsions),
	}
}

//Clone returns a deep copy of the conformation.
func (c *Conformation) Clone() *Conformation {
	n := &Conformation{Position: c.Position, Orientation: c.Orientation}
	n.Torsions = make([]float64, len(c.Torsions))
	copy(n.Torsions, c.Torsions)
	return n
}

//Change is a tangent-space vector over the degrees of freedom of a
//conformation: 3 translational values, 3 rotational (axis-angle, not
//quaternion components), then one value per active torsion. It serves
//as gradient, descent direction and perturbation alike.
type Change []float64

//NewChange returns a zeroed change for the given torsion count.
func NewChange(numActiveTorsions int) Change {
	return make(Change, 6+numActiveTorsions)
}

//checkUnit panics if q is not a unit quaternion. Orientations are kept
//normalized by construction, so a violation here is a bug, not input.
func checkUnit(q quat.Number) {
	if math.Abs(quat.Abs(q)-1) > unitTol {
		panic("orientation quaternion is not normalized")
	}
}

//normalize returns q scaled to unit norm.
func normalize(q quat.Number) quat.Number {
	return quat.Scale(1/quat.Abs(q), q)
}

//rotationQuat returns the unit quaternion rotating by the angle |v|
//around the axis v. A zero tangent gives the identity.
func rotationQuat(v r3.Vec) quat.Number {
	theta := r3.Norm(v)
	if theta < 1e-12 {
		return quat.Number{Real: 1}
	}
	s, c := math.Sincos(0.5 * theta)
	axis := r3.Scale(s/theta, v)
	return quat.Number{Real: c, Imag: axis.X, Jmag: axis.Y, Kmag: axis.Z}
}

//rotate applies the rotation represented by the unit quaternion q to v.
func rotate(q quat.Number, v r3.Vec) r3.Vec {
	return r3.Rotation(q).Rotate(v)
}

//Step puts c + alpha*p into dst. The translational part adds directly,
//the rotational part composes an axis-angle quaternion onto the current
//orientation (a group operation, not an addition), and each torsion
//adds its scalar. The composed orientation is renormalized to bound
//floating-point drift.
func (c *Conformation) Step(p Change, alpha float64, dst *Conformation) {
	if len(p) != 6+len(c.Torsions) || len(dst.Torsions) != len(c.Torsions) {
		panic("Conformation.Step: dimension mismatch")
	}
	checkUnit(c.Orientation)
	dst.Position = r3.Add(c.Position, r3.Scale(alpha, r3.Vec{X: p[0], Y: p[1], Z: p[2]}))
	rot := rotationQuat(r3.Scale(alpha, r3.Vec{X: p[3], Y: p[4], Z: p[5]}))
	dst.Orientation = normalize(quat.Mul(rot, c.Orientation))
	if len(c.Torsions) > 0 {
		floats.AddScaledTo(dst.Torsions, c.Torsions, alpha, p[6:])
	}
}
