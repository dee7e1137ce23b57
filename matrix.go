/*
 * matrix.go, part of godock.
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

//triIndex returns the position of element (i,j), i<=j, of a symmetric
//matrix packed by upper-triangular columns. It panics on i>j: writes
//must go through the canonical half only, so a mirrored write is a
//programming error.
func triIndex(i, j int) int {
	if i > j {
		panic("triIndex: i>j, only the upper triangle is stored")
	}
	return i + j*(j+1)/2
}

//triIndexMirror is the permissive version of triIndex: it accepts the
//indices in either order.
func triIndexMirror(i, j int) int {
	if i > j {
		i, j = j, i
	}
	return i + j*(j+1)/2
}

//Triangular is an n x n symmetric matrix that materializes only its
//upper triangle, in a contiguous buffer. It holds the inverse-Hessian
//approximation of the BFGS optimizer, where the rank-2 update touches
//each unordered index pair exactly once.
type Triangular struct {
	n    int
	data []float64
}

//NewTriangular returns an n x n symmetric matrix filled with zeros.
func NewTriangular(n int) *Triangular {
	if n < 1 {
		panic("NewTriangular: non-positive dimension")
	}
	return &Triangular{n: n, data: make([]float64, n*(n+1)/2)}
}

//N returns the dimension of the matrix.
func (m *Triangular) N() int {
	return m.n
}

//At returns the element (i,j). Either triangle may be asked for.
func (m *Triangular) At(i, j int) float64 {
	return m.data[triIndexMirror(i, j)]
}

//Set writes v to the element (i,j), which must be in the upper
//triangle (i<=j).
func (m *Triangular) Set(i, j int, v float64) {
	m.data[triIndex(i, j)] = v
}

//Add adds v to the element (i,j), which must be in the upper triangle.
func (m *Triangular) Add(i, j int, v float64) {
	m.data[triIndex(i, j)] += v
}

//SetIdentity resets the matrix to the identity.
func (m *Triangular) SetIdentity() {
	for i := range m.data {
		m.data[i] = 0
	}
	for i := 0; i < m.n; i++ {
		m.data[triIndex(i, i)] = 1
	}
}

//MulVecNeg puts -m*v into dst. dst and v must have length n.
func (m *Triangular) MulVecNeg(dst, v []float64) {
	if len(dst) != m.n || len(v) != m.n {
		panic("MulVecNeg: dimension mismatch")
	}
	for i := 0; i < m.n; i++ {
		sum := 0.0
		for j := 0; j < m.n; j++ {
			sum += m.data[triIndexMirror(i, j)] * v[j]
		}
		dst[i] = -sum
	}
}
