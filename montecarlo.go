/*
 * montecarlo.go, part of godock.
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
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	//numMCIterations is the number of Monte Carlo steps of one task.
	numMCIterations = 50
	//numAlphaTrials bounds the line search: step sizes 1, 0.1, down to
	//1e-4, shrinking by alphaShrink between trials.
	numAlphaTrials = 5
	alphaShrink    = 0.1
	//Wolfe condition constants: sufficient decrease and curvature.
	armijoC1    = 0.0001
	curvatureC2 = 0.9
	//energyBoundPerAtom caps the acceptable free energy of a
	//conformation at energyBoundPerAtom times the heavy atom count.
	energyBoundPerAtom = 40.0
	//rmsdPerAtom is the clustering threshold: poses within an RMSD of
	//2 A (so 4 A^2 of summed squared deviation per heavy atom) share a
	//cluster.
	rmsdPerAtom = 4.0
)

//Evaluator is the energy model the search optimizes. Evaluate must be
//deterministic, and must report ok=false, without a gradient, when the
//energy of c is not below bound; the energy itself is always returned.
//Implementations are read-only during a search and may be shared by
//concurrent tasks.
type Evaluator interface {
	NumActiveTorsions() int
	NumHeavyAtoms() int
	Evaluate(c *Conformation, bound float64) (e, f float64, g Change, ok bool)
	ComposeResult(e, f float64, c *Conformation) *Result
}

//bfgs runs a BFGS quasi-Newton descent from c1, whose energy e1 and
//gradient g1 the caller already evaluated. Each iteration computes the
//descent direction from the inverse-Hessian approximation, line-searches
//a step satisfying the Wolfe conditions, and applies the rank-2 update.
//It returns the last accepted conformation and its energies when the
//line search fails. c1 and g1 are consumed.
func bfgs(ev Evaluator, c1 *Conformation, e1, f1 float64, g1 Change) (*Conformation, float64, float64) {
	n := len(g1)
	h := NewTriangular(n)
	h.SetIdentity()
	p := make([]float64, n)
	y := make([]float64, n)
	mhy := make([]float64, n)
	c2 := NewConformation(len(c1.Torsions))
	for {
		//descent direction p = -h*g1, and its slope along g1
		h.MulVecNeg(p, g1)
		pg1 := floats.Dot(p, g1)
		var (
			e2, f2 float64
			g2     Change
			alpha  = 1.0
			found  bool
		)
		for trial := 0; trial < numAlphaTrials; trial++ {
			c1.Step(p, alpha, c2)
			//the energy bound enforces the sufficient-decrease rule:
			//the evaluator bails out instead of computing a gradient
			//for a step that does not decrease enough
			e, f, g, ok := ev.Evaluate(c2, e1+armijoC1*alpha*pg1)
			if ok && floats.Dot(p, g) >= curvatureC2*pg1 {
				e2, f2, g2 = e, f, g
				found = true
				break
			}
			alpha *= alphaShrink
		}
		if !found {
			return c1, e1, f1
		}
		//rank-2 inverse-Hessian update
		floats.SubTo(y, g2, g1)
		h.MulVecNeg(mhy, y)
		yhy := -floats.Dot(y, mhy)
		yp := floats.Dot(y, p)
		//the curvature condition keeps yp positive in the normal path;
		//skip the update if floating-point collapse breaks that
		if yp > 0 && !math.IsInf(1/yp, 0) {
			ryp := 1 / yp
			pco := ryp * (ryp*yhy + alpha)
			for i := 0; i < n; i++ {
				for j := i; j < n; j++ {
					h.Add(i, j, ryp*(mhy[i]*p[j]+mhy[j]*p[i])+pco*p[i]*p[j])
				}
			}
		}
		c1, c2 = c2, c1
		e1, f1, g1 = e2, f2, g2
	}
}

//uniform11 draws from the uniform distribution on [-1,1).
func uniform11(rng *rand.Rand) float64 {
	return -1 + 2*rng.Float64()
}

//randomConformation draws a pose with the position inside the span of
//the box around its center, a uniformly random orientation, and uniform
//torsions.
func randomConformation(rng *rand.Rand, b *Box, numActiveTorsions int) *Conformation {
	c := NewConformation(numActiveTorsions)
	c.Position = r3.Add(b.Center, r3.Scale(uniform11(rng), b.Span))
	for {
		q := quat.Number{
			Real: uniform11(rng), Imag: uniform11(rng),
			Jmag: uniform11(rng), Kmag: uniform11(rng),
		}
		if a := quat.Abs(q); a > 1e-3 {
			c.Orientation = quat.Scale(1/a, q)
			break
		}
	}
	for i := range c.Torsions {
		c.Torsions[i] = uniform11(rng)
	}
	return c
}

//MonteCarlo runs one seeded search task: a random initial pose, then
//numMCIterations steps of perturb, BFGS-refine and greedily accept.
//Every accepted improvement (and the initial pose) is clustered into
//rs. The incumbent energy never increases across iterations. A task is
//strictly sequential; parallelism comes from running many tasks with
//different seeds over shared read-only data.
func MonteCarlo(rs *ResultSet, ev Evaluator, b *Box, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	eUpperBound := energyBoundPerAtom * float64(ev.NumHeavyAtoms())
	requiredSquareError := rmsdPerAtom * float64(ev.NumHeavyAtoms())
	//the seed pose is evaluated unbounded so that the incumbent energy
	//is always defined
	c0 := randomConformation(rng, b, ev.NumActiveTorsions())
	e0, f0, _, _ := ev.Evaluate(c0, math.Inf(1))
	rs.Insert(ev.ComposeResult(e0, f0, c0), requiredSquareError)
	for i := 0; i < numMCIterations; i++ {
		//perturb only the position; orientation and torsions move
		//through the descent that follows
		c1 := c0.Clone()
		c1.Position = r3.Add(c1.Position, r3.Vec{
			X: uniform11(rng), Y: uniform11(rng), Z: uniform11(rng),
		})
		e1, f1, g1, ok := ev.Evaluate(c1, eUpperBound)
		if !ok {
			continue
		}
		c1, e1, f1 = bfgs(ev, c1, e1, f1, g1)
		//zero-temperature Metropolis: accept only strict improvements
		if e1 < e0 {
			rs.Insert(ev.ComposeResult(e1, f1, c1), requiredSquareError)
			c0, e0 = c1, e1
		}
	}
}
