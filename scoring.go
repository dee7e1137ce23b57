/*
 * scoring.go, part of godock.
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
	"math"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

//Cutoff is the interaction cutoff distance, in Angstrom. Atom pairs
//farther apart than this contribute nothing.
const (
	Cutoff    = 8.0
	CutoffSqr = Cutoff * Cutoff
	//Factor is the sampling density of the precalculated tables: the
	//number of samples per unit of squared distance.
	Factor = 256.0
	//NumSamples is the length of each per-type-pair table, covering
	//squared distances in [0, CutoffSqr].
	NumSamples = int(Factor*CutoffSqr) + 1
)

//weights of the five terms of the scoring function.
const (
	wGauss1      = -0.035579
	wGauss2      = -0.005156
	wRepulsion   = 0.840245
	wHydrophobic = -0.035069
	wHBond       = -0.587439
)

//TypePairIndex returns the canonical index of the unordered pair of
//scoring types (t1,t2), used to address the precalculated tables.
func TypePairIndex(t1, t2 int) int {
	return triIndexMirror(t1, t2)
}

//numTypePairs is the number of unordered scoring type pairs.
const numTypePairs = XSTypeCount * (XSTypeCount + 1) / 2

//gridSample is one precalculated sample: the energy and its derivative
//over the distance, divided by the distance.
type gridSample struct {
	e   float64
	dor float64
}

//ScoringFunction holds, for every unordered pair of scoring types, a
//table of energy/derivative samples at uniformly spaced squared
//distances. Precalculate all pairs before evaluating; the tables are
//immutable afterwards and can be shared by any number of concurrent
//search tasks.
type ScoringFunction struct {
	tables [numTypePairs][]gridSample
}

//NewScoringFunction returns a scoring function with all tables
//allocated but not yet precalculated.
func NewScoringFunction() *ScoringFunction {
	sf := new(ScoringFunction)
	for i := range sf.tables {
		sf.tables[i] = make([]gridSample, NumSamples)
	}
	return sf
}

//Score returns the value of the scoring function for the types t1 and
//t2 at the center-to-center distance r. It is the slow path, used only
//to fill the tables.
func Score(t1, t2 int, r float64) float64 {
	//d is the surface distance: negative means the van der Waals
	//surfaces overlap.
	d := r - (xsVdwRadius[t1] + xsVdwRadius[t2])
	e := wGauss1 * math.Exp(-(d*2)*(d*2))
	e += wGauss2 * math.Exp(-((d-3)*0.5)*((d-3)*0.5))
	if d < 0 {
		e += wRepulsion * d * d
	}
	if XSIsHydrophobic(t1) && XSIsHydrophobic(t2) {
		if d < 1.5 {
			if d <= 0.5 {
				e += wHydrophobic
			} else {
				e += wHydrophobic * (1.5 - d)
			}
		}
	}
	if XSHBond(t1, t2) {
		if d < 0 {
			if d <= -0.7 {
				e += wHBond
			} else {
				e += wHBond * d * (-1 / 0.7)
			}
		}
	}
	return e
}

//SampleRadii returns the distances at which the tables are sampled:
//the square roots of NumSamples uniformly spaced squared distances
//covering [0, CutoffSqr].
func SampleRadii() []float64 {
	rs := make([]float64, NumSamples)
	for i := range rs {
		rs[i] = math.Sqrt(float64(i) / Factor)
	}
	return rs
}

//Precalculate fills the table for the type pair (t1,t2) with the
//energies at the given sample distances and their finite-difference
//derivatives. The derivative at the first and last sample is zero:
//there is no extrapolation past the cutoff.
func (sf *ScoringFunction) Precalculate(t1, t2 int, rs []float64) {
	if len(rs) != NumSamples {
		panic("Precalculate: wrong number of sample radii")
	}
	p := sf.tables[TypePairIndex(t1, t2)]
	for i := range p {
		p[i].e = Score(t1, t2, rs[i])
	}
	for i := 1; i < NumSamples-1; i++ {
		p[i].dor = (p[i+1].e - p[i].e) / ((rs[i+1] - rs[i]) * rs[i])
	}
	p[0].dor = 0
	p[NumSamples-1].dor = 0
}

//PrecalculateAll fills the tables for every unordered pair of scoring
//types, one pool task per first type.
func (sf *ScoringFunction) PrecalculateAll() error {
	rs := SampleRadii()
	pool, err := ants.NewPool(runtime.NumCPU())
	if err != nil {
		return fmt.Errorf("PrecalculateAll: %w", err)
	}
	defer pool.Release()
	var wg sync.WaitGroup
	for t1 := 0; t1 < XSTypeCount; t1++ {
		t1 := t1
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			for t2 := t1; t2 < XSTypeCount; t2++ {
				sf.Precalculate(t1, t2, rs)
			}
		})
		if err != nil {
			wg.Done()
			return fmt.Errorf("PrecalculateAll: %w", err)
		}
	}
	wg.Wait()
	return nil
}

//Evaluate returns the precalculated energy and derivative-over-distance
//for the type pair at the given squared distance, taking the sample
//just below it. r2 above the squared cutoff is a programming error: the
//callers prune with the cutoff before asking.
func (sf *ScoringFunction) Evaluate(typePairIndex int, r2 float64) (e, dor float64) {
	if r2 > CutoffSqr {
		panic("ScoringFunction.Evaluate: squared distance beyond the cutoff")
	}
	s := sf.tables[typePairIndex][int(Factor*r2)]
	return s.e, s.dor
}
