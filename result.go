/*
 * result.go, part of godock.
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
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

//Result is one docked pose, expanded into absolute coordinates so it no
//longer depends on the conformation that produced it.
type Result struct {
	E         float64 //total free energy
	F         float64 //inter-molecular free energy
	ENorm     float64 //normalized free energy, for output only
	Heavy     []r3.Vec
	Hydrogens []r3.Vec
}

//DistSqr returns the sum of squared per-atom deviations between two
//coordinate sets of equal length. It is the clustering metric of the
//result set.
func DistSqr(a, b []r3.Vec) float64 {
	if len(a) != len(b) {
		panic("DistSqr: coordinate sets of different size")
	}
	sum := 0.0
	for i := range a {
		sum += r3.Norm2(r3.Sub(a[i], b[i]))
	}
	return sum
}

//ResultSet keeps up to a fixed number of diverse low-energy poses,
//always sorted by ascending energy. Poses closer than the clustering
//threshold share a cluster, and only the best of a cluster is kept.
//A ResultSet belongs to a single search task; merging sets is done
//after the tasks have finished.
type ResultSet struct {
	capacity int
	results  []*Result
}

//NewResultSet returns an empty result set with the given capacity.
func NewResultSet(capacity int) *ResultSet {
	if capacity < 1 {
		panic("NewResultSet: non-positive capacity")
	}
	return &ResultSet{capacity: capacity}
}

//Len returns the number of poses currently held.
func (s *ResultSet) Len() int {
	return len(s.results)
}

//Capacity returns the maximum number of poses the set will hold.
func (s *ResultSet) Capacity() int {
	return s.capacity
}

//Results returns the poses, best first. The slice is the set's own.
func (s *ResultSet) Results() []*Result {
	return s.results
}

//Best returns the lowest-energy pose, or nil for an empty set.
func (s *ResultSet) Best() *Result {
	if len(s.results) == 0 {
		return nil
	}
	return s.results[0]
}

//Insert clusters r into the set. If the closest existing pose is within
//requiredSquareError (the sum of squared heavy-atom deviations), r
//replaces it only when r has the lower energy. Otherwise r founds a new
//cluster: it is appended while under capacity, or replaces the current
//worst pose if it beats it. The set is re-sorted after any change.
func (s *ResultSet) Insert(r *Result, requiredSquareError float64) {
	if len(s.results) == 0 {
		s.results = append(s.results, r)
		return
	}
	index := 0
	best := DistSqr(r.Heavy, s.results[0].Heavy)
	for i := 1; i < len(s.results); i++ {
		if d := DistSqr(r.Heavy, s.results[i].Heavy); d < best {
			index = i
			best = d
		}
	}
	switch {
	case best < requiredSquareError: //same cluster as results[index]
		if r.E < s.results[index].E {
			s.results[index] = r
		} else {
			return
		}
	case len(s.results) < s.capacity:
		s.results = append(s.results, r)
	case r.E < s.results[len(s.results)-1].E: //full: replace the worst
		s.results[len(s.results)-1] = r
	default:
		return
	}
	sort.SliceStable(s.results, func(i, j int) bool {
		return s.results[i].E < s.results[j].E
	})
}
