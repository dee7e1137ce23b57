/*
 * receptor.go, part of godock.
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
	"bufio"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

//Receptor is a rigid macromolecule together with the spatial partition
//of the search box over its atoms. It is built once per receptor/box
//pair and is read-only afterwards, so any number of concurrent search
//tasks may share it.
type Receptor struct {
	Atoms []Atom
	Box   *Box
	//cells holds, for each cell of the box, the indices of the heavy
	//receptor atoms whose distance to the cell is within the cutoff.
	//An atom can appear in several cells.
	cells [][]int
}

//ReadReceptor parses a rigid receptor from a PDBQT file (gzipped files
//are fine) and builds its spatial partition over the given box.
//
//Hydrogen-bond donors and buried carbons are reclassified from a
//residue-local bonding search: a polar hydrogen promotes the hetero
//atom it is bonded to into a donor, and a carbon bonded to a hetero
//atom loses its hydrophobic character. Records with unrecognized atom
//types, and non-polar hydrogens, are skipped silently.
func ReadReceptor(path string, b *Box) (*Receptor, error) {
	in, err := openDecompressed(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	rec := &Receptor{Box: b}
	residue := "XXXX"   //current residue sequence, tracked to scope the bonding search
	residueStart := 0   //index of the first atom of the current residue
	lineno := 0
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		lineno++
		switch {
		case strings.HasPrefix(line, "ATOM  ") || strings.HasPrefix(line, "HETATM"):
			if len(line) >= 26 && line[22:26] != residue {
				residue = line[22:26]
				residueStart = len(rec.Atoms)
			}
			a, err := parseAtomRecord(line, lineno)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			if a == nil || a.AD == adH { //unknown type or non-polar hydrogen
				continue
			}
			switch {
			case a.AD == adHD:
				//the bonded hetero atom becomes a hydrogen-bond donor
				for i := len(rec.Atoms) - 1; i >= residueStart; i-- {
					bd := &rec.Atoms[i]
					if bd.IsHetero() && bd.IsNeighbor(a) {
						bd.Donorize()
						break
					}
				}
			case a.IsHetero():
				//carbons bonded to it are no longer hydrophobic
				for i := len(rec.Atoms) - 1; i >= residueStart; i-- {
					bd := &rec.Atoms[i]
					if !bd.IsHetero() && bd.IsNeighbor(a) {
						bd.Dehydrophobicize()
					}
				}
			default:
				//a carbon: hetero neighbors take its hydrophobicity away
				for i := len(rec.Atoms) - 1; i >= residueStart; i-- {
					bd := &rec.Atoms[i]
					if bd.IsHetero() && bd.IsNeighbor(a) {
						a.Dehydrophobicize()
						break
					}
				}
			}
			rec.Atoms = append(rec.Atoms, *a)
		case strings.HasPrefix(line, "TER"):
			residue = "XXXX"
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rec.buildPartition()
	return rec, nil
}

//buildPartition fills the per-cell candidate lists. A coarse pass keeps
//only the heavy atoms within the cutoff of the box as a whole; each
//cell then keeps the atoms whose projected distance to the cell's
//extent is within the cutoff.
func (rec *Receptor) buildPartition() {
	b := rec.Box
	var nearBox []int
	for i := range rec.Atoms {
		a := &rec.Atoms[i]
		if a.IsHydrogen() { //polar hydrogens do not score
			continue
		}
		if b.ProjectDistSqr(a.Coord) < CutoffSqr {
			nearBox = append(nearBox, i)
		}
	}
	rec.cells = make([][]int, b.NCells[0]*b.NCells[1]*b.NCells[2])
	for x := 0; x < b.NCells[0]; x++ {
		for y := 0; y < b.NCells[1]; y++ {
			for z := 0; z < b.NCells[2]; z++ {
				c0 := b.CellCorner0(x, y, z)
				c1 := b.CellCorner0(x+1, y+1, z+1)
				var cell []int
				for _, i := range nearBox {
					if projectDistSqr(c0, c1, rec.Atoms[i].Coord) < CutoffSqr {
						cell = append(cell, i)
					}
				}
				rec.cells[rec.cellOffset(x, y, z)] = cell
			}
		}
	}
}

//cellOffset flattens cell indices into the cells slice.
func (rec *Receptor) cellOffset(x, y, z int) int {
	n := rec.Box.NCells
	return (x*n[1]+y)*n[2] + z
}

//Near returns the indices of the receptor atoms that can interact with
//a ligand atom at p: the candidate list of p's cell. The returned slice
//is shared and must not be modified.
func (rec *Receptor) Near(p r3.Vec) []int {
	x, y, z := rec.Box.CellIndex(p)
	return rec.cells[rec.cellOffset(x, y, z)]
}
