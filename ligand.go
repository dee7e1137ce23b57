/*
 * ligand.go, part of godock.
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
	"strconv"
	"strings"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

//flexWeight scales the torsional flexibility penalty applied to the
//normalized free energy; inactive torsions count half.
const flexWeight = 0.05846

//frame is one rigid group of ligand atoms. Frame 0 is the root; every
//other frame hangs from its parent through a rotatable bond from the
//parent's rotorX atom to this frame's rotorY atom.
type frame struct {
	parent    int
	rotorXsrn int //serials, as read from the BRANCH record
	rotorYsrn int
	rotorX    int //heavy-atom index in the parent frame
	rotorY    int //heavy-atom index in this frame; its position is the frame origin
	active    bool
	tor       int    //torsion slot, -1 when inactive
	yy        r3.Vec //parent origin to this origin, in parse coordinates
	axis      r3.Vec //unit rotorX->rotorY, in parse coordinates
}

//atomPair is a pair of heavy atoms whose separation changes with the
//torsions, scored with the same precalculated tables as the
//receptor interactions.
type atomPair struct {
	i, j int
	tpi  int //type pair index
}

//Ligand is a flexible small molecule parsed from a PDBQT file: a tree
//of rigid frames joined by rotatable bonds. Atom coordinates are kept
//relative to their frame's origin; absolute positions are produced by
//the forward kinematics of a Conformation. A Ligand is read-only after
//parsing and can be shared by concurrent search tasks.
type Ligand struct {
	Frames      []frame
	HeavyAtoms  []Atom
	Hydrogens   []Atom
	TorsDof     int //rotatable bond count declared by the file
	heavyFrame  []int
	hydroFrame  []int
	pairs       []atomPair
	nActive     int
	nInactive   int
	flexPenalty float64
}

//NumActiveTorsions returns the number of torsional degrees of freedom
//of the search.
func (l *Ligand) NumActiveTorsions() int {
	return l.nActive
}

//NumHeavyAtoms returns the number of heavy (non-hydrogen) atoms.
func (l *Ligand) NumHeavyAtoms() int {
	return len(l.HeavyAtoms)
}

//ReadLigand parses a flexible ligand from a PDBQT file (gzipped files
//are fine). The ROOT/BRANCH/ENDBRANCH records define the frame tree;
//donor and hydrophobic reclassification runs within each frame, the
//same heuristics the receptor parser applies per residue.
func ReadLigand(path string) (*Ligand, error) {
	in, err := openDecompressed(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	l := new(Ligand)
	var stack []int //open frames, innermost last
	lineno := 0
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		lineno++
		switch {
		case strings.HasPrefix(line, "ATOM  ") || strings.HasPrefix(line, "HETATM"):
			if len(stack) == 0 {
				return nil, fmt.Errorf("%s: line %d: atom record outside ROOT", path, lineno)
			}
			a, err := parseAtomRecord(line, lineno)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			if a == nil {
				continue
			}
			cur := stack[len(stack)-1]
			if a.IsHydrogen() {
				if a.AD == adHD {
					l.donorizeInFrame(cur, a)
				}
				l.Hydrogens = append(l.Hydrogens, *a)
				l.hydroFrame = append(l.hydroFrame, cur)
				continue
			}
			if a.IsHetero() {
				l.dehydrophobicizeInFrame(cur, a)
			} else if l.heteroNeighborInFrame(cur, a) {
				a.Dehydrophobicize()
			}
			idx := len(l.HeavyAtoms)
			l.HeavyAtoms = append(l.HeavyAtoms, *a)
			l.heavyFrame = append(l.heavyFrame, cur)
			if fr := &l.Frames[cur]; fr.rotorY < 0 && a.Serial == fr.rotorYsrn {
				fr.rotorY = idx
			}
		case strings.HasPrefix(line, "ROOT"):
			if len(l.Frames) > 0 {
				return nil, fmt.Errorf("%s: line %d: second ROOT record", path, lineno)
			}
			l.Frames = append(l.Frames, frame{parent: -1, rotorX: -1, rotorY: -1, tor: -1})
			stack = append(stack, 0)
		case strings.HasPrefix(line, "ENDROOT"):
			//the root frame stays current for the BRANCH records that follow
		case strings.HasPrefix(line, "BRANCH"):
			if len(stack) == 0 {
				return nil, fmt.Errorf("%s: line %d: BRANCH before ROOT", path, lineno)
			}
			xsrn, ysrn, err := parseBranch(line, lineno)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			rx := l.heavyBySerial(xsrn)
			if rx < 0 {
				return nil, fmt.Errorf("%s: line %d: BRANCH rotor atom %d not yet seen", path, lineno, xsrn)
			}
			l.Frames = append(l.Frames, frame{
				parent:    stack[len(stack)-1],
				rotorXsrn: xsrn,
				rotorYsrn: ysrn,
				rotorX:    rx,
				rotorY:    -1,
				tor:       -1,
			})
			stack = append(stack, len(l.Frames)-1)
		case strings.HasPrefix(line, "ENDBRANCH"):
			if len(stack) < 2 {
				return nil, fmt.Errorf("%s: line %d: unmatched ENDBRANCH", path, lineno)
			}
			cur := stack[len(stack)-1]
			if l.Frames[cur].rotorY < 0 {
				return nil, fmt.Errorf("%s: line %d: branch closed without its rotor atom %d",
					path, lineno, l.Frames[cur].rotorYsrn)
			}
			stack = stack[:len(stack)-1]
		case strings.HasPrefix(line, "TORSDOF"):
			fields := strings.Fields(line)
			if len(fields) == 2 {
				l.TorsDof, _ = strconv.Atoi(fields[1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(l.Frames) == 0 || len(l.HeavyAtoms) == 0 {
		return nil, fmt.Errorf("%s: no ROOT frame or no heavy atoms", path)
	}
	l.finish()
	return l, nil
}

//parseBranch reads the two atom serials of a BRANCH or ENDBRANCH record.
func parseBranch(line string, lineno int) (x, y int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return 0, 0, fmt.Errorf("line %d: malformed BRANCH record", lineno)
	}
	if x, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, fmt.Errorf("line %d: bad BRANCH serial: %w", lineno, err)
	}
	if y, err = strconv.Atoi(fields[2]); err != nil {
		return 0, 0, fmt.Errorf("line %d: bad BRANCH serial: %w", lineno, err)
	}
	return x, y, nil
}

//heavyBySerial returns the index of the heavy atom with the given
//serial, or -1.
func (l *Ligand) heavyBySerial(serial int) int {
	for i := range l.HeavyAtoms {
		if l.HeavyAtoms[i].Serial == serial {
			return i
		}
	}
	return -1
}

//donorizeInFrame promotes the hetero atom of frame k bonded to the
//polar hydrogen h, if any.
func (l *Ligand) donorizeInFrame(k int, h *Atom) {
	for i := len(l.HeavyAtoms) - 1; i >= 0; i-- {
		if l.heavyFrame[i] != k {
			continue
		}
		if b := &l.HeavyAtoms[i]; b.IsHetero() && b.IsNeighbor(h) {
			b.Donorize()
			return
		}
	}
}

//dehydrophobicizeInFrame strips the hydrophobic character of the
//carbons of frame k bonded to the hetero atom a.
func (l *Ligand) dehydrophobicizeInFrame(k int, a *Atom) {
	for i := range l.HeavyAtoms {
		if l.heavyFrame[i] != k {
			continue
		}
		if b := &l.HeavyAtoms[i]; !b.IsHetero() && b.IsNeighbor(a) {
			b.Dehydrophobicize()
		}
	}
}

//heteroNeighborInFrame tells whether the carbon a is bonded to some
//hetero atom already parsed into frame k.
func (l *Ligand) heteroNeighborInFrame(k int, a *Atom) bool {
	for i := range l.HeavyAtoms {
		if l.heavyFrame[i] != k {
			continue
		}
		if b := &l.HeavyAtoms[i]; b.IsHetero() && b.IsNeighbor(a) {
			return true
		}
	}
	return false
}

//finish fixes the frame geometry once all atoms are known: it picks
//frame origins and rotation axes, marks the active torsions, converts
//atom coordinates to frame-local ones, and collects the intra-ligand
//interacting pairs.
func (l *Ligand) finish() {
	l.Frames[0].rotorY = 0 //the first heavy atom anchors the root
	heavyCount := make([]int, len(l.Frames))
	for _, k := range l.heavyFrame {
		heavyCount[k]++
	}
	for k := 1; k < len(l.Frames); k++ {
		fr := &l.Frames[k]
		//a torsion that moves no heavy atom besides the rotor itself
		//cannot change the energy; it is excluded from the search.
		if heavyCount[k] > 1 {
			fr.active = true
			fr.tor = l.nActive
			l.nActive++
		} else {
			l.nInactive++
		}
	}
	l.flexPenalty = 1 + flexWeight*(float64(l.nActive)+0.5*float64(l.nInactive))
	origins := make([]r3.Vec, len(l.Frames))
	for k := range l.Frames {
		origins[k] = l.HeavyAtoms[l.Frames[k].rotorY].Coord
	}
	for k := 1; k < len(l.Frames); k++ {
		fr := &l.Frames[k]
		fr.yy = r3.Sub(origins[k], origins[fr.parent])
		fr.axis = r3.Unit(r3.Sub(origins[k], l.HeavyAtoms[fr.rotorX].Coord))
		//the in-frame reclassification cannot see across a rotatable
		//bond; a carbon bonded to a hetero rotor atom loses its
		//hydrophobic character here instead
		x, y := &l.HeavyAtoms[fr.rotorX], &l.HeavyAtoms[fr.rotorY]
		if x.IsHetero() && !y.IsHetero() {
			y.Dehydrophobicize()
		} else if y.IsHetero() && !x.IsHetero() {
			x.Dehydrophobicize()
		}
	}
	for i := range l.HeavyAtoms {
		l.HeavyAtoms[i].Coord = r3.Sub(l.HeavyAtoms[i].Coord, origins[l.heavyFrame[i]])
	}
	for i := range l.Hydrogens {
		l.Hydrogens[i].Coord = r3.Sub(l.Hydrogens[i].Coord, origins[l.hydroFrame[i]])
	}
	//heavy-atom pairs in non-adjacent frames interact through the same
	//scoring tables as the receptor does; pairs within a frame or
	//across a single rotor are fixed or nearly fixed and are skipped.
	for i := 0; i < len(l.HeavyAtoms); i++ {
		for j := i + 1; j < len(l.HeavyAtoms); j++ {
			fi, fj := l.heavyFrame[i], l.heavyFrame[j]
			if fi == fj || l.Frames[fi].parent == fj || l.Frames[fj].parent == fi {
				continue
			}
			l.pairs = append(l.pairs, atomPair{
				i: i, j: j,
				tpi: TypePairIndex(l.HeavyAtoms[i].XS, l.HeavyAtoms[j].XS),
			})
		}
	}
}

//kinematics places every frame for the conformation c: absolute
//origins, orientations and global rotation axes. Orientation
//composition renormalizes; a non-unit input orientation panics.
func (l *Ligand) kinematics(c *Conformation) (origins []r3.Vec, orients []quat.Number, axes []r3.Vec) {
	if len(c.Torsions) != l.nActive {
		panic("Ligand.kinematics: wrong torsion count")
	}
	checkUnit(c.Orientation)
	origins = make([]r3.Vec, len(l.Frames))
	orients = make([]quat.Number, len(l.Frames))
	axes = make([]r3.Vec, len(l.Frames))
	origins[0] = c.Position
	orients[0] = c.Orientation
	for k := 1; k < len(l.Frames); k++ {
		fr := &l.Frames[k]
		qp := orients[fr.parent]
		axes[k] = rotate(qp, fr.axis)
		angle := 0.0
		if fr.active {
			angle = c.Torsions[fr.tor]
		}
		orients[k] = normalize(quat.Mul(rotationQuat(r3.Scale(angle, axes[k])), qp))
		origins[k] = r3.Add(origins[fr.parent], rotate(qp, fr.yy))
	}
	return origins, orients, axes
}

//Evaluator binds the ligand to a scoring function and a receptor,
//yielding the energy model the search optimizes.
func (l *Ligand) Evaluator(sf *ScoringFunction, rec *Receptor) Evaluator {
	return &gridEvaluator{lig: l, sf: sf, rec: rec}
}

//gridEvaluator scores ligand conformations against a receptor through
//the precalculated tables and the receptor's spatial partition.
type gridEvaluator struct {
	lig *Ligand
	sf  *ScoringFunction
	rec *Receptor
}

func (ev *gridEvaluator) NumActiveTorsions() int {
	return ev.lig.nActive
}

func (ev *gridEvaluator) NumHeavyAtoms() int {
	return len(ev.lig.HeavyAtoms)
}

//Evaluate returns the total and inter-molecular free energies of c and
//the gradient over its degrees of freedom. When the total energy is not
//below bound the conformation is infeasible: the energy is still
//returned but the gradient is not computed and ok is false.
func (ev *gridEvaluator) Evaluate(c *Conformation, bound float64) (e, f float64, g Change, ok bool) {
	l := ev.lig
	origins, orients, axes := l.kinematics(c)
	coords := make([]r3.Vec, len(l.HeavyAtoms))
	forces := make([]r3.Vec, len(l.HeavyAtoms))
	for i := range l.HeavyAtoms {
		k := l.heavyFrame[i]
		coords[i] = r3.Add(origins[k], rotate(orients[k], l.HeavyAtoms[i].Coord))
	}
	//inter-molecular term: each ligand atom against the receptor atoms
	//of its partition cell
	for i := range coords {
		t1 := l.HeavyAtoms[i].XS
		for _, j := range ev.rec.Near(coords[i]) {
			d := r3.Sub(coords[i], ev.rec.Atoms[j].Coord)
			r2 := r3.Norm2(d)
			if r2 >= CutoffSqr {
				continue
			}
			e1, dor := ev.sf.Evaluate(TypePairIndex(t1, ev.rec.Atoms[j].XS), r2)
			f += e1
			forces[i] = r3.Add(forces[i], r3.Scale(dor, d))
		}
	}
	//intra-ligand term over the interacting pairs
	e = f
	for _, p := range l.pairs {
		d := r3.Sub(coords[p.i], coords[p.j])
		r2 := r3.Norm2(d)
		if r2 >= CutoffSqr {
			continue
		}
		e1, dor := ev.sf.Evaluate(p.tpi, r2)
		e += e1
		fd := r3.Scale(dor, d)
		forces[p.i] = r3.Add(forces[p.i], fd)
		forces[p.j] = r3.Sub(forces[p.j], fd)
	}
	if e >= bound {
		return e, f, nil, false
	}
	//assemble the gradient: per-frame force and torque, folded from the
	//leaves into the parents; active torsions read the torque component
	//along their rotation axis.
	g = NewChange(l.nActive)
	frameForce := make([]r3.Vec, len(l.Frames))
	frameTorque := make([]r3.Vec, len(l.Frames))
	for i := range coords {
		k := l.heavyFrame[i]
		frameForce[k] = r3.Add(frameForce[k], forces[i])
		frameTorque[k] = r3.Add(frameTorque[k], r3.Cross(r3.Sub(coords[i], origins[k]), forces[i]))
	}
	for k := len(l.Frames) - 1; k >= 1; k-- {
		fr := &l.Frames[k]
		if fr.active {
			g[6+fr.tor] = r3.Dot(axes[k], frameTorque[k])
		}
		p := fr.parent
		frameForce[p] = r3.Add(frameForce[p], frameForce[k])
		frameTorque[p] = r3.Add(frameTorque[p],
			r3.Add(frameTorque[k], r3.Cross(r3.Sub(origins[k], origins[p]), frameForce[k])))
	}
	g[0], g[1], g[2] = frameForce[0].X, frameForce[0].Y, frameForce[0].Z
	g[3], g[4], g[5] = frameTorque[0].X, frameTorque[0].Y, frameTorque[0].Z
	return e, f, g, true
}

//ComposeResult expands the conformation c into a Result with absolute
//heavy-atom and hydrogen coordinates and the normalized energy.
func (ev *gridEvaluator) ComposeResult(e, f float64, c *Conformation) *Result {
	l := ev.lig
	origins, orients, _ := l.kinematics(c)
	r := &Result{E: e, F: f, ENorm: e / l.flexPenalty}
	r.Heavy = make([]r3.Vec, len(l.HeavyAtoms))
	for i := range l.HeavyAtoms {
		k := l.heavyFrame[i]
		r.Heavy[i] = r3.Add(origins[k], rotate(orients[k], l.HeavyAtoms[i].Coord))
	}
	r.Hydrogens = make([]r3.Vec, len(l.Hydrogens))
	for i := range l.Hydrogens {
		k := l.hydroFrame[i]
		r.Hydrogens[i] = r3.Add(origins[k], rotate(orients[k], l.Hydrogens[i].Coord))
	}
	return r
}
