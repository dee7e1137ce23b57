/*
 * atom.go, part of godock.
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
	"gonum.org/v1/gonum/spatial/r3"
)

//AutoDock atom types, as found in the last column of a PDBQT atom record.
//The two hydrogen types must stay first, IsHydrogen depends on it.
const (
	adH = iota
	adHD
	adC
	adA
	adN
	adNA
	adOA
	adS
	adSA
	adSe
	adP
	adF
	adCl
	adBr
	adI
	adZn
	adFe
	adMg
	adCa
	adMn
	adCu
	adNa
	adK
	adHg
	adNi
	adCo
	adCd
	adAs
	adSr
	adTypeCount
)

//Scoring atom types. Hydrogens have none (they carry no score of their
//own); every heavy AutoDock type maps to exactly one of these, possibly
//reclassified later from its bonding environment.
const (
	XSCarbonHydrophobic = iota
	XSCarbonPolar
	XSNitrogenPolar
	XSNitrogenDonor
	XSNitrogenAcceptor
	XSNitrogenDonorAcceptor
	XSOxygenAcceptor
	XSOxygenDonorAcceptor
	XSSulfur
	XSPhosphorus
	XSFluorine
	XSChlorine
	XSBromine
	XSIodine
	XSMetalDonor
	XSTypeCount
)

//adTypeNames maps the PDBQT type string to the AutoDock type code.
var adTypeNames = map[string]int{
	"H": adH, "HD": adHD, "C": adC, "A": adA, "N": adN, "NA": adNA,
	"OA": adOA, "S": adS, "SA": adSA, "Se": adSe, "P": adP, "F": adF,
	"Cl": adCl, "Br": adBr, "I": adI, "Zn": adZn, "Fe": adFe, "Mg": adMg,
	"Ca": adCa, "Mn": adMn, "Cu": adCu, "Na": adNa, "K": adK, "Hg": adHg,
	"Ni": adNi, "Co": adCo, "Cd": adCd, "As": adAs, "Sr": adSr,
}

//adStrings is the inverse of adTypeNames, for writing atoms back out.
var adStrings = [adTypeCount]string{
	"H", "HD", "C", "A", "N", "NA", "OA", "S", "SA", "Se", "P", "F",
	"Cl", "Br", "I", "Zn", "Fe", "Mg", "Ca", "Mn", "Cu", "Na", "K",
	"Hg", "Ni", "Co", "Cd", "As", "Sr",
}

//adToXS gives the initial scoring type for each AutoDock type.
//Hydrogens get -1. Carbons start hydrophobic, nitrogens and oxygens
//start as plain polar/acceptor; bonding heuristics may promote them.
var adToXS = [adTypeCount]int{
	adH: -1, adHD: -1,
	adC: XSCarbonHydrophobic, adA: XSCarbonHydrophobic,
	adN: XSNitrogenPolar, adNA: XSNitrogenAcceptor,
	adOA: XSOxygenAcceptor,
	adS:  XSSulfur, adSA: XSSulfur, adSe: XSSulfur,
	adP:  XSPhosphorus,
	adF:  XSFluorine, adCl: XSChlorine, adBr: XSBromine, adI: XSIodine,
	adZn: XSMetalDonor, adFe: XSMetalDonor, adMg: XSMetalDonor,
	adCa: XSMetalDonor, adMn: XSMetalDonor, adCu: XSMetalDonor,
	adNa: XSMetalDonor, adK: XSMetalDonor, adHg: XSMetalDonor,
	adNi: XSMetalDonor, adCo: XSMetalDonor, adCd: XSMetalDonor,
	adAs: XSMetalDonor, adSr: XSMetalDonor,
}

//adCovalentRadius holds per AutoDock type the covalent radius scaled by
//1.1, the tolerance used for the bonded-neighbor test.
var adCovalentRadius = [adTypeCount]float64{
	adH: 0.407, adHD: 0.407, adC: 0.847, adA: 0.847, adN: 0.825,
	adNA: 0.825, adOA: 0.803, adS: 1.122, adSA: 1.122, adSe: 1.276,
	adP: 1.166, adF: 0.781, adCl: 1.089, adBr: 1.254, adI: 1.463,
	adZn: 1.441, adFe: 1.375, adMg: 1.430, adCa: 1.914, adMn: 1.529,
	adCu: 1.518, adNa: 1.694, adK: 2.156, adHg: 1.639, adNi: 1.331,
	adCo: 1.386, adCd: 1.628, adAs: 1.309, adSr: 2.112,
}

//xsVdwRadius holds the van der Waals radius of each scoring type.
var xsVdwRadius = [XSTypeCount]float64{
	XSCarbonHydrophobic:     1.9,
	XSCarbonPolar:           1.9,
	XSNitrogenPolar:         1.8,
	XSNitrogenDonor:         1.8,
	XSNitrogenAcceptor:      1.8,
	XSNitrogenDonorAcceptor: 1.8,
	XSOxygenAcceptor:        1.7,
	XSOxygenDonorAcceptor:   1.7,
	XSSulfur:                2.0,
	XSPhosphorus:            2.1,
	XSFluorine:              1.5,
	XSChlorine:              1.8,
	XSBromine:               2.0,
	XSIodine:                2.2,
	XSMetalDonor:            1.2,
}

//XSIsHydrophobic tells whether the scoring type t counts as hydrophobic
//for the hydrophobic term of the scoring function.
func XSIsHydrophobic(t int) bool {
	return t == XSCarbonHydrophobic || t == XSFluorine || t == XSChlorine ||
		t == XSBromine || t == XSIodine
}

//XSIsDonor tells whether the scoring type t can donate a hydrogen bond.
func XSIsDonor(t int) bool {
	return t == XSNitrogenDonor || t == XSNitrogenDonorAcceptor ||
		t == XSOxygenDonorAcceptor || t == XSMetalDonor
}

//XSIsAcceptor tells whether the scoring type t can accept a hydrogen bond.
func XSIsAcceptor(t int) bool {
	return t == XSNitrogenAcceptor || t == XSNitrogenDonorAcceptor ||
		t == XSOxygenAcceptor || t == XSOxygenDonorAcceptor
}

//XSHBond tells whether the pair of scoring types t1, t2 can form a
//hydrogen bond, in either direction.
func XSHBond(t1, t2 int) bool {
	return (XSIsDonor(t1) && XSIsAcceptor(t2)) ||
		(XSIsDonor(t2) && XSIsAcceptor(t1))
}

//Atom is one atom of a receptor or a ligand. Coord is absolute for
//receptor atoms and frame-local for ligand atoms after parsing.
type Atom struct {
	Serial int
	Name   string
	Coord  r3.Vec
	AD     int //AutoDock type
	XS     int //scoring type, -1 for hydrogens
}

//IsHydrogen tells whether the atom is a (polar or non-polar) hydrogen.
func (a *Atom) IsHydrogen() bool {
	return a.AD <= adHD
}

//IsHetero tells whether the atom is a heavy atom other than carbon.
func (a *Atom) IsHetero() bool {
	return a.AD >= adN
}

//IsNeighbor tells whether a and b are close enough to be covalently
//bonded, judged from their scaled covalent radii.
func (a *Atom) IsNeighbor(b *Atom) bool {
	s := adCovalentRadius[a.AD] + adCovalentRadius[b.AD]
	return r3.Norm2(r3.Sub(a.Coord, b.Coord)) < s*s
}

//Donorize promotes the atom's scoring type to the matching
//hydrogen-bond donor type. It is called when a polar hydrogen is found
//bonded to the atom. Types with no donor form are left alone.
func (a *Atom) Donorize() {
	switch a.XS {
	case XSNitrogenPolar:
		a.XS = XSNitrogenDonor
	case XSNitrogenAcceptor:
		a.XS = XSNitrogenDonorAcceptor
	case XSOxygenAcceptor:
		a.XS = XSOxygenDonorAcceptor
	}
}

//Dehydrophobicize reclassifies a hydrophobic carbon as polar. It is
//called when the carbon is found bonded to a hetero atom.
func (a *Atom) Dehydrophobicize() {
	if a.XS == XSCarbonHydrophobic {
		a.XS = XSCarbonPolar
	}
}
